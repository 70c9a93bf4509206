package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueVerify(t *testing.T) {
	tokens := &Tokens{Secret: []byte("secret"), TTL: time.Hour, Issuer: "test"}

	raw, err := tokens.Issue(42)
	require.NoError(t, err)

	id, err := tokens.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	a := &Tokens{Secret: []byte("secret-a"), TTL: time.Hour}
	b := &Tokens{Secret: []byte("secret-b"), TTL: time.Hour}

	raw, err := a.Issue(42)
	require.NoError(t, err)

	_, err = b.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	tokens := &Tokens{Secret: []byte("secret"), TTL: -time.Minute}

	raw, err := tokens.Issue(42)
	require.NoError(t, err)

	_, err = tokens.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	tokens := &Tokens{Secret: []byte("secret"), TTL: time.Hour}
	_, err := tokens.Verify("ni.siquiera.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
