package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusValid(t *testing.T) {
	for _, s := range Statuses() {
		assert.True(t, s.Valid(), "estado %q", s)
	}
	assert.False(t, Status("").Valid())
	assert.False(t, Status("shipped").Valid())
	assert.False(t, Status("PENDIENTE").Valid())
}
