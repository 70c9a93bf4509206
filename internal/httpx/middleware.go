package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmtzv/ecommerce-api/internal/auth"
	"github.com/dmtzv/ecommerce-api/internal/users"
)

type ctxKey int

const userKey ctxKey = 0

// UserLoader resolves a verified token subject to a full user record with
// its role. The token alone is never trusted for authorization.
type UserLoader interface {
	FindByID(ctx context.Context, id int64) (*users.User, error)
}

// Authenticator verifies the Bearer token and injects the user into the
// request context. 401 without a valid token.
func Authenticator(tokens *auth.Tokens, loader UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				writeError(w, http.StatusUnauthorized, "token de acceso requerido")
				return
			}
			userID, err := tokens.Verify(raw)
			if err != nil {
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}
			u, err := loader.FindByID(r.Context(), userID)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "token inválido")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
		})
	}
}

// RequireRole gates a route to the given role names.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := UserFrom(r.Context())
			if u == nil {
				writeError(w, http.StatusUnauthorized, "usuario no autenticado")
				return
			}
			for _, role := range roles {
				if u.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "no tienes permisos para acceder a este recurso")
		})
	}
}

// UserFrom returns the authenticated user, or nil outside the auth chain.
func UserFrom(ctx context.Context) *users.User {
	u, _ := ctx.Value(userKey).(*users.User)
	return u
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
