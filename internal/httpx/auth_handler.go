package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmtzv/ecommerce-api/internal/auth"
	"github.com/dmtzv/ecommerce-api/internal/users"
)

// UserStore is the slice of the users repo the auth handlers consume.
type UserStore interface {
	Create(ctx context.Context, nombre, email, password string, roleID int) (*users.User, error)
	FindByEmail(ctx context.Context, email string) (*users.User, error)
	FindByID(ctx context.Context, id int64) (*users.User, error)
}

type AuthHandler struct {
	Store  UserStore
	Tokens *auth.Tokens
	Debug  bool
}

type registerReq struct {
	Nombre   string `json:"nombre" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userResp struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

func toUserResp(u *users.User) userResp {
	return userResp{ID: u.ID, Nombre: u.Nombre, Email: u.Email, Role: u.Role}
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "datos de entrada inválidos")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Store.FindByEmail(ctx, req.Email); err == nil {
		writeError(w, http.StatusBadRequest, users.ErrEmailTaken.Error())
		return
	} else if !errors.Is(err, users.ErrNotFound) {
		writeDomainError(w, err, h.Debug)
		return
	}

	u, err := h.Store.Create(ctx, req.Nombre, req.Email, req.Password, users.RoleIDCliente)
	if err != nil {
		writeDomainError(w, err, h.Debug)
		return
	}

	token, err := h.Tokens.Issue(u.ID)
	if err != nil {
		writeDomainError(w, err, h.Debug)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "usuario registrado exitosamente",
		"user":    toUserResp(u),
		"token":   token,
	})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "datos de entrada inválidos")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.Store.FindByEmail(ctx, req.Email)
	if err != nil {
		// same response for unknown email and bad password
		writeError(w, http.StatusUnauthorized, "credenciales inválidas")
		return
	}
	if !users.ValidatePassword(req.Password, u.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "credenciales inválidas")
		return
	}

	token, err := h.Tokens.Issue(u.ID)
	if err != nil {
		writeDomainError(w, err, h.Debug)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "inicio de sesión exitoso",
		"user":    toUserResp(u),
		"token":   token,
	})
}

func (h *AuthHandler) profile(w http.ResponseWriter, r *http.Request) {
	u := UserFrom(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"user": u})
}
