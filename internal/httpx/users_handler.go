package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmtzv/ecommerce-api/internal/users"
)

// AdminUserStore covers the admin-only user management routes.
type AdminUserStore interface {
	FindAll(ctx context.Context) ([]users.User, error)
	FindByID(ctx context.Context, id int64) (*users.User, error)
	UpdateRole(ctx context.Context, id int64, roleID int) (*users.User, error)
}

type UsersHandler struct {
	Store AdminUserStore
	Debug bool
}

type updateRoleReq struct {
	RoleID int `json:"role_id"`
}

func (h *UsersHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	list, err := h.Store.FindAll(ctx)
	if err != nil {
		writeDomainError(w, err, h.Debug)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(list),
		"users":   list,
	})
}

func (h *UsersHandler) updateRole(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id inválido")
		return
	}
	var req updateRoleReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if !users.ValidRoleID(req.RoleID) {
		writeError(w, http.StatusBadRequest, "rol inválido")
		return
	}
	// an admin must not demote themselves
	if caller := UserFrom(r.Context()); caller != nil && caller.ID == id {
		writeError(w, http.StatusBadRequest, "no puedes cambiar tu propio rol")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if _, err := h.Store.FindByID(ctx, id); err != nil {
		writeDomainError(w, err, h.Debug)
		return
	}
	u, err := h.Store.UpdateRole(ctx, id, req.RoleID)
	if err != nil {
		writeDomainError(w, err, h.Debug)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "rol de usuario actualizado exitosamente",
		"user":    u,
	})
}
