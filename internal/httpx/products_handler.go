package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmtzv/ecommerce-api/internal/catalog"
)

type ProductsHandler struct {
	Store catalog.Store
	Debug bool
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Store.ListAvailable(ctx)
	if err != nil {
		writeDomainError(w, err, h.Debug)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"count":    len(ps),
		"products": ps,
	})
}

func (h *ProductsHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id inválido")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Store.GetByID(ctx, id)
	if err != nil {
		writeDomainError(w, err, h.Debug)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "product": p})
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if err := validate.Struct(in); err != nil {
		writeError(w, http.StatusBadRequest, "datos de entrada inválidos")
		return
	}
	if in.Precio.Sign() <= 0 {
		writeError(w, http.StatusBadRequest, "el precio debe ser mayor a 0")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Store.Create(ctx, in)
	if err != nil {
		writeDomainError(w, err, h.Debug)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "producto creado exitosamente",
		"product": p,
	})
}

func (h *ProductsHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id inválido")
		return
	}
	var in catalog.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if err := validate.Struct(in); err != nil {
		writeError(w, http.StatusBadRequest, "datos de entrada inválidos")
		return
	}
	if in.Precio.Sign() <= 0 {
		writeError(w, http.StatusBadRequest, "el precio debe ser mayor a 0")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Store.Update(ctx, id, in)
	if err != nil {
		writeDomainError(w, err, h.Debug)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "producto actualizado exitosamente",
		"product": p,
	})
}

func (h *ProductsHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id inválido")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Store.Delete(ctx, id); err != nil {
		writeDomainError(w, err, h.Debug)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "producto eliminado exitosamente",
	})
}
