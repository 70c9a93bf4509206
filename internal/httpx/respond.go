package httpx

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/dmtzv/ecommerce-api/internal/catalog"
	"github.com/dmtzv/ecommerce-api/internal/orders"
	"github.com/dmtzv/ecommerce-api/internal/users"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeDomainError maps the error taxonomy to response codes: validation and
// stock/product failures are the client's fault (400), missing resources are
// 404, anything else is a storage failure (500). Internal details only leak
// in debug mode.
func writeDomainError(w http.ResponseWriter, err error, debug bool) {
	switch {
	case orders.IsClientError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, orders.ErrOrderNotFound),
		errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, users.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		log.Printf("internal error: %v", err)
		if debug {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "error interno del servidor")
	}
}
