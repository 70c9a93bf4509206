package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmtzv/ecommerce-api/internal/users"
)

func NewRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// Handlers groups the route handlers plus the auth middleware and mounts
// them on a router.
type Handlers struct {
	Auth     *AuthHandler
	Products *ProductsHandler
	Orders   *OrdersHandler
	Users    *UsersHandler
	Authn    func(http.Handler) http.Handler
}

func (h *Handlers) Register(r *chi.Mux) {
	admin := RequireRole(users.RoleAdministrador)
	cliente := RequireRole(users.RoleCliente)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Auth.register)
		r.Post("/login", h.Auth.login)
		r.With(h.Authn).Get("/profile", h.Auth.profile)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.Products.list)
		r.Get("/{id}", h.Products.get)
		r.With(h.Authn, admin).Post("/", h.Products.create)
		r.With(h.Authn, admin).Put("/{id}", h.Products.update)
		r.With(h.Authn, admin).Delete("/{id}", h.Products.delete)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Use(h.Authn)
		r.Get("/", h.Orders.listOrders)
		r.Get("/{id}", h.Orders.getOrder)
		r.With(cliente).Post("/", h.Orders.createOrder)
		r.With(admin).Put("/{id}/status", h.Orders.updateStatus)
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(h.Authn, admin)
		r.Get("/", h.Users.list)
		r.Put("/{id}/role", h.Users.updateRole)
	})
}
