package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one (product, quantity) pair submitted for ordering.
type CartItem struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Cantidad  int   `json:"cantidad" validate:"required,gt=0"`
}

type Order struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Total     decimal.Decimal `json:"total"`
	Estado    Status          `json:"estado"`
	CreatedAt time.Time       `json:"created_at"`
}

// OrderItem is the persisted snapshot of one product within an order.
// PrecioUnitario is the unit price at order time; later catalog price
// changes never touch it.
type OrderItem struct {
	ID             int64           `json:"id"`
	OrderID        int64           `json:"order_id"`
	ProductID      int64           `json:"product_id"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	CreatedAt      time.Time       `json:"created_at"`
}

// DetailItem is a line item annotated with catalog data for display.
type DetailItem struct {
	OrderItem
	ProductoNombre      string `json:"producto_nombre"`
	ProductoDescripcion string `json:"producto_descripcion"`
}

type OrderDetail struct {
	Order
	UsuarioNombre string       `json:"usuario_nombre"`
	UsuarioEmail  string       `json:"usuario_email"`
	Items         []DetailItem `json:"items"`
}

// OrderSummary is the list-view shape: header plus item count, no line
// detail. Usuario fields are only populated on the admin listing.
type OrderSummary struct {
	Order
	TotalItems    int    `json:"total_items"`
	UsuarioNombre string `json:"usuario_nombre,omitempty"`
	UsuarioEmail  string `json:"usuario_email,omitempty"`
}
