package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64           `json:"id"`
	Nombre      string          `json:"nombre"`
	Descripcion string          `json:"descripcion"`
	Precio      decimal.Decimal `json:"precio"`
	Stock       int             `json:"stock"`
	ImagenURL   *string         `json:"imagen_url"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ProductInput carries the writable fields for create/update.
type ProductInput struct {
	Nombre      string          `json:"nombre" validate:"required,min=2"`
	Descripcion string          `json:"descripcion" validate:"required,min=10"`
	Precio      decimal.Decimal `json:"precio" validate:"required"`
	Stock       int             `json:"stock" validate:"gte=0"`
	ImagenURL   *string         `json:"imagen_url" validate:"omitempty,url"`
}
