package orders

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart       = errors.New("el pedido debe contener al menos un producto")
	ErrInvalidQuantity = errors.New("la cantidad debe ser mayor a 0")
	ErrOrderNotFound   = errors.New("pedido no encontrado")
	ErrInvalidStatus   = errors.New("estado inválido")
)

type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("producto %d no encontrado", e.ProductID)
}

type InsufficientStockError struct {
	ProductID int64
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %d: disponible %d, solicitado %d",
		e.ProductID, e.Available, e.Requested)
}

// IsClientError reports whether err should map to a 400 at the HTTP
// boundary rather than a storage failure.
func IsClientError(err error) bool {
	var pnf *ProductNotFoundError
	var ins *InsufficientStockError
	return errors.Is(err, ErrEmptyCart) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.As(err, &pnf) ||
		errors.As(err, &ins)
}
