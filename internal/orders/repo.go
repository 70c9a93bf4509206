package orders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repo struct{ DB *pgxpool.Pool }

// CreateOrderTx runs the whole order creation as one transaction: lock each
// product row, check stock, capture the unit price, insert the header and
// line items, decrement stock, commit. Any failure rolls everything back and
// nothing is visible to readers.
//
// The FOR UPDATE lock on the product row is what serializes concurrent
// orders against the same product; two carts that together exceed stock
// cannot both commit.
func (r *Repo) CreateOrderTx(ctx context.Context, userID int64, items []CartItem) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	for _, it := range items {
		if it.Cantidad <= 0 {
			return nil, ErrInvalidQuantity
		}
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// lock + price snapshot per item, total from live prices. claimed tracks
	// quantities taken by earlier lines so a cart listing the same product
	// twice checks against the remaining stock, not the row's original value.
	prices := make(map[int64]decimal.Decimal, len(items))
	claimed := make(map[int64]int, len(items))
	total := decimal.Zero
	for _, it := range items {
		var precio decimal.Decimal
		var stock int
		err := tx.QueryRow(ctx,
			`SELECT precio, stock FROM products WHERE id = $1 FOR UPDATE`,
			it.ProductID,
		).Scan(&precio, &stock)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ProductNotFoundError{ProductID: it.ProductID}
		}
		if err != nil {
			return nil, err
		}
		remaining := stock - claimed[it.ProductID]
		if remaining < it.Cantidad {
			return nil, &InsufficientStockError{
				ProductID: it.ProductID,
				Available: remaining,
				Requested: it.Cantidad,
			}
		}
		claimed[it.ProductID] += it.Cantidad
		prices[it.ProductID] = precio
		total = total.Add(precio.Mul(decimal.NewFromInt(int64(it.Cantidad))))
	}

	o := Order{UserID: userID, Total: total, Estado: StatusPendiente}
	err = tx.QueryRow(ctx,
		`INSERT INTO orders (user_id, total, estado)
		 VALUES ($1, $2, 'pendiente')
		 RETURNING id, created_at`,
		userID, total,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return nil, err
	}

	for _, it := range items {
		if _, err := tx.Exec(ctx,
			`INSERT INTO order_items (order_id, product_id, cantidad, precio_unitario)
			 VALUES ($1, $2, $3, $4)`,
			o.ID, it.ProductID, it.Cantidad, prices[it.ProductID],
		); err != nil {
			return nil, err
		}
		if _, err := tx.Exec(ctx,
			`UPDATE products SET stock = stock - $2 WHERE id = $1`,
			it.ProductID, it.Cantidad,
		); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &o, nil
}
