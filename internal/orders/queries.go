package orders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// FindByID returns the order header plus its line items annotated with
// product name and description.
func (r *Repo) FindByID(ctx context.Context, orderID int64) (*OrderDetail, error) {
	var d OrderDetail
	err := r.DB.QueryRow(ctx, `
		SELECT o.id, o.user_id, o.total, o.estado, o.created_at,
		       u.nombre, u.email
		FROM orders o
		JOIN users u ON o.user_id = u.id
		WHERE o.id = $1`,
		orderID,
	).Scan(&d.ID, &d.UserID, &d.Total, &d.Estado, &d.CreatedAt,
		&d.UsuarioNombre, &d.UsuarioEmail)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, oi.cantidad, oi.precio_unitario, oi.created_at,
		       p.nombre, p.descripcion
		FROM order_items oi
		JOIN products p ON oi.product_id = p.id
		WHERE oi.order_id = $1
		ORDER BY oi.id`,
		orderID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var it DetailItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Cantidad,
			&it.PrecioUnitario, &it.CreatedAt,
			&it.ProductoNombre, &it.ProductoDescripcion); err != nil {
			return nil, err
		}
		d.Items = append(d.Items, it)
	}
	return &d, rows.Err()
}

// FindByUser lists a user's orders newest first, with item counts only.
func (r *Repo) FindByUser(ctx context.Context, userID int64) ([]OrderSummary, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT o.id, o.user_id, o.total, o.estado, o.created_at,
		       COUNT(oi.id) AS total_items
		FROM orders o
		LEFT JOIN order_items oi ON o.id = oi.order_id
		WHERE o.user_id = $1
		GROUP BY o.id
		ORDER BY o.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSummaries(rows, false)
}

// FindAll lists every order newest first, joined with the owning user.
// Authorization is the caller's concern.
func (r *Repo) FindAll(ctx context.Context) ([]OrderSummary, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT o.id, o.user_id, o.total, o.estado, o.created_at,
		       COUNT(oi.id) AS total_items,
		       u.nombre, u.email
		FROM orders o
		JOIN users u ON o.user_id = u.id
		LEFT JOIN order_items oi ON o.id = oi.order_id
		GROUP BY o.id, u.nombre, u.email
		ORDER BY o.created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSummaries(rows, true)
}

func scanSummaries(rows pgx.Rows, withUser bool) ([]OrderSummary, error) {
	var out []OrderSummary
	for rows.Next() {
		var s OrderSummary
		dest := []any{&s.ID, &s.UserID, &s.Total, &s.Estado, &s.CreatedAt, &s.TotalItems}
		if withUser {
			dest = append(dest, &s.UsuarioNombre, &s.UsuarioEmail)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpdateStatus sets estado to any member of the enumeration. There is no
// transition graph: entregado back to pendiente is accepted.
func (r *Repo) UpdateStatus(ctx context.Context, orderID int64, estado Status) (*Order, error) {
	if !estado.Valid() {
		return nil, ErrInvalidStatus
	}
	var o Order
	err := r.DB.QueryRow(ctx, `
		UPDATE orders SET estado = $1
		WHERE id = $2
		RETURNING id, user_id, total, estado, created_at`,
		estado, orderID,
	).Scan(&o.ID, &o.UserID, &o.Total, &o.Estado, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}
