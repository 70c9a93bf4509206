package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("producto no encontrado")

type Repo struct{ DB *pgxpool.Pool }

const productCols = `id, nombre, descripcion, precio, stock, imagen_url, created_at`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Nombre, &p.Descripcion, &p.Precio, &p.Stock, &p.ImagenURL, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) Create(ctx context.Context, in ProductInput) (*Product, error) {
	row := r.DB.QueryRow(ctx, `
		INSERT INTO products (nombre, descripcion, precio, stock, imagen_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+productCols,
		in.Nombre, in.Descripcion, in.Precio, in.Stock, in.ImagenURL,
	)
	p, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Product, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

// ListAvailable returns products with stock, newest first. That is the
// public catalog: sold-out products are hidden.
func (r *Repo) ListAvailable(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+productCols+`
		FROM products
		WHERE stock > 0
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Nombre, &p.Descripcion, &p.Precio, &p.Stock, &p.ImagenURL, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) Update(ctx context.Context, id int64, in ProductInput) (*Product, error) {
	row := r.DB.QueryRow(ctx, `
		UPDATE products
		SET nombre = $1, descripcion = $2, precio = $3, stock = $4, imagen_url = $5
		WHERE id = $6
		RETURNING `+productCols,
		in.Nombre, in.Descripcion, in.Precio, in.Stock, in.ImagenURL, id,
	)
	return scanProduct(row)
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
