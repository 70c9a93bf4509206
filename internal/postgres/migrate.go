package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ddl = []string{
	`CREATE TABLE IF NOT EXISTS roles (
		id SERIAL PRIMARY KEY,
		nombre VARCHAR(50) UNIQUE NOT NULL,
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
	`INSERT INTO roles (id, nombre) VALUES
		(1, 'administrador'),
		(2, 'cliente')
	ON CONFLICT (nombre) DO NOTHING`,
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		nombre VARCHAR(100) NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role_id INTEGER REFERENCES roles(id) DEFAULT 2,
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id SERIAL PRIMARY KEY,
		nombre VARCHAR(200) NOT NULL,
		descripcion TEXT,
		precio DECIMAL(10,2) NOT NULL,
		stock INTEGER NOT NULL DEFAULT 0,
		imagen_url TEXT,
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id SERIAL PRIMARY KEY,
		user_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
		total DECIMAL(10,2) NOT NULL,
		estado VARCHAR(50) DEFAULT 'pendiente',
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id SERIAL PRIMARY KEY,
		order_id INTEGER REFERENCES orders(id) ON DELETE CASCADE,
		product_id INTEGER REFERENCES products(id),
		cantidad INTEGER NOT NULL,
		precio_unitario DECIMAL(10,2) NOT NULL,
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id)`,
	`CREATE INDEX IF NOT EXISTS idx_products_nombre ON products(nombre)`,
}

// Migrate creates the schema if it does not exist yet. Statements are
// idempotent so it is safe to run on every deploy.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range ddl {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
