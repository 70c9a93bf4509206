package main

import (
	"context"
	"errors"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/dmtzv/ecommerce-api/internal/config"
	"github.com/dmtzv/ecommerce-api/internal/postgres"
	"github.com/dmtzv/ecommerce-api/internal/users"
)

type seedProduct struct {
	nombre      string
	descripcion string
	precio      string
	stock       int
	imagenURL   string
}

var seedProducts = []seedProduct{
	{"Smartphone Galaxy A54", "Smartphone Samsung Galaxy A54 con 128GB de almacenamiento", "299.99", 50, "https://example.com/galaxy-a54.jpg"},
	{"Laptop HP Pavilion", "Laptop HP Pavilion 15 con procesador Intel Core i5", "599.99", 25, "https://example.com/hp-pavilion.jpg"},
	{"Auriculares Sony WH-1000XM4", "Auriculares inalámbricos con cancelación de ruido", "249.99", 30, "https://example.com/sony-headphones.jpg"},
	{"Tablet iPad Air", "iPad Air con pantalla de 10.9 pulgadas", "549.99", 20, "https://example.com/ipad-air.jpg"},
	{"Smartwatch Apple Watch Series 8", "Apple Watch Series 8 con GPS", "399.99", 15, "https://example.com/apple-watch.jpg"},
	{"Cámara Canon EOS R6", "Cámara mirrorless Canon EOS R6", "1899.99", 10, "https://example.com/canon-r6.jpg"},
	{"PlayStation 5", "Consola PlayStation 5 con lector de discos", "499.99", 8, "https://example.com/ps5.jpg"},
	{"Nintendo Switch OLED", "Nintendo Switch con pantalla OLED", "349.99", 18, "https://example.com/switch-oled.jpg"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("schema ready")

	if err := seed(ctx, db); err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Println("seed done: admin admin@ecommerce.com, sample products loaded")
}

func seed(ctx context.Context, db *pgxpool.Pool) error {
	userRepo := &users.Repo{DB: db}
	if _, err := userRepo.FindByEmail(ctx, "admin@ecommerce.com"); errors.Is(err, users.ErrNotFound) {
		if _, err := userRepo.Create(ctx, "Administrador", "admin@ecommerce.com", "admin123", users.RoleIDAdministrador); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	for _, sp := range seedProducts {
		var exists bool
		if err := db.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM products WHERE nombre = $1)`, sp.nombre,
		).Scan(&exists); err != nil {
			return err
		}
		if exists {
			continue
		}
		precio, err := decimal.NewFromString(sp.precio)
		if err != nil {
			return err
		}
		if _, err := db.Exec(ctx,
			`INSERT INTO products (nombre, descripcion, precio, stock, imagen_url)
			 VALUES ($1, $2, $3, $4, $5)`,
			sp.nombre, sp.descripcion, precio, sp.stock, sp.imagenURL,
		); err != nil {
			return err
		}
	}
	return nil
}
