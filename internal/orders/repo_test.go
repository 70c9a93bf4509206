package orders_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmtzv/ecommerce-api/internal/orders"
	"github.com/dmtzv/ecommerce-api/internal/postgres"
	"github.com/dmtzv/ecommerce-api/internal/users"
)

// These tests need a real database because the correctness mechanism under
// test is row-level locking. Set TEST_POSTGRES_DSN to run them.
func getTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	db, err := postgres.Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, postgres.Migrate(ctx, db))
	_, err = db.Exec(ctx, `TRUNCATE order_items, orders, products, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return db
}

func seedUser(t *testing.T, db *pgxpool.Pool) int64 {
	t.Helper()
	u, err := (&users.Repo{DB: db}).Create(context.Background(),
		"Cliente Prueba", "cliente@test.com", "secret123", users.RoleIDCliente)
	require.NoError(t, err)
	return u.ID
}

func seedProduct(t *testing.T, db *pgxpool.Pool, precio string, stock int) int64 {
	t.Helper()
	var id int64
	err := db.QueryRow(context.Background(), `
		INSERT INTO products (nombre, descripcion, precio, stock)
		VALUES ('Producto', 'Producto de prueba para pedidos', $1, $2)
		RETURNING id`,
		decimal.RequireFromString(precio), stock,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func productStock(t *testing.T, db *pgxpool.Pool, id int64) int {
	t.Helper()
	var stock int
	require.NoError(t, db.QueryRow(context.Background(),
		`SELECT stock FROM products WHERE id = $1`, id).Scan(&stock))
	return stock
}

func countRows(t *testing.T, db *pgxpool.Pool, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

func TestCreateOrderTx(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	userID := seedUser(t, db)
	productID := seedProduct(t, db, "10.00", 5)
	repo := &orders.Repo{DB: db}

	o, err := repo.CreateOrderTx(ctx, userID, []orders.CartItem{
		{ProductID: productID, Cantidad: 2},
	})
	require.NoError(t, err)

	assert.Equal(t, "20.00", o.Total.StringFixed(2))
	assert.Equal(t, orders.StatusPendiente, o.Estado)
	assert.Equal(t, 3, productStock(t, db, productID))

	var precio decimal.Decimal
	var cantidad int
	require.NoError(t, db.QueryRow(ctx,
		`SELECT precio_unitario, cantidad FROM order_items WHERE order_id = $1`, o.ID,
	).Scan(&precio, &cantidad))
	assert.Equal(t, "10.00", precio.StringFixed(2))
	assert.Equal(t, 2, cantidad)
}

func TestCreateOrderTxMultiItemTotal(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	userID := seedUser(t, db)
	p1 := seedProduct(t, db, "10.00", 5)
	p2 := seedProduct(t, db, "2.50", 10)
	repo := &orders.Repo{DB: db}

	o, err := repo.CreateOrderTx(ctx, userID, []orders.CartItem{
		{ProductID: p1, Cantidad: 1},
		{ProductID: p2, Cantidad: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, "20.00", o.Total.StringFixed(2))
	assert.Equal(t, 4, productStock(t, db, p1))
	assert.Equal(t, 6, productStock(t, db, p2))
}

func TestCreateOrderTxInsufficientStock(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	userID := seedUser(t, db)
	productID := seedProduct(t, db, "10.00", 5)
	repo := &orders.Repo{DB: db}

	_, err := repo.CreateOrderTx(ctx, userID, []orders.CartItem{
		{ProductID: productID, Cantidad: 6},
	})
	var ins *orders.InsufficientStockError
	require.ErrorAs(t, err, &ins)
	assert.Equal(t, 5, ins.Available)
	assert.Equal(t, 6, ins.Requested)

	// full rollback: nothing persisted, stock untouched
	assert.Equal(t, 0, countRows(t, db, "orders"))
	assert.Equal(t, 0, countRows(t, db, "order_items"))
	assert.Equal(t, 5, productStock(t, db, productID))
}

// A cart may list the same product on several lines. The second line must
// check against what the earlier lines already claimed, or the combined
// decrement drives stock negative.
func TestCreateOrderTxDuplicateProductLines(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	userID := seedUser(t, db)
	productID := seedProduct(t, db, "10.00", 5)
	repo := &orders.Repo{DB: db}

	_, err := repo.CreateOrderTx(ctx, userID, []orders.CartItem{
		{ProductID: productID, Cantidad: 3},
		{ProductID: productID, Cantidad: 3},
	})
	var ins *orders.InsufficientStockError
	require.ErrorAs(t, err, &ins)
	assert.Equal(t, 2, ins.Available)
	assert.Equal(t, 3, ins.Requested)

	assert.Equal(t, 0, countRows(t, db, "orders"))
	assert.Equal(t, 0, countRows(t, db, "order_items"))
	assert.Equal(t, 5, productStock(t, db, productID))

	// within stock, duplicate lines are two order_items rows
	o, err := repo.CreateOrderTx(ctx, userID, []orders.CartItem{
		{ProductID: productID, Cantidad: 2},
		{ProductID: productID, Cantidad: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, "40.00", o.Total.StringFixed(2))
	assert.Equal(t, 1, productStock(t, db, productID))
	assert.Equal(t, 2, countRows(t, db, "order_items"))
}

func TestCreateOrderTxProductNotFound(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	userID := seedUser(t, db)
	productID := seedProduct(t, db, "10.00", 5)
	repo := &orders.Repo{DB: db}

	// a valid first item must not survive the failure of the second
	_, err := repo.CreateOrderTx(ctx, userID, []orders.CartItem{
		{ProductID: productID, Cantidad: 1},
		{ProductID: 99999, Cantidad: 1},
	})
	var pnf *orders.ProductNotFoundError
	require.ErrorAs(t, err, &pnf)
	assert.Equal(t, int64(99999), pnf.ProductID)

	assert.Equal(t, 0, countRows(t, db, "orders"))
	assert.Equal(t, 0, countRows(t, db, "order_items"))
	assert.Equal(t, 5, productStock(t, db, productID))
}

func TestCreateOrderTxValidation(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	userID := seedUser(t, db)
	productID := seedProduct(t, db, "10.00", 5)
	repo := &orders.Repo{DB: db}

	_, err := repo.CreateOrderTx(ctx, userID, nil)
	assert.ErrorIs(t, err, orders.ErrEmptyCart)

	_, err = repo.CreateOrderTx(ctx, userID, []orders.CartItem{
		{ProductID: productID, Cantidad: 0},
	})
	assert.ErrorIs(t, err, orders.ErrInvalidQuantity)

	_, err = repo.CreateOrderTx(ctx, userID, []orders.CartItem{
		{ProductID: productID, Cantidad: -3},
	})
	assert.ErrorIs(t, err, orders.ErrInvalidQuantity)
}

// Two concurrent orders that together exceed stock: exactly one commits.
// The row lock taken by the coordinator is the only serialization point.
func TestCreateOrderTxConcurrentStock(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	userID := seedUser(t, db)
	productID := seedProduct(t, db, "10.00", 5)
	repo := &orders.Repo{DB: db}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.CreateOrderTx(ctx, userID, []orders.CartItem{
				{ProductID: productID, Cantidad: 3},
			})
		}(i)
	}
	wg.Wait()

	var okCount, insCount int
	for _, err := range errs {
		if err == nil {
			okCount++
			continue
		}
		var ins *orders.InsufficientStockError
		if errors.As(err, &ins) {
			insCount++
		}
	}
	assert.Equal(t, 1, okCount, "exactly one order must succeed")
	assert.Equal(t, 1, insCount, "the loser must fail on stock, got %v", errs)
	assert.Equal(t, 2, productStock(t, db, productID))
	assert.Equal(t, 1, countRows(t, db, "orders"))
}

func TestFindByIDPriceSnapshot(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	userID := seedUser(t, db)
	productID := seedProduct(t, db, "10.00", 5)
	repo := &orders.Repo{DB: db}

	o, err := repo.CreateOrderTx(ctx, userID, []orders.CartItem{
		{ProductID: productID, Cantidad: 2},
	})
	require.NoError(t, err)

	// raise the catalog price after the order was placed
	_, err = db.Exec(ctx, `UPDATE products SET precio = 99.99 WHERE id = $1`, productID)
	require.NoError(t, err)

	d, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, d.Items, 1)
	assert.Equal(t, "10.00", d.Items[0].PrecioUnitario.StringFixed(2))
	assert.Equal(t, "20.00", d.Total.StringFixed(2))
	assert.Equal(t, "Producto", d.Items[0].ProductoNombre)
	assert.Equal(t, "Cliente Prueba", d.UsuarioNombre)
}

func TestFindByIDNotFound(t *testing.T) {
	db := getTestDB(t)
	repo := &orders.Repo{DB: db}
	_, err := repo.FindByID(context.Background(), 12345)
	assert.ErrorIs(t, err, orders.ErrOrderNotFound)
}

func TestFindByUserSummaries(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	userID := seedUser(t, db)
	p1 := seedProduct(t, db, "10.00", 50)
	p2 := seedProduct(t, db, "5.00", 50)
	repo := &orders.Repo{DB: db}

	first, err := repo.CreateOrderTx(ctx, userID, []orders.CartItem{{ProductID: p1, Cantidad: 1}})
	require.NoError(t, err)
	second, err := repo.CreateOrderTx(ctx, userID, []orders.CartItem{
		{ProductID: p1, Cantidad: 1},
		{ProductID: p2, Cantidad: 2},
	})
	require.NoError(t, err)

	list, err := repo.FindByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// newest first
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, 2, list[0].TotalItems)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Equal(t, 1, list[1].TotalItems)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Cliente Prueba", all[0].UsuarioNombre)
	assert.Equal(t, "cliente@test.com", all[0].UsuarioEmail)
}

func TestUpdateStatus(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	userID := seedUser(t, db)
	productID := seedProduct(t, db, "10.00", 5)
	repo := &orders.Repo{DB: db}

	o, err := repo.CreateOrderTx(ctx, userID, []orders.CartItem{{ProductID: productID, Cantidad: 1}})
	require.NoError(t, err)

	updated, err := repo.UpdateStatus(ctx, o.ID, orders.StatusEnviado)
	require.NoError(t, err)
	assert.Equal(t, orders.StatusEnviado, updated.Estado)

	// deliberately permissive: entregado back to pendiente is accepted,
	// there is no transition graph
	_, err = repo.UpdateStatus(ctx, o.ID, orders.StatusEntregado)
	require.NoError(t, err)
	back, err := repo.UpdateStatus(ctx, o.ID, orders.StatusPendiente)
	require.NoError(t, err)
	assert.Equal(t, orders.StatusPendiente, back.Estado)

	_, err = repo.UpdateStatus(ctx, o.ID, orders.Status("enviado_ya"))
	assert.ErrorIs(t, err, orders.ErrInvalidStatus)

	_, err = repo.UpdateStatus(ctx, 99999, orders.StatusEnviado)
	assert.ErrorIs(t, err, orders.ErrOrderNotFound)
}
