//go:build integration
// +build integration

// To enable gopls support for this file, add the following to your VSCode settings.json:
// "gopls": {
//   "buildFlags": ["-tags=integration"]
// }

package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	catalogpostgres "github.com/monochra/storefront/internal/domains/catalog/adapters/persistence/postgres"
	catalogdomain "github.com/monochra/storefront/internal/domains/catalog/domain"
	catalogports "github.com/monochra/storefront/internal/domains/catalog/ports"
	checkoutpostgres "github.com/monochra/storefront/internal/domains/checkout/adapters/persistence/postgres"
	checkoutdomain "github.com/monochra/storefront/internal/domains/checkout/domain"
	"github.com/monochra/storefront/internal/domains/checkout/ports"
	ordersdomain "github.com/monochra/storefront/internal/domains/orders/domain"
	"github.com/monochra/storefront/internal/platform/migrations"
)

func setupPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("storefront_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	// Run migrations
	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func seedProduct(t *testing.T, db *gorm.DB, id int64, price decimal.Decimal, stock int) {
	t.Helper()
	product, err := catalogdomain.NewProduct(id, fmt.Sprintf("SKU-%d", id), "Product", price, stock)
	require.NoError(t, err)
	_, err = catalogpostgres.NewRepository(db).Save(context.Background(), product)
	require.NoError(t, err)
}

func commitInput(number string, lines ...ports.CommitLine) ports.CommitInput {
	return ports.CommitInput{
		Owner:           ordersdomain.Owner{Kind: ordersdomain.OwnerSession, Key: "sess-1"},
		Number:          number,
		Lines:           lines,
		ShippingAddress: "1 Main St",
		BillingAddress:  "1 Main St",
		Policy:          checkoutdomain.DefaultPricingPolicy(),
	}
}

func stockOf(t *testing.T, db *gorm.DB, productID int64) int {
	t.Helper()
	var stock int
	require.NoError(t, db.Table("products").Select("stock_quantity").Where("id = ?", productID).Scan(&stock).Error)
	return stock
}

func TestCommitter_Commit(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	seedProduct(t, db, 1, decimal.RequireFromString("35.00"), 5)
	committer := checkoutpostgres.NewCommitter(db)
	ctx := context.Background()

	order, err := committer.Commit(ctx, commitInput("ORD-20260101-AAAAAA", ports.CommitLine{ProductID: 1, Quantity: 2}))
	require.NoError(t, err)
	assert.Equal(t, "ORD-20260101-AAAAAA", order.Number)
	assert.Equal(t, ordersdomain.StatusPending, order.Status)
	assert.True(t, order.Subtotal.Equal(decimal.RequireFromString("70.00")), order.Subtotal.String())
	assert.True(t, order.Tax.Equal(decimal.RequireFromString("5.60")), order.Tax.String())
	assert.True(t, order.Shipping.Equal(decimal.RequireFromString("10.00")), order.Shipping.String())
	assert.True(t, order.Total.Equal(decimal.RequireFromString("85.60")), order.Total.String())
	require.Len(t, order.Items, 1)
	assert.True(t, order.Items[0].UnitPrice.Equal(decimal.RequireFromString("35.00")), order.Items[0].UnitPrice.String())

	assert.Equal(t, 3, stockOf(t, db, 1))

	var movements int64
	require.NoError(t, db.Table("stock_movements").
		Where("product_id = ? AND reason = ? AND reference_order_id = ?", 1, "purchase", order.ID).
		Count(&movements).Error)
	assert.EqualValues(t, 1, movements)
}

func TestCommitter_OversellRollsBackEverything(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	seedProduct(t, db, 1, decimal.NewFromInt(10), 10)
	seedProduct(t, db, 2, decimal.NewFromInt(10), 1)
	committer := checkoutpostgres.NewCommitter(db)
	ctx := context.Background()

	_, err := committer.Commit(ctx, commitInput("ORD-20260101-AAAAAA",
		ports.CommitLine{ProductID: 1, Quantity: 2},
		ports.CommitLine{ProductID: 2, Quantity: 3},
	))
	var insufficient *catalogports.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.EqualValues(t, 2, insufficient.ProductID)
	assert.Equal(t, 3, insufficient.Requested)
	assert.Equal(t, 1, insufficient.Available)

	// The first line's decrement must roll back with the transaction.
	assert.Equal(t, 10, stockOf(t, db, 1))
	assert.Equal(t, 1, stockOf(t, db, 2))

	var orders int64
	require.NoError(t, db.Table("orders").Count(&orders).Error)
	assert.Zero(t, orders)
	var movements int64
	require.NoError(t, db.Table("stock_movements").Count(&movements).Error)
	assert.Zero(t, movements)
}

func TestCommitter_DuplicateNumber(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	seedProduct(t, db, 1, decimal.NewFromInt(10), 10)
	committer := checkoutpostgres.NewCommitter(db)
	ctx := context.Background()

	_, err := committer.Commit(ctx, commitInput("ORD-20260101-AAAAAA", ports.CommitLine{ProductID: 1, Quantity: 1}))
	require.NoError(t, err)

	_, err = committer.Commit(ctx, commitInput("ORD-20260101-AAAAAA", ports.CommitLine{ProductID: 1, Quantity: 1}))
	require.ErrorIs(t, err, ports.ErrNumberTaken)

	// The colliding attempt's decrement rolled back.
	assert.Equal(t, 9, stockOf(t, db, 1))
}

func TestCommitter_UnknownProduct(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	committer := checkoutpostgres.NewCommitter(db)
	_, err := committer.Commit(context.Background(), commitInput("ORD-20260101-AAAAAA", ports.CommitLine{ProductID: 99, Quantity: 1}))
	require.ErrorIs(t, err, catalogports.ErrNotFound)
}
