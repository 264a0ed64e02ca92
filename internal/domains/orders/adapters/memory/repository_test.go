package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/monochra/storefront/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/monochra/storefront/internal/domains/catalog/domain"
	"github.com/monochra/storefront/internal/domains/orders/domain"
	"github.com/monochra/storefront/internal/domains/orders/ports"
	stockmemory "github.com/monochra/storefront/internal/domains/stock/adapters/memory"
	stockdomain "github.com/monochra/storefront/internal/domains/stock/domain"
)

func newRepoFixture(t *testing.T) (*Repository, *catalogmemory.Repository, *stockmemory.Store) {
	t.Helper()
	products := catalogmemory.NewRepository()
	ledger := stockmemory.NewStore(products)
	return NewRepository(products, ledger), products, ledger
}

func seedProduct(t *testing.T, products *catalogmemory.Repository, id int64, stock int) {
	t.Helper()
	product, err := catalogdomain.NewProduct(id, fmt.Sprintf("SKU-%d", id), "Product", decimal.NewFromInt(10), stock)
	require.NoError(t, err)
	_, err = products.Save(context.Background(), product)
	require.NoError(t, err)
}

func createOrder(t *testing.T, repo *Repository, number string, items ...domain.Item) *domain.Order {
	t.Helper()
	if len(items) == 0 {
		items = []domain.Item{{ProductID: 1, Quantity: 2, UnitPrice: decimal.NewFromInt(10)}}
	}
	order, err := domain.NewOrder(
		number,
		domain.Owner{Kind: domain.OwnerSession, Key: "sess-1"},
		items,
		decimal.NewFromInt(20), decimal.RequireFromString("1.60"), decimal.NewFromInt(10), decimal.RequireFromString("31.60"),
		"1 Main St", "1 Main St",
	)
	require.NoError(t, err)
	created, err := repo.Create(context.Background(), order)
	require.NoError(t, err)
	return created
}

func TestCreate_RejectsDuplicateNumber(t *testing.T) {
	repo, products, _ := newRepoFixture(t)
	seedProduct(t, products, 1, 10)

	createOrder(t, repo, "ORD-20260101-AAAAAA")
	order, err := domain.NewOrder(
		"ORD-20260101-AAAAAA",
		domain.Owner{Kind: domain.OwnerSession, Key: "sess-2"},
		[]domain.Item{{ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(10)}},
		decimal.NewFromInt(10), decimal.Zero, decimal.Zero, decimal.NewFromInt(10),
		"2 Side St", "2 Side St",
	)
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), order)
	require.ErrorIs(t, err, ErrDuplicateNumber)
}

func TestUpdateStatus_HappyPath(t *testing.T) {
	repo, products, _ := newRepoFixture(t)
	seedProduct(t, products, 1, 10)
	order := createOrder(t, repo, "ORD-20260101-AAAAAA")

	for _, next := range []domain.Status{domain.StatusProcessing, domain.StatusShipped, domain.StatusDelivered} {
		updated, err := repo.UpdateStatus(context.Background(), order.ID, next)
		require.NoError(t, err)
		require.Equal(t, next, updated.Status)
	}
}

func TestUpdateStatus_RejectsSkippedStep(t *testing.T) {
	repo, products, _ := newRepoFixture(t)
	seedProduct(t, products, 1, 10)
	order := createOrder(t, repo, "ORD-20260101-AAAAAA")

	_, err := repo.UpdateStatus(context.Background(), order.ID, domain.StatusDelivered)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	unchanged, err := repo.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, unchanged.Status)
}

func TestUpdateStatus_TerminalStatesAreFinal(t *testing.T) {
	repo, products, _ := newRepoFixture(t)
	seedProduct(t, products, 1, 10)
	order := createOrder(t, repo, "ORD-20260101-AAAAAA")

	_, err := repo.UpdateStatus(context.Background(), order.ID, domain.StatusCancelled)
	require.NoError(t, err)

	_, err = repo.UpdateStatus(context.Background(), order.ID, domain.StatusProcessing)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestUpdateStatus_CancelRestoresStock(t *testing.T) {
	repo, products, ledger := newRepoFixture(t)
	seedProduct(t, products, 1, 10)
	seedProduct(t, products, 2, 10)

	// Simulate the committed checkout: stock already decremented.
	require.NoError(t, products.ApplyStockChanges(map[int64]int{1: -2, 2: -1}))
	order := createOrder(t, repo, "ORD-20260101-AAAAAA",
		domain.Item{ProductID: 1, Quantity: 2, UnitPrice: decimal.NewFromInt(10)},
		domain.Item{ProductID: 2, Quantity: 1, UnitPrice: decimal.NewFromInt(10)},
	)

	updated, err := repo.UpdateStatus(context.Background(), order.ID, domain.StatusCancelled)
	require.NoError(t, err)
	require.Equal(t, domain.StatusCancelled, updated.Status)

	first, err := products.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 10, first.StockQuantity)
	second, err := products.GetByID(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, 10, second.StockQuantity)

	movements, err := ledger.History(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	require.Equal(t, stockdomain.ReasonCancel, movements[0].Reason)
	require.Equal(t, 2, movements[0].QuantityChange)
	require.NotNil(t, movements[0].ReferenceOrderID)
	require.Equal(t, order.ID, *movements[0].ReferenceOrderID)
}

func TestUpdateStatus_CancelAfterShipmentIsRejected(t *testing.T) {
	repo, products, ledger := newRepoFixture(t)
	seedProduct(t, products, 1, 10)
	require.NoError(t, products.ApplyStockChanges(map[int64]int{1: -2}))
	order := createOrder(t, repo, "ORD-20260101-AAAAAA")

	_, err := repo.UpdateStatus(context.Background(), order.ID, domain.StatusProcessing)
	require.NoError(t, err)
	_, err = repo.UpdateStatus(context.Background(), order.ID, domain.StatusShipped)
	require.NoError(t, err)

	_, err = repo.UpdateStatus(context.Background(), order.ID, domain.StatusCancelled)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	// No compensation happened.
	product, err := products.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 8, product.StockQuantity)
	movements, err := ledger.History(context.Background(), 1)
	require.NoError(t, err)
	require.Empty(t, movements)
}

func TestListByOwner_NewestFirst(t *testing.T) {
	repo, products, _ := newRepoFixture(t)
	seedProduct(t, products, 1, 10)
	first := createOrder(t, repo, "ORD-20260101-AAAAAA")
	second := createOrder(t, repo, "ORD-20260101-BBBBBB")

	orders, err := repo.ListByOwner(context.Background(), domain.Owner{Kind: domain.OwnerSession, Key: "sess-1"})
	require.NoError(t, err)
	require.Len(t, orders, 2)
	require.Equal(t, second.ID, orders[0].ID)
	require.Equal(t, first.ID, orders[1].ID)
}

func TestGetByNumber(t *testing.T) {
	repo, products, _ := newRepoFixture(t)
	seedProduct(t, products, 1, 10)
	created := createOrder(t, repo, "ORD-20260101-AAAAAA")

	found, err := repo.GetByNumber(context.Background(), "ORD-20260101-AAAAAA")
	require.NoError(t, err)
	require.Equal(t, created.ID, found.ID)

	_, err = repo.GetByNumber(context.Background(), "ORD-20260101-ZZZZZZ")
	require.ErrorIs(t, err, ports.ErrNotFound)
}
