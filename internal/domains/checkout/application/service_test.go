package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	cartsmemory "github.com/monochra/storefront/internal/domains/carts/adapters/memory"
	cartsapp "github.com/monochra/storefront/internal/domains/carts/application"
	cartsdomain "github.com/monochra/storefront/internal/domains/carts/domain"
	catalogmemory "github.com/monochra/storefront/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/monochra/storefront/internal/domains/catalog/application"
	catalogdomain "github.com/monochra/storefront/internal/domains/catalog/domain"
	catalogports "github.com/monochra/storefront/internal/domains/catalog/ports"
	checkoutmemory "github.com/monochra/storefront/internal/domains/checkout/adapters/memory"
	checkoutworkflows "github.com/monochra/storefront/internal/domains/checkout/adapters/workflows"
	checkoutdomain "github.com/monochra/storefront/internal/domains/checkout/domain"
	"github.com/monochra/storefront/internal/domains/checkout/ports"
	ordersmemory "github.com/monochra/storefront/internal/domains/orders/adapters/memory"
	ordersdomain "github.com/monochra/storefront/internal/domains/orders/domain"
	stockmemory "github.com/monochra/storefront/internal/domains/stock/adapters/memory"
	stockdomain "github.com/monochra/storefront/internal/domains/stock/domain"
)

type fixture struct {
	svc      *Service
	carts    *cartsapp.Service
	products *catalogmemory.Repository
	orders   *ordersmemory.Repository
	ledger   *stockmemory.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	products := catalogmemory.NewRepository()
	ledger := stockmemory.NewStore(products)
	orders := ordersmemory.NewRepository(products, ledger)
	catalog := catalogapp.NewService(products)
	carts := cartsapp.NewService(cartsmemory.NewRepository(), catalog)
	committer := checkoutmemory.NewCommitter(products, orders, ledger)
	orchestrator := checkoutworkflows.NewInlineCheckoutWorkflows(committer, carts)
	svc := NewService(carts, catalog, orchestrator, checkoutdomain.DefaultPricingPolicy())
	return &fixture{svc: svc, carts: carts, products: products, orders: orders, ledger: ledger}
}

func (f *fixture) seedProduct(t *testing.T, id int64, price string, stock int) {
	t.Helper()
	amount, err := decimal.NewFromString(price)
	require.NoError(t, err)
	product, err := catalogdomain.NewProduct(id, "SKU", "Product", amount, stock)
	require.NoError(t, err)
	_, err = f.products.Save(context.Background(), product)
	require.NoError(t, err)
}

func (f *fixture) addToCart(t *testing.T, owner cartsdomain.Owner, productID int64, qty int) {
	t.Helper()
	_, err := f.carts.AddItem(context.Background(), owner, productID, qty)
	require.NoError(t, err)
}

func (f *fixture) stockOf(t *testing.T, productID int64) int {
	t.Helper()
	product, err := f.products.GetByID(context.Background(), productID)
	require.NoError(t, err)
	return product.StockQuantity
}

func TestCheckout_Success(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, 1, "10.00", 5)
	f.seedProduct(t, 2, "50.00", 5)
	owner := cartsdomain.SessionOwner("sess-1")
	f.addToCart(t, owner, 1, 2)
	f.addToCart(t, owner, 2, 1)

	order, err := f.svc.Checkout(context.Background(), owner, checkoutdomain.Request{ShippingAddress: "1 Main St"})
	require.NoError(t, err)

	require.Equal(t, ordersdomain.StatusPending, order.Status)
	require.Equal(t, "70.00", order.Subtotal.StringFixed(2))
	require.Equal(t, "10.00", order.Shipping.StringFixed(2))
	require.Equal(t, "5.60", order.Tax.StringFixed(2))
	require.Equal(t, "85.60", order.Total.StringFixed(2))
	require.Regexp(t, `^ORD-\d{8}-[0-9A-F]{6}$`, order.Number)
	require.Equal(t, "1 Main St", order.BillingAddress)
	require.Len(t, order.Items, 2)

	// Stock decremented and the cart cleared.
	require.Equal(t, 3, f.stockOf(t, 1))
	require.Equal(t, 4, f.stockOf(t, 2))
	snapshot, err := f.carts.Snapshot(context.Background(), owner)
	require.NoError(t, err)
	require.True(t, snapshot.Empty())

	// Purchase movements landed in the ledger with the order reference.
	movements, err := f.ledger.History(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	require.Equal(t, stockdomain.ReasonPurchase, movements[0].Reason)
	require.Equal(t, -2, movements[0].QuantityChange)
	require.NotNil(t, movements[0].ReferenceOrderID)
	require.Equal(t, order.ID, *movements[0].ReferenceOrderID)
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newFixture(t)
	owner := cartsdomain.SessionOwner("sess-1")

	_, err := f.svc.Checkout(context.Background(), owner, checkoutdomain.Request{ShippingAddress: "1 Main St"})
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckout_MissingShippingAddress(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, 1, "10.00", 5)
	owner := cartsdomain.SessionOwner("sess-1")
	f.addToCart(t, owner, 1, 1)

	_, err := f.svc.Checkout(context.Background(), owner, checkoutdomain.Request{})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCheckout_InsufficientStock(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, 1, "10.00", 3)
	owner := cartsdomain.SessionOwner("sess-1")
	f.addToCart(t, owner, 1, 5)

	_, err := f.svc.Checkout(context.Background(), owner, checkoutdomain.Request{ShippingAddress: "1 Main St"})

	var insufficient *catalogports.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	require.Equal(t, int64(1), insufficient.ProductID)
	require.Equal(t, 5, insufficient.Requested)
	require.Equal(t, 3, insufficient.Available)

	// Stock untouched, cart intact, no order created.
	require.Equal(t, 3, f.stockOf(t, 1))
	snapshot, err := f.carts.Snapshot(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, snapshot.Lines, 1)
	orders, err := f.orders.ListByOwner(context.Background(), ordersdomain.Owner{Kind: ordersdomain.OwnerSession, Key: "sess-1"})
	require.NoError(t, err)
	require.Empty(t, orders)
}

func TestCheckout_MixedCartLeavesEverythingUntouched(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, 1, "10.00", 10)
	f.seedProduct(t, 2, "10.00", 1)
	owner := cartsdomain.SessionOwner("sess-1")
	f.addToCart(t, owner, 1, 2)
	f.addToCart(t, owner, 2, 3)

	_, err := f.svc.Checkout(context.Background(), owner, checkoutdomain.Request{ShippingAddress: "1 Main St"})

	var insufficient *catalogports.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	require.Equal(t, int64(2), insufficient.ProductID)

	// The line that had enough stock is untouched too.
	require.Equal(t, 10, f.stockOf(t, 1))
	require.Equal(t, 1, f.stockOf(t, 2))
	history, err := f.ledger.History(context.Background(), 1)
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestCheckout_PricesFromCatalogNotSnapshot(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, 1, "10.00", 5)
	owner := cartsdomain.SessionOwner("sess-1")
	f.addToCart(t, owner, 1, 1)

	// Reprice after the line was captured; the commit re-reads the catalog.
	f.seedProduct(t, 1, "20.00", 5)

	order, err := f.svc.Checkout(context.Background(), owner, checkoutdomain.Request{ShippingAddress: "1 Main St"})
	require.NoError(t, err)
	require.Equal(t, "20.00", order.Subtotal.StringFixed(2))
	require.Equal(t, "20.00", order.Items[0].UnitPrice.StringFixed(2))
}

// collidingOrchestrator rejects the first n numbers as taken.
type collidingOrchestrator struct {
	inner      ports.WorkflowOrchestrator
	rejections int
	numbers    []string
}

func (o *collidingOrchestrator) PlaceOrder(ctx context.Context, input ports.PlaceOrderInput) (*ordersdomain.Order, error) {
	o.numbers = append(o.numbers, input.Commit.Number)
	if o.rejections > 0 {
		o.rejections--
		return nil, ports.ErrNumberTaken
	}
	return o.inner.PlaceOrder(ctx, input)
}

func TestCheckout_RetriesOnNumberCollision(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, 1, "10.00", 5)
	owner := cartsdomain.SessionOwner("sess-1")
	f.addToCart(t, owner, 1, 1)

	committer := checkoutmemory.NewCommitter(f.products, f.orders, f.ledger)
	inline := checkoutworkflows.NewInlineCheckoutWorkflows(committer, f.carts)
	colliding := &collidingOrchestrator{inner: inline, rejections: 2}
	svc := NewService(f.carts, catalogapp.NewService(f.products), colliding, checkoutdomain.DefaultPricingPolicy())

	order, err := svc.Checkout(context.Background(), owner, checkoutdomain.Request{ShippingAddress: "1 Main St"})
	require.NoError(t, err)
	require.Len(t, colliding.numbers, 3)
	require.NotEqual(t, colliding.numbers[0], order.Number)
}

func TestCheckout_GivesUpAfterRepeatedCollisions(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, 1, "10.00", 5)
	owner := cartsdomain.SessionOwner("sess-1")
	f.addToCart(t, owner, 1, 1)

	colliding := &collidingOrchestrator{rejections: 99}
	svc := NewService(f.carts, catalogapp.NewService(f.products), colliding, checkoutdomain.DefaultPricingPolicy())

	_, err := svc.Checkout(context.Background(), owner, checkoutdomain.Request{ShippingAddress: "1 Main St"})
	require.ErrorIs(t, err, ErrOrderNumberCollision)
	require.Len(t, colliding.numbers, 3)
	require.Equal(t, 5, f.stockOf(t, 1))
}

func TestQuote_PricesWithoutCommitting(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, 1, "10.00", 5)
	owner := cartsdomain.SessionOwner("sess-1")
	f.addToCart(t, owner, 1, 2)

	totals, err := f.svc.Quote(context.Background(), owner)
	require.NoError(t, err)
	require.Equal(t, "20.00", totals.Subtotal.StringFixed(2))
	require.Equal(t, "10.00", totals.Shipping.StringFixed(2))

	require.Equal(t, 5, f.stockOf(t, 1))
	snapshot, err := f.carts.Snapshot(context.Background(), owner)
	require.NoError(t, err)
	require.False(t, snapshot.Empty())
}
