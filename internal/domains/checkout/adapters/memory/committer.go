package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	catalogmemory "github.com/monochra/storefront/internal/domains/catalog/adapters/memory"
	"github.com/monochra/storefront/internal/domains/checkout/ports"
	ordersmemory "github.com/monochra/storefront/internal/domains/orders/adapters/memory"
	ordersdomain "github.com/monochra/storefront/internal/domains/orders/domain"
	stockmemory "github.com/monochra/storefront/internal/domains/stock/adapters/memory"
	stockdomain "github.com/monochra/storefront/internal/domains/stock/domain"
)

var _ ports.Committer = (*Committer)(nil)

// Committer finalizes checkouts against the in-memory stores. All stores
// must share the same catalog repository instance so stock changes are
// visible across contexts.
type Committer struct {
	mu       sync.Mutex
	products *catalogmemory.Repository
	orders   *ordersmemory.Repository
	ledger   *stockmemory.Store
}

// NewCommitter wires the shared in-memory stores into a committer.
func NewCommitter(products *catalogmemory.Repository, orders *ordersmemory.Repository, ledger *stockmemory.Store) *Committer {
	return &Committer{products: products, orders: orders, ledger: ledger}
}

// Commit decrements stock, creates the order, and appends purchase movements
// as one all-or-nothing step. The committer mutex serializes commits so two
// concurrent checkouts cannot both pass the stock check.
func (c *Committer) Commit(ctx context.Context, input ports.CommitInput) (*ordersdomain.Order, error) {
	if c == nil || c.products == nil || c.orders == nil || c.ledger == nil {
		return nil, errors.New("memory committer not configured")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]int64, 0, len(input.Lines))
	for _, line := range input.Lines {
		ids = append(ids, line.ProductID)
	}
	products, err := c.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	priceByID := make(map[int64]decimal.Decimal, len(products))
	for _, product := range products {
		priceByID[product.ID] = product.Price
	}

	subtotal := decimal.Zero
	items := make([]ordersdomain.Item, 0, len(input.Lines))
	changes := make(map[int64]int, len(input.Lines))
	for _, line := range input.Lines {
		price := priceByID[line.ProductID]
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		items = append(items, ordersdomain.Item{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: price,
		})
		changes[line.ProductID] -= line.Quantity
	}
	totals := input.Policy.Price(subtotal)

	if err := c.products.ApplyStockChanges(changes); err != nil {
		return nil, err
	}

	order, err := ordersdomain.NewOrder(input.Number, input.Owner, items, totals.Subtotal, totals.Tax, totals.Shipping, totals.Total, input.ShippingAddress, input.BillingAddress)
	if err != nil {
		c.revert(changes)
		return nil, err
	}
	created, err := c.orders.Create(ctx, order)
	if err != nil {
		c.revert(changes)
		if errors.Is(err, ordersmemory.ErrDuplicateNumber) {
			return nil, ports.ErrNumberTaken
		}
		return nil, err
	}

	for _, item := range created.Items {
		refID := created.ID
		movement := &stockdomain.Movement{
			ProductID:        item.ProductID,
			QuantityChange:   -item.Quantity,
			Reason:           stockdomain.ReasonPurchase,
			ReferenceOrderID: &refID,
			Note:             fmt.Sprintf("order %s", created.Number),
		}
		if _, err := c.ledger.Append(movement); err != nil {
			return nil, err
		}
	}
	return created, nil
}

func (c *Committer) revert(changes map[int64]int) {
	inverse := make(map[int64]int, len(changes))
	for id, delta := range changes {
		inverse[id] = -delta
	}
	_ = c.products.ApplyStockChanges(inverse)
}
