package application

import (
	"context"
	"errors"
	"time"

	cartsdomain "github.com/monochra/storefront/internal/domains/carts/domain"
	cartsports "github.com/monochra/storefront/internal/domains/carts/ports"
	catalogports "github.com/monochra/storefront/internal/domains/catalog/ports"
	checkoutdomain "github.com/monochra/storefront/internal/domains/checkout/domain"
	"github.com/monochra/storefront/internal/domains/checkout/ports"
	ordersdomain "github.com/monochra/storefront/internal/domains/orders/domain"
)

var _ ports.Service = (*Service)(nil)

// numberAttempts bounds retries against the unique order number constraint.
const numberAttempts = 3

// Service turns carts into orders. The actual stock decrement and order
// insert happen inside the orchestrated commit; this layer prices the cart,
// rejects obviously doomed checkouts early, and drives number retries.
type Service struct {
	carts        cartsports.Service
	catalog      catalogports.Lookup
	orchestrator ports.WorkflowOrchestrator
	policy       checkoutdomain.PricingPolicy
	now          func() time.Time
}

// NewService wires the checkout engine.
func NewService(carts cartsports.Service, catalog catalogports.Lookup, orchestrator ports.WorkflowOrchestrator, policy checkoutdomain.PricingPolicy) *Service {
	return &Service{
		carts:        carts,
		catalog:      catalog,
		orchestrator: orchestrator,
		policy:       policy,
		now:          time.Now,
	}
}

// Checkout prices the owner's cart, commits it atomically, and clears the
// cart. The pre-flight stock read is advisory only; the commit's conditional
// decrement is what actually prevents overselling.
func (s *Service) Checkout(ctx context.Context, owner cartsdomain.Owner, req checkoutdomain.Request) (*ordersdomain.Order, error) {
	if err := req.Normalize(); err != nil {
		return nil, mapError(err)
	}
	snapshot, err := s.carts.Snapshot(ctx, owner)
	if err != nil {
		return nil, err
	}
	if snapshot.Empty() {
		return nil, ErrEmptyCart
	}
	lines := make([]ports.CommitLine, 0, len(snapshot.Lines))
	for _, line := range snapshot.Lines {
		product, err := s.catalog.GetProduct(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if product.StockQuantity < line.Quantity {
			return nil, &catalogports.InsufficientStockError{
				ProductID: line.ProductID,
				Requested: line.Quantity,
				Available: product.StockQuantity,
			}
		}
		lines = append(lines, ports.CommitLine{ProductID: line.ProductID, Quantity: line.Quantity})
	}

	input := ports.PlaceOrderInput{
		Commit: ports.CommitInput{
			Owner:           ordersdomain.Owner{Kind: ordersdomain.OwnerKind(owner.Kind), Key: owner.Key},
			Lines:           lines,
			ShippingAddress: req.ShippingAddress,
			BillingAddress:  req.BillingAddress,
			Policy:          s.policy,
		},
		CartOwner: owner,
	}
	for attempt := 0; attempt < numberAttempts; attempt++ {
		number, err := checkoutdomain.NewOrderNumber(s.now())
		if err != nil {
			return nil, err
		}
		input.Commit.Number = number
		order, err := s.orchestrator.PlaceOrder(ctx, input)
		if errors.Is(err, ports.ErrNumberTaken) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return order, nil
	}
	return nil, ErrOrderNumberCollision
}

// Quote prices the owner's current cart without touching stock or orders.
func (s *Service) Quote(ctx context.Context, owner cartsdomain.Owner) (*checkoutdomain.Totals, error) {
	snapshot, err := s.carts.Snapshot(ctx, owner)
	if err != nil {
		return nil, err
	}
	if snapshot.Empty() {
		return nil, ErrEmptyCart
	}
	totals := s.policy.Price(snapshot.Subtotal)
	return &totals, nil
}
