package ports

import (
	"context"

	cartsdomain "github.com/monochra/storefront/internal/domains/carts/domain"
	ordersdomain "github.com/monochra/storefront/internal/domains/orders/domain"
)

// PlaceOrderInput is the payload handed to the durable checkout flow: the
// commit plus the cart to clear once the order exists.
type PlaceOrderInput struct {
	Commit    CommitInput
	CartOwner cartsdomain.Owner
}

// WorkflowOrchestrator exposes the durable checkout flow: commit the order,
// then clear the source cart. The clear step is idempotent so crashed runs
// can resume safely.
type WorkflowOrchestrator interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*ordersdomain.Order, error)
}
