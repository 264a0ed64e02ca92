package ports

import (
	"context"

	cartsdomain "github.com/monochra/storefront/internal/domains/carts/domain"
	checkoutdomain "github.com/monochra/storefront/internal/domains/checkout/domain"
	ordersdomain "github.com/monochra/storefront/internal/domains/orders/domain"
)

// Service converts a cart into a confirmed order.
type Service interface {
	// Checkout prices the owner's cart, commits stock and order atomically,
	// and clears the cart. Returns the confirmed order in pending status.
	Checkout(ctx context.Context, owner cartsdomain.Owner, req checkoutdomain.Request) (*ordersdomain.Order, error)
	// Quote prices the owner's current cart without committing anything.
	Quote(ctx context.Context, owner cartsdomain.Owner) (*checkoutdomain.Totals, error)
}
