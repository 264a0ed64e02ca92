package ports

import (
	"context"

	"github.com/monochra/storefront/internal/domains/catalog/domain"
)

// Lookup is the read surface consumed by the cart and checkout contexts.
// It deliberately exposes only what the transaction core needs: price and
// availability per product.
type Lookup interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
}
