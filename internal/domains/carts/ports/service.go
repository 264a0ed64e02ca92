package ports

import (
	"context"

	"github.com/monochra/storefront/internal/domains/carts/domain"
)

// Service exposes cart use cases to adapters.
type Service interface {
	AddItem(ctx context.Context, owner domain.Owner, productID int64, quantity int) (*domain.Line, error)
	UpdateQuantity(ctx context.Context, owner domain.Owner, productID int64, quantity int) error
	RemoveItem(ctx context.Context, owner domain.Owner, productID int64) error
	Clear(ctx context.Context, owner domain.Owner) error
	Snapshot(ctx context.Context, owner domain.Owner) (domain.Snapshot, error)
	Count(ctx context.Context, owner domain.Owner) (int, error)
	MergeOnLogin(ctx context.Context, sessionOwner, userOwner domain.Owner) error
}
