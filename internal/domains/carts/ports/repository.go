package ports

import (
	"context"
	"errors"

	"github.com/monochra/storefront/internal/domains/carts/domain"
)

var ErrLineNotFound = errors.New("cart line not found")

// Repository persists cart lines keyed by (owner, product).
type Repository interface {
	// Upsert creates the line or overwrites its quantity and price snapshot.
	Upsert(ctx context.Context, line domain.Line) error
	Get(ctx context.Context, owner domain.Owner, productID int64) (*domain.Line, error)
	Remove(ctx context.Context, owner domain.Owner, productID int64) error
	// Clear deletes every line for the owner. Clearing an empty cart is a no-op.
	Clear(ctx context.Context, owner domain.Owner) error
	// List returns the owner's lines ordered by product id.
	List(ctx context.Context, owner domain.Owner) ([]domain.Line, error)
	// Merge folds the session owner's lines into the user owner's cart,
	// summing quantities per product, then deletes the session lines.
	// Running it again with no session lines left is a no-op.
	Merge(ctx context.Context, from, to domain.Owner) error
}
