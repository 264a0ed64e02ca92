package ports

import (
	"context"
	"errors"

	"github.com/monochra/storefront/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// Repository persists finalized orders. Orders and their items are written
// once by the checkout commit; the only mutation afterwards is UpdateStatus.
// A transition to cancelled must, in the same transaction, restore each
// item's stock and append a compensating cancel movement to the ledger.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	GetByNumber(ctx context.Context, number string) (*domain.Order, error)
	ListByOwner(ctx context.Context, owner domain.Owner) ([]*domain.Order, error)
	ListAll(ctx context.Context, limit, offset int) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, next domain.Status) (*domain.Order, error)
}
