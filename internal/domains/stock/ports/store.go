package ports

import (
	"context"
	"errors"

	"github.com/monochra/storefront/internal/domains/stock/domain"
)

var ErrNotFound = errors.New("no stock movements for product")

// Store owns the append-only movement ledger. Move is the only write: it
// shifts a product's on-hand quantity and appends the matching ledger entry
// inside one transaction. Entries are never updated or deleted.
type Store interface {
	Move(ctx context.Context, movement *domain.Movement) (*domain.Movement, error)
	History(ctx context.Context, productID int64) ([]*domain.Movement, error)
	ReplayBalance(ctx context.Context, productID int64) (int, error)
}
