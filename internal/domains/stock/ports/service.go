package ports

import (
	"context"

	catalogdomain "github.com/monochra/storefront/internal/domains/catalog/domain"
	"github.com/monochra/storefront/internal/domains/stock/domain"
)

// Service exposes back-office stock operations to adapters.
type Service interface {
	Restock(ctx context.Context, productID int64, quantity int, note string) (*domain.Movement, error)
	Adjust(ctx context.Context, productID int64, delta int, note string) (*domain.Movement, error)
	History(ctx context.Context, productID int64) ([]*domain.Movement, error)
	ReplayBalance(ctx context.Context, productID int64) (int, error)
	LowStock(ctx context.Context) ([]*catalogdomain.Product, error)
}
