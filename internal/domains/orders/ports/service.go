package ports

import (
	"context"

	"github.com/monochra/storefront/internal/domains/orders/domain"
)

// Service exposes order read accessors and the bounded status transition.
type Service interface {
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	GetOrderByNumber(ctx context.Context, number string) (*domain.Order, error)
	ListOrders(ctx context.Context, owner domain.Owner) ([]*domain.Order, error)
	ListAllOrders(ctx context.Context, limit, offset int) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, next domain.Status) (*domain.Order, error)
}
