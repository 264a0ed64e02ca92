package application

import (
	"context"

	"github.com/monochra/storefront/internal/domains/orders/domain"
	"github.com/monochra/storefront/internal/domains/orders/ports"
)

// Service orchestrates order read and status use cases. Order creation is
// owned by the checkout commit, never by this service.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// GetOrder loads a single order with its items.
func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// GetOrderByNumber loads an order by its human-readable number.
func (s *Service) GetOrderByNumber(ctx context.Context, number string) (*domain.Order, error) {
	return s.repo.GetByNumber(ctx, number)
}

// ListOrders returns the owner's orders, newest first.
func (s *Service) ListOrders(ctx context.Context, owner domain.Owner) ([]*domain.Order, error) {
	if err := owner.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.repo.ListByOwner(ctx, owner)
}

// ListAllOrders pages through every order for the back-office.
func (s *Service) ListAllOrders(ctx context.Context, limit, offset int) ([]*domain.Order, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListAll(ctx, limit, offset)
}

// UpdateStatus applies one step of the status machine. Transitions to
// cancelled restore stock and write compensating ledger entries inside the
// repository's transaction.
func (s *Service) UpdateStatus(ctx context.Context, id int64, next domain.Status) (*domain.Order, error) {
	order, err := s.repo.UpdateStatus(ctx, id, next)
	if err != nil {
		return nil, mapError(err)
	}
	return order, nil
}

var _ ports.Service = (*Service)(nil)
