package application

import (
	"context"

	"github.com/monochra/storefront/internal/domains/catalog/domain"
	"github.com/monochra/storefront/internal/domains/catalog/ports"
)

// Service exposes the catalog lookup consumed by carts and checkout.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// GetProduct loads a single product by identifier.
func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// ListProducts returns the whole catalog.
func (s *Service) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.List(ctx)
}

// SaveProduct upserts a product from the back-office.
func (s *Service) SaveProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	return s.repo.Save(ctx, product)
}

var _ ports.Lookup = (*Service)(nil)
