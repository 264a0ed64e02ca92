package application

import (
	"context"

	catalogdomain "github.com/monochra/storefront/internal/domains/catalog/domain"
	catalogports "github.com/monochra/storefront/internal/domains/catalog/ports"
	"github.com/monochra/storefront/internal/domains/stock/domain"
	"github.com/monochra/storefront/internal/domains/stock/ports"
)

// Service orchestrates back-office stock use cases. Purchases and
// cancellations write the ledger through their own transactions; restock and
// adjustment are the only paths here that move stock.
type Service struct {
	store    ports.Store
	products catalogports.Repository
}

func NewService(store ports.Store, products catalogports.Repository) *Service {
	return &Service{store: store, products: products}
}

// Restock adds quantity to a product and records a restock entry.
func (s *Service) Restock(ctx context.Context, productID int64, quantity int, note string) (*domain.Movement, error) {
	if quantity <= 0 {
		return nil, mapError(domain.ErrWrongDirection)
	}
	movement, err := domain.NewMovement(productID, quantity, domain.ReasonRestock, nil, note)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.store.Move(ctx, movement)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// Adjust applies a signed manual correction. Negative adjustments fail when
// they would drive the on-hand quantity below zero.
func (s *Service) Adjust(ctx context.Context, productID int64, delta int, note string) (*domain.Movement, error) {
	movement, err := domain.NewMovement(productID, delta, domain.ReasonAdjustment, nil, note)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.store.Move(ctx, movement)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// History returns a product's ledger entries, oldest first.
func (s *Service) History(ctx context.Context, productID int64) ([]*domain.Movement, error) {
	return s.store.History(ctx, productID)
}

// ReplayBalance sums a product's quantity changes. Applied to the product's
// seed quantity it must equal the live stock quantity.
func (s *Service) ReplayBalance(ctx context.Context, productID int64) (int, error) {
	return s.store.ReplayBalance(ctx, productID)
}

// LowStock lists active products at or below the low-stock threshold.
func (s *Service) LowStock(ctx context.Context) ([]*catalogdomain.Product, error) {
	return s.products.ListLowStock(ctx, catalogdomain.LowStockThreshold)
}

var _ ports.Service = (*Service)(nil)
