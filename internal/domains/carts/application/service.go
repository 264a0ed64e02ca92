package application

import (
	"context"
	"errors"

	catalogports "github.com/monochra/storefront/internal/domains/catalog/ports"
	"github.com/monochra/storefront/internal/domains/carts/domain"
	"github.com/monochra/storefront/internal/domains/carts/ports"
)

// Service orchestrates cart use cases. Stock is deliberately not checked
// here: carts are long-lived and stock is volatile, so availability is only
// validated at checkout.
type Service struct {
	repo    ports.Repository
	catalog catalogports.Lookup
}

func NewService(repo ports.Repository, catalog catalogports.Lookup) *Service {
	return &Service{repo: repo, catalog: catalog}
}

// AddItem increments an existing line or creates one with the product's
// current price captured as the snapshot.
func (s *Service) AddItem(ctx context.Context, owner domain.Owner, productID int64, quantity int) (*domain.Line, error) {
	if err := owner.Validate(); err != nil {
		return nil, mapError(err)
	}
	if quantity < 1 {
		return nil, mapError(domain.ErrInvalidQuantity)
	}
	existing, err := s.repo.Get(ctx, owner, productID)
	if err != nil && !errors.Is(err, ports.ErrLineNotFound) {
		return nil, err
	}
	if existing != nil {
		existing.Quantity += quantity
		if err := s.repo.Upsert(ctx, *existing); err != nil {
			return nil, err
		}
		return existing, nil
	}
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, catalogports.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	line := domain.Line{
		Owner:             owner,
		ProductID:         productID,
		Quantity:          quantity,
		UnitPriceSnapshot: product.Price,
	}
	if err := s.repo.Upsert(ctx, line); err != nil {
		return nil, err
	}
	return &line, nil
}

// UpdateQuantity overwrites a line's quantity; zero or less removes the line.
func (s *Service) UpdateQuantity(ctx context.Context, owner domain.Owner, productID int64, quantity int) error {
	if err := owner.Validate(); err != nil {
		return mapError(err)
	}
	if quantity <= 0 {
		return s.RemoveItem(ctx, owner, productID)
	}
	line, err := s.repo.Get(ctx, owner, productID)
	if err != nil {
		return err
	}
	line.Quantity = quantity
	return s.repo.Upsert(ctx, *line)
}

// RemoveItem deletes a single line. Removing an absent line is a no-op.
func (s *Service) RemoveItem(ctx context.Context, owner domain.Owner, productID int64) error {
	if err := owner.Validate(); err != nil {
		return mapError(err)
	}
	if err := s.repo.Remove(ctx, owner, productID); err != nil && !errors.Is(err, ports.ErrLineNotFound) {
		return err
	}
	return nil
}

// Clear deletes every line for the owner. Idempotent: clearing an already
// empty cart succeeds, which lets checkout retry the clear after a crash.
func (s *Service) Clear(ctx context.Context, owner domain.Owner) error {
	if err := owner.Validate(); err != nil {
		return mapError(err)
	}
	return s.repo.Clear(ctx, owner)
}

// Snapshot returns the owner's lines plus the computed subtotal.
func (s *Service) Snapshot(ctx context.Context, owner domain.Owner) (domain.Snapshot, error) {
	if err := owner.Validate(); err != nil {
		return domain.Snapshot{}, mapError(err)
	}
	lines, err := s.repo.List(ctx, owner)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return domain.NewSnapshot(owner, lines), nil
}

// Count returns the number of lines in the owner's cart.
func (s *Service) Count(ctx context.Context, owner domain.Owner) (int, error) {
	if err := owner.Validate(); err != nil {
		return 0, mapError(err)
	}
	lines, err := s.repo.List(ctx, owner)
	if err != nil {
		return 0, err
	}
	return len(lines), nil
}

// MergeOnLogin folds an anonymous session cart into the authenticated user's
// cart. Re-running the merge after the session lines are gone is a no-op.
func (s *Service) MergeOnLogin(ctx context.Context, sessionOwner, userOwner domain.Owner) error {
	if err := sessionOwner.Validate(); err != nil {
		return mapError(err)
	}
	if err := userOwner.Validate(); err != nil {
		return mapError(err)
	}
	if sessionOwner.Kind != domain.OwnerSession || userOwner.Kind != domain.OwnerUser {
		return mapError(domain.ErrInvalidOwner)
	}
	return s.repo.Merge(ctx, sessionOwner, userOwner)
}

var _ ports.Service = (*Service)(nil)
