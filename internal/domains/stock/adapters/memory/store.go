package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	catalogmemory "github.com/monochra/storefront/internal/domains/catalog/adapters/memory"
	"github.com/monochra/storefront/internal/domains/stock/domain"
	"github.com/monochra/storefront/internal/domains/stock/ports"
)

var _ ports.Store = (*Store)(nil)

// Store is an in-memory ledger backed by the shared in-memory product
// repository, so quantity changes and ledger appends stay consistent.
type Store struct {
	mu        sync.RWMutex
	products  *catalogmemory.Repository
	movements []*domain.Movement
	nextID    int64
}

func NewStore(products *catalogmemory.Repository) *Store {
	return &Store{products: products}
}

func (s *Store) Move(_ context.Context, movement *domain.Movement) (*domain.Movement, error) {
	if movement == nil {
		return nil, errors.New("movement is nil")
	}
	if err := movement.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.products.ApplyStockChanges(map[int64]int{movement.ProductID: movement.QuantityChange}); err != nil {
		return nil, err
	}
	clone := *movement
	s.nextID++
	clone.ID = s.nextID
	clone.CreatedAt = time.Now()
	s.movements = append(s.movements, &clone)
	out := clone
	return &out, nil
}

func (s *Store) History(_ context.Context, productID int64) ([]*domain.Movement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var list []*domain.Movement
	for _, movement := range s.movements {
		if movement.ProductID == productID {
			clone := *movement
			list = append(list, &clone)
		}
	}
	return list, nil
}

func (s *Store) ReplayBalance(_ context.Context, productID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	balance := 0
	for _, movement := range s.movements {
		if movement.ProductID == productID {
			balance += movement.QuantityChange
		}
	}
	return balance, nil
}

// Append records an entry without touching product quantities. Used by the
// sibling memory committer and orders repository, whose transactions already
// moved the stock.
func (s *Store) Append(movement *domain.Movement) (*domain.Movement, error) {
	if movement == nil {
		return nil, errors.New("movement is nil")
	}
	if err := movement.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *movement
	s.nextID++
	clone.ID = s.nextID
	clone.CreatedAt = time.Now()
	s.movements = append(s.movements, &clone)
	out := clone
	return &out, nil
}
