package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/monochra/storefront/internal/domains/catalog/domain"
	"github.com/monochra/storefront/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory product persistence adapter. The sibling memory
// adapters (stock store, checkout committer, orders repository) mutate stock
// through ApplyStockChanges so that multi-product commits stay all-or-nothing.
type Repository struct {
	mu       sync.RWMutex
	products map[int64]*domain.Product
	nextID   int64
}

func NewRepository() *Repository {
	return &Repository{products: map[int64]*domain.Product{}}
}

func (r *Repository) Save(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	clone := *product
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.products[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *product
	return &clone, nil
}

func (r *Repository) GetByIDs(_ context.Context, ids []int64) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Product, 0, len(ids))
	for _, id := range ids {
		product, ok := r.products[id]
		if !ok {
			return nil, ports.ErrNotFound
		}
		clone := *product
		list = append(list, &clone)
	}
	return list, nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Product, 0, len(r.products))
	for _, product := range r.products {
		clone := *product
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *Repository) ListLowStock(_ context.Context, threshold int) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*domain.Product
	for _, product := range r.products {
		if product.Status == domain.StatusActive && product.StockQuantity <= threshold {
			clone := *product
			list = append(list, &clone)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].StockQuantity < list[j].StockQuantity })
	return list, nil
}

// ApplyStockChanges applies a set of signed quantity deltas atomically.
// Either every product exists and every resulting quantity stays >= 0, in
// which case all deltas are applied, or nothing changes.
func (r *Repository) ApplyStockChanges(changes map[int64]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, delta := range changes {
		product, ok := r.products[id]
		if !ok {
			return ports.ErrNotFound
		}
		if next := product.StockQuantity + delta; next < 0 {
			return &ports.InsufficientStockError{
				ProductID: id,
				Requested: -delta,
				Available: product.StockQuantity,
			}
		}
	}
	for id, delta := range changes {
		r.products[id].StockQuantity += delta
	}
	return nil
}
