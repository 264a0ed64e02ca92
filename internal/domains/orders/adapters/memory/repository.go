package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	catalogmemory "github.com/monochra/storefront/internal/domains/catalog/adapters/memory"
	"github.com/monochra/storefront/internal/domains/orders/domain"
	"github.com/monochra/storefront/internal/domains/orders/ports"
	stockdomain "github.com/monochra/storefront/internal/domains/stock/domain"
	stockmemory "github.com/monochra/storefront/internal/domains/stock/adapters/memory"
)

var _ ports.Repository = (*Repository)(nil)

// ErrDuplicateNumber mirrors the unique order-number constraint of the
// relational adapter.
var ErrDuplicateNumber = errors.New("order number already exists")

// Repository is an in-memory order adapter. Cancellation compensates stock
// through the shared in-memory product repository and ledger.
type Repository struct {
	mu       sync.RWMutex
	orders   map[int64]*domain.Order
	byNumber map[string]int64
	nextID   int64
	products *catalogmemory.Repository
	ledger   *stockmemory.Store
}

func NewRepository(products *catalogmemory.Repository, ledger *stockmemory.Store) *Repository {
	return &Repository{
		orders:   map[int64]*domain.Order{},
		byNumber: map[string]int64{},
		products: products,
		ledger:   ledger,
	}
}

// Create inserts a finalized order. Used by the in-memory checkout committer.
func (r *Repository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	clone := *order
	clone.Items = append([]domain.Item{}, order.Items...)
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byNumber[clone.Number]; exists {
		return nil, ErrDuplicateNumber
	}
	r.nextID++
	clone.ID = r.nextID
	clone.CreatedAt = time.Now()
	r.orders[clone.ID] = &clone
	r.byNumber[clone.Number] = clone.ID
	out := clone
	out.Items = append([]domain.Item{}, clone.Items...)
	return &out, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (r *Repository) GetByNumber(_ context.Context, number string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byNumber[number]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneOrder(r.orders[id]), nil
}

func (r *Repository) ListByOwner(_ context.Context, owner domain.Owner) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*domain.Order
	for _, order := range r.orders {
		if order.Owner == owner {
			list = append(list, cloneOrder(order))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

func (r *Repository) ListAll(_ context.Context, limit, offset int) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		list = append(list, cloneOrder(order))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

// UpdateStatus applies one transition. Cancellation restores every item's
// stock and appends cancel movements before the status flips.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, next domain.Status) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if !order.CanTransition(next) {
		return nil, domain.ErrInvalidTransition
	}
	if next == domain.StatusCancelled {
		changes := make(map[int64]int, len(order.Items))
		for _, item := range order.Items {
			changes[item.ProductID] += item.Quantity
		}
		if err := r.products.ApplyStockChanges(changes); err != nil {
			return nil, err
		}
		for _, item := range order.Items {
			refID := order.ID
			movement, err := stockdomain.NewMovement(item.ProductID, item.Quantity, stockdomain.ReasonCancel, &refID, "")
			if err != nil {
				return nil, err
			}
			if _, err := r.ledger.Append(movement); err != nil {
				return nil, err
			}
		}
	}
	order.Status = next
	return cloneOrder(order), nil
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.Items = append([]domain.Item{}, order.Items...)
	return &clone
}
