package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/monochra/storefront/internal/domains/carts/domain"
	"github.com/monochra/storefront/internal/domains/carts/ports"
)

var _ ports.Repository = (*Repository)(nil)

type lineKey struct {
	kind      domain.OwnerKind
	key       string
	productID int64
}

// Repository is an in-memory cart line adapter.
type Repository struct {
	mu    sync.RWMutex
	lines map[lineKey]domain.Line
}

func NewRepository() *Repository {
	return &Repository{lines: map[lineKey]domain.Line{}}
}

func keyFor(owner domain.Owner, productID int64) lineKey {
	return lineKey{kind: owner.Kind, key: owner.Key, productID: productID}
}

func (r *Repository) Upsert(_ context.Context, line domain.Line) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines[keyFor(line.Owner, line.ProductID)] = line
	return nil
}

func (r *Repository) Get(_ context.Context, owner domain.Owner, productID int64) (*domain.Line, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	line, ok := r.lines[keyFor(owner, productID)]
	if !ok {
		return nil, ports.ErrLineNotFound
	}
	clone := line
	return &clone, nil
}

func (r *Repository) Remove(_ context.Context, owner domain.Owner, productID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := keyFor(owner, productID)
	if _, ok := r.lines[key]; !ok {
		return ports.ErrLineNotFound
	}
	delete(r.lines, key)
	return nil
}

func (r *Repository) Clear(_ context.Context, owner domain.Owner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.lines {
		if key.kind == owner.Kind && key.key == owner.Key {
			delete(r.lines, key)
		}
	}
	return nil
}

func (r *Repository) List(_ context.Context, owner domain.Owner) ([]domain.Line, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []domain.Line
	for key, line := range r.lines {
		if key.kind == owner.Kind && key.key == owner.Key {
			list = append(list, line)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ProductID < list[j].ProductID })
	return list, nil
}

func (r *Repository) Merge(_ context.Context, from, to domain.Owner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, line := range r.lines {
		if key.kind != from.Kind || key.key != from.Key {
			continue
		}
		target := keyFor(to, key.productID)
		if existing, ok := r.lines[target]; ok {
			existing.Quantity += line.Quantity
			r.lines[target] = existing
		} else {
			line.Owner = to
			r.lines[target] = line
		}
		delete(r.lines, key)
	}
	return nil
}
