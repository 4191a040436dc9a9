package discount

import (
	"context"
	"sort"
	"sync"
)

type InMemoryRepository struct {
	mu        sync.RWMutex
	discounts map[string]*Discount
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		discounts: make(map[string]*Discount),
	}
}

func (r *InMemoryRepository) Create(ctx context.Context, d *Discount) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.demoteLoyaltyLocked(d)
	cp := *d
	r.discounts[d.ID] = &cp
	return nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Discount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.discounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, d *Discount) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.discounts[d.ID]; !ok {
		return ErrNotFound
	}
	r.demoteLoyaltyLocked(d)
	cp := *d
	r.discounts[d.ID] = &cp
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.discounts[id]; !ok {
		return ErrNotFound
	}
	delete(r.discounts, id)
	return nil
}

func (r *InMemoryRepository) List(ctx context.Context, f Filter) ([]*Discount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Discount
	for _, d := range r.discounts {
		if f.Status != "" && d.Status != f.Status {
			continue
		}
		if f.Type != "" && d.Type != f.Type {
			continue
		}
		if f.Branch != "" && !d.AllBranches && !containsBranch(d.BranchIDs, f.Branch) {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// demoteLoyaltyLocked keeps at most one active loyalty discount.
func (r *InMemoryRepository) demoteLoyaltyLocked(d *Discount) {
	if d.Type != TypeLoyalty || d.Status != StatusActive {
		return
	}
	for _, other := range r.discounts {
		if other.ID != d.ID && other.Type == TypeLoyalty && other.Status == StatusActive {
			other.Status = StatusInactive
		}
	}
}

func containsBranch(ids []string, branch string) bool {
	for _, id := range ids {
		if id == branch {
			return true
		}
	}
	return false
}
