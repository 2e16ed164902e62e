package server

import (
	"context"
	"sort"
	"sync"

	"github.com/t-sasaki1124/book-review-portal/internal/review"
)

// MemoryRepo is an in-process Repository for tests and for running the API
// without a database.
type MemoryRepo struct {
	mu    sync.RWMutex
	items map[string]review.Review
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{items: make(map[string]review.Review)}
}

func (r *MemoryRepo) List(_ context.Context, owner string) ([]review.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var items []review.Review
	for _, rec := range r.items {
		if rec.Owner == owner {
			items = append(items, rec)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *MemoryRepo) Get(_ context.Context, id string) (review.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.items[id]
	if !ok {
		return review.Review{}, ErrNotFound
	}
	return rec, nil
}

func (r *MemoryRepo) Put(_ context.Context, rec review.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[rec.ID] = rec
	return nil
}

func (r *MemoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}
