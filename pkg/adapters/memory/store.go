// Package memory provides an in-memory core.Store, used as the default
// backend and by tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/revio/revio/pkg/core"
)

// Store implements core.Store with a mutex-guarded map. Natural order is
// insertion order, which gives queries a stable tie-break.
type Store struct {
	mu      sync.RWMutex
	reviews map[string]core.Review
	order   []string
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		reviews: make(map[string]core.Review),
	}
}

// Initialize implements core.Store. Nothing to prepare in memory.
func (s *Store) Initialize(ctx context.Context) error {
	return nil
}

// Insert implements core.Store.
func (s *Store) Insert(ctx context.Context, r core.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.reviews[r.ID]; exists {
		return fmt.Errorf("duplicate id %s", r.ID)
	}
	s.reviews[r.ID] = r
	s.order = append(s.order, r.ID)
	return nil
}

// Get implements core.Store.
func (s *Store) Get(ctx context.Context, id string) (core.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reviews[id]
	if !ok {
		return core.Review{}, core.ErrNotFound
	}
	return r, nil
}

// Update implements core.Store. The read-modify-write runs under the
// write lock, so concurrent updates to the same id cannot lose writes.
func (s *Store) Update(ctx context.Context, id string, mutate func(core.Review) (core.Review, error)) (core.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reviews[id]
	if !ok {
		return core.Review{}, core.ErrNotFound
	}
	updated, err := mutate(r)
	if err != nil {
		return core.Review{}, err
	}
	updated.ID = id // identity is immutable
	s.reviews[id] = updated
	return updated, nil
}

// List implements core.Store.
func (s *Store) List(ctx context.Context, q core.Query) ([]core.Review, int, error) {
	s.mu.RLock()
	all := make([]core.Review, 0, len(s.order))
	for _, id := range s.order {
		all = append(all, s.reviews[id])
	}
	s.mu.RUnlock()

	page, total := core.Select(all, q)
	return page, total, nil
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "memory"
}

var _ core.Store = (*Store)(nil)
