package product

import (
	"context"
	"sync"
	"time"

	"MiniAdmin/internal/ident"
)

// MemStore keeps products in insertion order behind one lock. Every
// read-modify-write (index lookup + mutation) runs under the write lock, so
// an index can never go stale between resolution and use.
type MemStore struct {
	mu       sync.RWMutex
	items    []Product
	fallback bool
}

func NewMemStore(legacyFallback bool) *MemStore {
	return &MemStore{fallback: legacyFallback}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) List(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *MemStore) FindByID(ctx context.Context, id string) (Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Product{}, false, nil
	}
	return s.items[i], true, nil
}

// FindIndexByID resolves id to a position using the same two-phase rule as
// FindByID, or -1. Positions are only stable while no writer runs.
func (s *MemStore) FindIndexByID(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(id)
}

func (s *MemStore) Insert(ctx context.Context, p Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append(s.items, p)
	return nil
}

func (s *MemStore) Update(ctx context.Context, id string, patch Patch) (Product, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Product{}, false, nil
	}

	p := s.items[i]
	applyPatch(&p, patch)

	now := time.Now().UTC()
	p.UpdatedAt = &now

	s.items[i] = p
	return p, true, nil
}

func (s *MemStore) Remove(ctx context.Context, id string) (Product, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Product{}, false, nil
	}

	removed := s.items[i]
	s.items = append(s.items[:i], s.items[i+1:]...)
	return removed, true, nil
}

// indexOf is the two-phase lookup. Callers must hold at least the read lock.
func (s *MemStore) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}

	if s.fallback && ident.LooksLikeObjectID(id) {
		short := ident.FallbackKey(id)
		for i := range s.items {
			if s.items[i].ID == short {
				return i
			}
		}
	}

	return -1
}
