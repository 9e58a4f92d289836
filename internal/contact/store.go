package contact

import (
	"sync"
	"time"
)

type Inquiry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type Store struct {
	mu    sync.RWMutex
	items []Inquiry
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) List() []Inquiry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Inquiry, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Insert(in Inquiry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, in)
}

func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}
