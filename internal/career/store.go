package career

import (
	"sync"
	"time"
)

type Posting struct {
	ID               string     `json:"id"`
	JobTitle         string     `json:"JobTitle"`
	Field            string     `json:"Field,omitempty"`
	WorkType         string     `json:"workType,omitempty"`
	EmploymentType   string     `json:"employmentType,omitempty"`
	Description      string     `json:"description"`
	Responsibilities []string   `json:"responsibilities"`
	Requirements     []string   `json:"requirements"`
	IsActive         bool       `json:"isActive"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        *time.Time `json:"updatedAt,omitempty"`
}

type Store struct {
	mu    sync.RWMutex
	items []Posting
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) List() []Posting {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Posting, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) FindByID(id string) (Posting, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Posting{}, false
	}
	return s.items[i], true
}

func (s *Store) Insert(p Posting) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, p)
}

// Replace swaps the stored posting, keeping createdAt and stamping
// updatedAt. The merge itself happens at the handler, which decoded the
// partial request.
func (s *Store) Replace(id string, p Posting) (Posting, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Posting{}, false
	}

	p.ID = s.items[i].ID
	p.CreatedAt = s.items[i].CreatedAt
	now := time.Now().UTC()
	p.UpdatedAt = &now

	s.items[i] = p
	return p, true
}

// Toggle flips the posting's active flag and stamps updatedAt.
func (s *Store) Toggle(id string) (Posting, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Posting{}, false
	}

	s.items[i].IsActive = !s.items[i].IsActive
	now := time.Now().UTC()
	s.items[i].UpdatedAt = &now
	return s.items[i], true
}

func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}

	s.items = append(s.items[:i], s.items[i+1:]...)
	return true
}

func (s *Store) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}
