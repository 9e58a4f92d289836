package blog

import (
	"sync"
	"time"

	"MiniAdmin/internal/ident"
)

type Post struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Subtitle    string     `json:"subtitle,omitempty"`
	Author      string     `json:"author"`
	Category    string     `json:"category,omitempty"`
	Date        string     `json:"date,omitempty"`
	ReadingTime string     `json:"readingTime,omitempty"`
	Excerpt     string     `json:"excerpt,omitempty"`
	Content     string     `json:"content"`
	ImagePath   string     `json:"imagePath,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

type Patch struct {
	Title       *string
	Subtitle    *string
	Author      *string
	Category    *string
	Date        *string
	ReadingTime *string
	Excerpt     *string
	Content     *string
	ImagePath   *string
}

// Store keeps posts in insertion order. Id resolution follows the same
// two-phase rule as the product store so admin payloads built against the
// production backend's object ids keep working.
type Store struct {
	mu       sync.RWMutex
	items    []Post
	fallback bool
}

func NewStore(legacyFallback bool) *Store {
	return &Store{fallback: legacyFallback}
}

func (s *Store) List() []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Post, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) FindByID(id string) (Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Post{}, false
	}
	return s.items[i], true
}

func (s *Store) Insert(p Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, p)
}

func (s *Store) Update(id string, patch Patch) (Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Post{}, false
	}

	p := s.items[i]
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Subtitle != nil {
		p.Subtitle = *patch.Subtitle
	}
	if patch.Author != nil {
		p.Author = *patch.Author
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Date != nil {
		p.Date = *patch.Date
	}
	if patch.ReadingTime != nil {
		p.ReadingTime = *patch.ReadingTime
	}
	if patch.Excerpt != nil {
		p.Excerpt = *patch.Excerpt
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	if patch.ImagePath != nil {
		p.ImagePath = *patch.ImagePath
	}

	now := time.Now().UTC()
	p.UpdatedAt = &now

	s.items[i] = p
	return p, true
}

func (s *Store) Remove(id string) (Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Post{}, false
	}

	removed := s.items[i]
	s.items = append(s.items[:i], s.items[i+1:]...)
	return removed, true
}

func (s *Store) indexOf(id string) int {
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
