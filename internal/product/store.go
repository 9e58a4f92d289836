package product

import (
	"context"
	"errors"
	"time"
)

var ErrDuplicateID = errors.New("duplicate product id")

type Product struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	OldPrice    *float64   `json:"oldPrice,omitempty"`
	IsNew       bool       `json:"isNew"`
	Tags        []string   `json:"tags"`
	ImagePath   string     `json:"imagePath,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// Patch carries the fields supplied on an update. A nil field was not part of
// the request and keeps its stored value.
type Patch struct {
	Name        *string
	Description *string
	Price       *float64
	OldPrice    *float64
	IsNew       *bool
	Tags        *[]string
	ImagePath   *string
}

func applyPatch(p *Product, patch Patch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.OldPrice != nil {
		p.OldPrice = patch.OldPrice
	}
	if patch.IsNew != nil {
		p.IsNew = *patch.IsNew
	}
	if patch.Tags != nil {
		p.Tags = *patch.Tags
	}
	if patch.ImagePath != nil {
		p.ImagePath = *patch.ImagePath
	}
}

// Store holds the authoritative product list. Id resolution is two-phase:
// exact match first, then (when enabled) the legacy fallback that matches a
// 24-hex foreign id by its last character against stored short ids.
type Store interface {
	Ping(ctx context.Context) error
	List(ctx context.Context) ([]Product, error)
	FindByID(ctx context.Context, id string) (Product, bool, error)
	Insert(ctx context.Context, p Product) error
	Update(ctx context.Context, id string, patch Patch) (Product, bool, error)
	Remove(ctx context.Context, id string) (Product, bool, error)
}
