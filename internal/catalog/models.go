// Package catalog implements the item record domain: flat records with no
// relations, partial updates, hard deletion and price/stock/text filtering.
package catalog

import (
	"strings"
	"time"

	"recordhub/pkg/domain"
	dErrors "recordhub/pkg/domain-errors"
)

const (
	maxNameLen        = 100
	maxDescriptionLen = 500
)

// Item is a catalog record.
//
// Invariants:
//   - Name is non-empty and at most 100 characters
//   - Price is non-negative (zero is a valid price)
//   - CreatedAt is immutable after construction; UpdatedAt is nil until the
//     first partial update
type Item struct {
	ID          domain.ItemID `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Price       float64       `json:"price"`
	InStock     bool          `json:"in_stock"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   *time.Time    `json:"updated_at,omitempty"`
}

// NewItem validates and constructs an item. All violations are collected so
// the caller sees every broken rule at once, not just the first. Price is a
// pointer to distinguish an absent price from an explicit zero, which is a
// valid price.
func NewItem(name, description string, price *float64, inStock bool, now time.Time) (*Item, error) {
	var violations []dErrors.Violation
	name = strings.TrimSpace(name)
	if name == "" {
		violations = append(violations, dErrors.Violation{Field: "name", Rule: "required"})
	} else if len(name) > maxNameLen {
		violations = append(violations, dErrors.Violation{Field: "name", Rule: "must be 100 characters or less"})
	}
	if len(description) > maxDescriptionLen {
		violations = append(violations, dErrors.Violation{Field: "description", Rule: "must be 500 characters or less"})
	}
	if price == nil {
		violations = append(violations, dErrors.Violation{Field: "price", Rule: "required"})
	} else if *price < 0 {
		violations = append(violations, dErrors.Violation{Field: "price", Rule: "must not be negative"})
	}
	if err := dErrors.NewValidation(violations...); err != nil {
		return nil, err
	}
	return &Item{
		ID:          domain.NewItemID(),
		Name:        name,
		Description: description,
		Price:       *price,
		InStock:     inStock,
		CreatedAt:   now,
	}, nil
}

// Patch carries a partial update. Nil fields are left untouched on merge.
type Patch struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	InStock     *bool    `json:"in_stock,omitempty"`
}

// Validate checks only the supplied fields, collecting every violation.
func (p Patch) Validate() error {
	var violations []dErrors.Violation
	if p.Name != nil {
		trimmed := strings.TrimSpace(*p.Name)
		if trimmed == "" {
			violations = append(violations, dErrors.Violation{Field: "name", Rule: "required"})
		} else if len(trimmed) > maxNameLen {
			violations = append(violations, dErrors.Violation{Field: "name", Rule: "must be 100 characters or less"})
		}
	}
	if p.Description != nil && len(*p.Description) > maxDescriptionLen {
		violations = append(violations, dErrors.Violation{Field: "description", Rule: "must be 500 characters or less"})
	}
	if p.Price != nil && *p.Price < 0 {
		violations = append(violations, dErrors.Violation{Field: "price", Rule: "must not be negative"})
	}
	return dErrors.NewValidation(violations...)
}

// apply merges the supplied fields into the item and refreshes UpdatedAt.
// Call Validate first; apply assumes the patch is clean.
func (p Patch) apply(item *Item, now time.Time) {
	if p.Name != nil {
		item.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Price != nil {
		item.Price = *p.Price
	}
	if p.InStock != nil {
		item.InStock = *p.InStock
	}
	item.UpdatedAt = &now
}
