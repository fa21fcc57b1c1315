package catalog

import (
	"strings"

	dErrors "recordhub/pkg/domain-errors"
)

// Filter is a conjunction of optional predicates over the item collection.
// Zero-valued fields are no-ops.
type Filter struct {
	MinPrice *float64
	MaxPrice *float64
	InStock  *bool
	// Search matches case-insensitively as a substring of name OR description.
	Search string
}

// Validate rejects malformed criteria before any filtering runs, so callers
// can distinguish bad input from an empty result set.
func (f Filter) Validate() error {
	if f.MinPrice != nil && *f.MinPrice < 0 {
		return dErrors.New(dErrors.CodeBadRequest, "min_price must not be negative")
	}
	if f.MaxPrice != nil && *f.MaxPrice < 0 {
		return dErrors.New(dErrors.CodeBadRequest, "max_price must not be negative")
	}
	return nil
}

// matches applies the conjunction. Bounds are inclusive.
func (f Filter) matches(item *Item) bool {
	if f.MinPrice != nil && item.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && item.Price > *f.MaxPrice {
		return false
	}
	if f.InStock != nil && item.InStock != *f.InStock {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(item.Name), needle) &&
			!strings.Contains(strings.ToLower(item.Description), needle) {
			return false
		}
	}
	return true
}
