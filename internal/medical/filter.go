package medical

import (
	"strings"
	"time"

	"recordhub/pkg/domain"
	dErrors "recordhub/pkg/domain-errors"
)

// Filter is a conjunction of optional predicates over active patients.
// Soft-deleted records are excluded before any predicate runs. Age bounds
// apply to the derived age as of the filter's evaluation instant.
type Filter struct {
	Status    *Status
	Gender    *domain.Gender
	BloodType *domain.BloodType
	AgeMin    *int
	AgeMax    *int
	// Search matches case-insensitively as a substring of first OR last name.
	Search string
}

// Validate rejects malformed criteria before any filtering runs, so callers
// can distinguish bad input from an empty result set.
func (f Filter) Validate() error {
	if f.AgeMin != nil && *f.AgeMin < 0 {
		return dErrors.New(dErrors.CodeBadRequest, "age_min must not be negative")
	}
	if f.AgeMax != nil && *f.AgeMax < 0 {
		return dErrors.New(dErrors.CodeBadRequest, "age_max must not be negative")
	}
	return nil
}

// matches applies the conjunction to one active patient. Bounds are
// inclusive.
func (f Filter) matches(p *Patient, asOf time.Time) bool {
	if f.Status != nil && p.Status != *f.Status {
		return false
	}
	if f.Gender != nil && p.PersonalInfo.Gender != *f.Gender {
		return false
	}
	if f.BloodType != nil && p.MedicalInfo.BloodType != *f.BloodType {
		return false
	}
	if f.AgeMin != nil || f.AgeMax != nil {
		age := p.AgeAt(asOf)
		if f.AgeMin != nil && age < *f.AgeMin {
			return false
		}
		if f.AgeMax != nil && age > *f.AgeMax {
			return false
		}
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.PersonalInfo.FirstName), needle) &&
			!strings.Contains(strings.ToLower(p.PersonalInfo.LastName), needle) {
			return false
		}
	}
	return true
}
