package domain

import dErrors "recordhub/pkg/domain-errors"

// BloodType is a closed set of the eight ABO/Rh combinations.
//
// Usage: construct via ParseBloodType at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type BloodType string

const (
	BloodTypeAPos  BloodType = "A+"
	BloodTypeANeg  BloodType = "A-"
	BloodTypeBPos  BloodType = "B+"
	BloodTypeBNeg  BloodType = "B-"
	BloodTypeABPos BloodType = "AB+"
	BloodTypeABNeg BloodType = "AB-"
	BloodTypeOPos  BloodType = "O+"
	BloodTypeONeg  BloodType = "O-"
)

// validBloodTypes is the single source of truth for valid blood types.
var validBloodTypes = map[BloodType]bool{
	BloodTypeAPos:  true,
	BloodTypeANeg:  true,
	BloodTypeBPos:  true,
	BloodTypeBNeg:  true,
	BloodTypeABPos: true,
	BloodTypeABNeg: true,
	BloodTypeOPos:  true,
	BloodTypeONeg:  true,
}

// ParseBloodType constructs a BloodType from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or not one of the
// eight supported combinations.
func ParseBloodType(s string) (BloodType, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "blood type cannot be empty")
	}
	b := BloodType(s)
	if !b.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid blood type")
	}
	return b, nil
}

// IsValid checks membership in the supported set.
func (b BloodType) IsValid() bool {
	return validBloodTypes[b]
}

func (b BloodType) String() string {
	return string(b)
}
