package domain

import dErrors "recordhub/pkg/domain-errors"

// Gender is the closed set accepted on patient records. Unspecified is the
// default when the field is omitted at registration.
type Gender string

const (
	GenderMale        Gender = "male"
	GenderFemale      Gender = "female"
	GenderOther       Gender = "other"
	GenderUnspecified Gender = "unspecified"
)

var validGenders = map[Gender]bool{
	GenderMale:        true,
	GenderFemale:      true,
	GenderOther:       true,
	GenderUnspecified: true,
}

// ParseGender constructs a Gender from external input. The empty string maps
// to GenderUnspecified so optional fields stay optional.
func ParseGender(s string) (Gender, error) {
	if s == "" {
		return GenderUnspecified, nil
	}
	g := Gender(s)
	if !g.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid gender")
	}
	return g, nil
}

func (g Gender) IsValid() bool {
	return validGenders[g]
}

func (g Gender) String() string {
	return string(g)
}
