package medical

import (
	"strings"
	"time"

	"recordhub/pkg/domain"
	dErrors "recordhub/pkg/domain-errors"
)

// Patch carries a partial patient update, one optional sub-patch per record
// section. Nil sections and nil fields are left untouched; the merge is an
// explicit per-field copy against the fixed schema, never an open-ended map
// merge.
type Patch struct {
	Personal *PersonalPatch `json:"personal_info,omitempty"`
	Address  *AddressPatch  `json:"address,omitempty"`
	Medical  *MedicalPatch  `json:"medical_info,omitempty"`
}

// PersonalPatch updates identity fields.
type PersonalPatch struct {
	FirstName  *string `json:"first_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`
	NationalID *string `json:"national_id,omitempty"`
	BirthDate  *string `json:"birth_date,omitempty"`
	Gender     *string `json:"gender,omitempty"`
	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
}

// AddressPatch updates address fields.
type AddressPatch struct {
	Street       *string `json:"street,omitempty"`
	Number       *string `json:"number,omitempty"`
	Complement   *string `json:"complement,omitempty"`
	Neighborhood *string `json:"neighborhood,omitempty"`
	City         *string `json:"city,omitempty"`
	State        *string `json:"state,omitempty"`
	ZipCode      *string `json:"zip_code,omitempty"`
}

// MedicalPatch updates clinical fields. Slice fields replace the stored list
// wholesale when supplied.
type MedicalPatch struct {
	BloodType         *string           `json:"blood_type,omitempty"`
	Allergies         *[]string         `json:"allergies,omitempty"`
	ChronicConditions *[]string         `json:"chronic_conditions,omitempty"`
	EmergencyContact  *EmergencyContact `json:"emergency_contact,omitempty"`
}

// Validate checks only the supplied fields, collecting every violation.
// asOf anchors birth-date plausibility.
func (p Patch) Validate(asOf time.Time) error {
	var violations []dErrors.Violation
	if pp := p.Personal; pp != nil {
		if pp.FirstName != nil && strings.TrimSpace(*pp.FirstName) == "" {
			violations = append(violations, dErrors.Violation{Field: "first_name", Rule: "required"})
		}
		if pp.LastName != nil && strings.TrimSpace(*pp.LastName) == "" {
			violations = append(violations, dErrors.Violation{Field: "last_name", Rule: "required"})
		}
		if pp.NationalID != nil {
			if _, err := domain.ParseNationalID(*pp.NationalID); err != nil {
				violations = append(violations, dErrors.Violation{Field: "national_id", Rule: "must be a valid national id"})
			}
		}
		if pp.BirthDate != nil {
			birthDate, err := time.Parse(birthDateLayout, *pp.BirthDate)
			if err != nil {
				violations = append(violations, dErrors.Violation{Field: "birth_date", Rule: "must be a YYYY-MM-DD date"})
			} else if !domain.PlausibleBirthDate(birthDate, asOf) {
				violations = append(violations, dErrors.Violation{Field: "birth_date", Rule: "must be in the past and imply an age of at most 150"})
			}
		}
		if pp.Gender != nil {
			if _, err := domain.ParseGender(*pp.Gender); err != nil {
				violations = append(violations, dErrors.Violation{Field: "gender", Rule: "must be one of male, female, other, unspecified"})
			}
		}
		if pp.Email != nil && *pp.Email != "" {
			if _, err := domain.ParseEmailAddress(*pp.Email); err != nil {
				violations = append(violations, dErrors.Violation{Field: "email", Rule: "must be a valid email address"})
			}
		}
	}
	if mp := p.Medical; mp != nil && mp.BloodType != nil && *mp.BloodType != "" {
		if _, err := domain.ParseBloodType(*mp.BloodType); err != nil {
			violations = append(violations, dErrors.Violation{Field: "blood_type", Rule: "must be one of the eight ABO/Rh types"})
		}
	}
	return dErrors.NewValidation(violations...)
}

// nationalID returns the parsed national ID when the patch changes it.
// Call Validate first; nationalID assumes the patch is clean.
func (p Patch) nationalID() (domain.NationalID, bool) {
	if p.Personal == nil || p.Personal.NationalID == nil {
		return "", false
	}
	id, _ := domain.ParseNationalID(*p.Personal.NationalID)
	return id, true
}

// apply merges the supplied fields and refreshes UpdatedAt. Call Validate
// first; apply assumes the patch is clean.
func (p Patch) apply(patient *Patient, now time.Time) {
	if pp := p.Personal; pp != nil {
		if pp.FirstName != nil {
			patient.PersonalInfo.FirstName = strings.TrimSpace(*pp.FirstName)
		}
		if pp.LastName != nil {
			patient.PersonalInfo.LastName = strings.TrimSpace(*pp.LastName)
		}
		if pp.NationalID != nil {
			id, _ := domain.ParseNationalID(*pp.NationalID)
			patient.PersonalInfo.NationalID = id
		}
		if pp.BirthDate != nil {
			birthDate, _ := time.Parse(birthDateLayout, *pp.BirthDate)
			patient.PersonalInfo.BirthDate = birthDate
		}
		if pp.Gender != nil {
			gender, _ := domain.ParseGender(*pp.Gender)
			patient.PersonalInfo.Gender = gender
		}
		if pp.Email != nil {
			if *pp.Email == "" {
				patient.PersonalInfo.Email = ""
			} else {
				email, _ := domain.ParseEmailAddress(*pp.Email)
				patient.PersonalInfo.Email = email
			}
		}
		if pp.Phone != nil {
			patient.PersonalInfo.Phone = *pp.Phone
		}
	}
	if ap := p.Address; ap != nil {
		if ap.Street != nil {
			patient.Address.Street = *ap.Street
		}
		if ap.Number != nil {
			patient.Address.Number = *ap.Number
		}
		if ap.Complement != nil {
			patient.Address.Complement = *ap.Complement
		}
		if ap.Neighborhood != nil {
			patient.Address.Neighborhood = *ap.Neighborhood
		}
		if ap.City != nil {
			patient.Address.City = *ap.City
		}
		if ap.State != nil {
			patient.Address.State = *ap.State
		}
		if ap.ZipCode != nil {
			patient.Address.ZipCode = *ap.ZipCode
		}
	}
	if mp := p.Medical; mp != nil {
		if mp.BloodType != nil {
			if *mp.BloodType == "" {
				patient.MedicalInfo.BloodType = ""
			} else {
				bt, _ := domain.ParseBloodType(*mp.BloodType)
				patient.MedicalInfo.BloodType = bt
			}
		}
		if mp.Allergies != nil {
			patient.MedicalInfo.Allergies = orEmpty(*mp.Allergies)
		}
		if mp.ChronicConditions != nil {
			patient.MedicalInfo.ChronicConditions = orEmpty(*mp.ChronicConditions)
		}
		if mp.EmergencyContact != nil {
			patient.MedicalInfo.EmergencyContact = *mp.EmergencyContact
		}
	}
	patient.UpdatedAt = now
}
