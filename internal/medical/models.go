// Package medical implements the patient record domain: nested record
// sections, an exclusively-owned embedded consultations collection,
// national-ID uniqueness among active records, derived age and soft deletion
// with audit retention.
package medical

import (
	"strings"
	"time"

	"recordhub/pkg/domain"
	dErrors "recordhub/pkg/domain-errors"
)

// Status tracks record visibility. Soft-deleted patients stay in storage for
// retention but are excluded from every read path.
type Status string

const (
	StatusActive  Status = "active"
	StatusDeleted Status = "deleted"
)

// birthDateLayout is the wire format for birth dates and consultation dates.
const birthDateLayout = "2006-01-02"

// PersonalInfo is the identity section of a patient record.
type PersonalInfo struct {
	FirstName  string              `json:"first_name"`
	LastName   string              `json:"last_name"`
	NationalID domain.NationalID   `json:"national_id"`
	BirthDate  time.Time           `json:"birth_date"`
	Gender     domain.Gender       `json:"gender"`
	Email      domain.EmailAddress `json:"email,omitempty"`
	Phone      string              `json:"phone,omitempty"`
}

// Address is a plain nested section with no validation rules of its own.
type Address struct {
	Street       string `json:"street,omitempty"`
	Number       string `json:"number,omitempty"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	ZipCode      string `json:"zip_code,omitempty"`
}

// EmergencyContact is part of the medical section.
type EmergencyContact struct {
	Name         string `json:"name,omitempty"`
	Relationship string `json:"relationship,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

// MedicalInfo is the clinical section of a patient record.
type MedicalInfo struct {
	BloodType         domain.BloodType `json:"blood_type,omitempty"`
	Allergies         []string         `json:"allergies"`
	ChronicConditions []string         `json:"chronic_conditions"`
	EmergencyContact  EmergencyContact `json:"emergency_contact"`
}

// Consultation is an embedded child record owned exclusively by its patient.
// It has no lifecycle outside the parent and is never referenced from
// elsewhere.
type Consultation struct {
	ID           domain.ConsultationID `json:"id"`
	Date         time.Time             `json:"date"`
	Doctor       string                `json:"doctor"`
	Specialty    string                `json:"specialty"`
	Symptoms     []string              `json:"symptoms"`
	Diagnosis    string                `json:"diagnosis,omitempty"`
	Prescription []string              `json:"prescription"`
	Notes        string                `json:"notes,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
}

// Patient is the aggregate root.
//
// Invariants:
//   - PersonalInfo.NationalID verifies and is unique among active patients
//   - BirthDate is non-future and implies an age of at most 150 years
//   - Age is never stored; it is derived from BirthDate on every read
//   - Status transitions active -> deleted only; deletion keeps the record
type Patient struct {
	ID            domain.PatientID `json:"id"`
	PersonalInfo  PersonalInfo     `json:"personal_info"`
	Address       Address          `json:"address"`
	MedicalInfo   MedicalInfo      `json:"medical_info"`
	Consultations []Consultation   `json:"consultations"`
	Status        Status           `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	DeletedAt     *time.Time       `json:"deleted_at,omitempty"`
}

// IsActive reports record visibility.
func (p *Patient) IsActive() bool {
	return p.Status == StatusActive
}

// FullName is a derived display value, never stored separately.
func (p *Patient) FullName() string {
	return p.PersonalInfo.FirstName + " " + p.PersonalInfo.LastName
}

// AgeAt derives the patient's calendar-accurate age as of the given instant.
func (p *Patient) AgeAt(asOf time.Time) int {
	return domain.AgeAt(p.PersonalInfo.BirthDate, asOf)
}

// RegisterInput carries the raw candidate fields for patient registration.
// Everything arrives untyped; NewPatient is the single validation gate.
type RegisterInput struct {
	Personal PersonalInput `json:"personal_info"`
	Address  Address       `json:"address"`
	Medical  MedicalInput  `json:"medical_info"`
}

// PersonalInput is the raw identity section.
type PersonalInput struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	NationalID string `json:"national_id"`
	BirthDate  string `json:"birth_date"`
	Gender     string `json:"gender"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
}

// MedicalInput is the raw clinical section.
type MedicalInput struct {
	BloodType         string           `json:"blood_type"`
	Allergies         []string         `json:"allergies"`
	ChronicConditions []string         `json:"chronic_conditions"`
	EmergencyContact  EmergencyContact `json:"emergency_contact"`
}

// NewPatient validates the whole candidate and constructs a patient. Every
// violated rule is collected so the caller can fix all of them in one
// round-trip. National-ID uniqueness is checked by the store, not here.
func NewPatient(in RegisterInput, now time.Time) (*Patient, error) {
	var violations []dErrors.Violation

	firstName := strings.TrimSpace(in.Personal.FirstName)
	lastName := strings.TrimSpace(in.Personal.LastName)
	if firstName == "" {
		violations = append(violations, dErrors.Violation{Field: "first_name", Rule: "required"})
	}
	if lastName == "" {
		violations = append(violations, dErrors.Violation{Field: "last_name", Rule: "required"})
	}

	nationalID, err := domain.ParseNationalID(in.Personal.NationalID)
	if err != nil {
		violations = append(violations, dErrors.Violation{Field: "national_id", Rule: "must be a valid national id"})
	}

	var birthDate time.Time
	if in.Personal.BirthDate == "" {
		violations = append(violations, dErrors.Violation{Field: "birth_date", Rule: "required"})
	} else {
		birthDate, err = time.Parse(birthDateLayout, in.Personal.BirthDate)
		if err != nil {
			violations = append(violations, dErrors.Violation{Field: "birth_date", Rule: "must be a YYYY-MM-DD date"})
		} else if !domain.PlausibleBirthDate(birthDate, now) {
			violations = append(violations, dErrors.Violation{Field: "birth_date", Rule: "must be in the past and imply an age of at most 150"})
		}
	}

	gender, err := domain.ParseGender(in.Personal.Gender)
	if err != nil {
		violations = append(violations, dErrors.Violation{Field: "gender", Rule: "must be one of male, female, other, unspecified"})
	}

	var email domain.EmailAddress
	if in.Personal.Email != "" {
		email, err = domain.ParseEmailAddress(in.Personal.Email)
		if err != nil {
			violations = append(violations, dErrors.Violation{Field: "email", Rule: "must be a valid email address"})
		}
	}

	var bloodType domain.BloodType
	if in.Medical.BloodType != "" {
		bloodType, err = domain.ParseBloodType(in.Medical.BloodType)
		if err != nil {
			violations = append(violations, dErrors.Violation{Field: "blood_type", Rule: "must be one of the eight ABO/Rh types"})
		}
	}

	if err := dErrors.NewValidation(violations...); err != nil {
		return nil, err
	}

	return &Patient{
		ID: domain.NewPatientID(),
		PersonalInfo: PersonalInfo{
			FirstName:  firstName,
			LastName:   lastName,
			NationalID: nationalID,
			BirthDate:  birthDate,
			Gender:     gender,
			Email:      email,
			Phone:      in.Personal.Phone,
		},
		Address: in.Address,
		MedicalInfo: MedicalInfo{
			BloodType:         bloodType,
			Allergies:         orEmpty(in.Medical.Allergies),
			ChronicConditions: orEmpty(in.Medical.ChronicConditions),
			EmergencyContact:  in.Medical.EmergencyContact,
		},
		Consultations: []Consultation{},
		Status:        StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// ConsultationInput carries the raw candidate fields for a consultation.
type ConsultationInput struct {
	Date         string   `json:"date"`
	Doctor       string   `json:"doctor"`
	Specialty    string   `json:"specialty"`
	Symptoms     []string `json:"symptoms"`
	Diagnosis    string   `json:"diagnosis"`
	Prescription []string `json:"prescription"`
	Notes        string   `json:"notes"`
}

// NewConsultation validates and constructs an embedded consultation record.
func NewConsultation(in ConsultationInput, now time.Time) (*Consultation, error) {
	var violations []dErrors.Violation

	var date time.Time
	if in.Date == "" {
		violations = append(violations, dErrors.Violation{Field: "date", Rule: "required"})
	} else {
		var err error
		date, err = parseConsultationDate(in.Date)
		if err != nil {
			violations = append(violations, dErrors.Violation{Field: "date", Rule: "must be a YYYY-MM-DD date or RFC 3339 timestamp"})
		}
	}
	if strings.TrimSpace(in.Doctor) == "" {
		violations = append(violations, dErrors.Violation{Field: "doctor", Rule: "required"})
	}
	if strings.TrimSpace(in.Specialty) == "" {
		violations = append(violations, dErrors.Violation{Field: "specialty", Rule: "required"})
	}

	if err := dErrors.NewValidation(violations...); err != nil {
		return nil, err
	}

	return &Consultation{
		ID:           domain.NewConsultationID(),
		Date:         date,
		Doctor:       strings.TrimSpace(in.Doctor),
		Specialty:    strings.TrimSpace(in.Specialty),
		Symptoms:     orEmpty(in.Symptoms),
		Diagnosis:    in.Diagnosis,
		Prescription: orEmpty(in.Prescription),
		Notes:        in.Notes,
		CreatedAt:    now,
	}, nil
}

func parseConsultationDate(s string) (time.Time, error) {
	if t, err := time.Parse(birthDateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// orEmpty normalizes nil slices to empty so stored records always carry a
// list, matching the record shape contract.
func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
