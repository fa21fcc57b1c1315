package medical

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"recordhub/pkg/domain"
	"recordhub/pkg/platform/sentinel"
)

type PatientStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
	now   time.Time
}

func (s *PatientStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
	s.now = time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)
}

func TestPatientStoreSuite(t *testing.T) {
	suite.Run(t, new(PatientStoreSuite))
}

func (s *PatientStoreSuite) newPatient(nationalID string) *Patient {
	return &Patient{
		ID: domain.NewPatientID(),
		PersonalInfo: PersonalInfo{
			FirstName:  "Maria",
			LastName:   "Silva",
			NationalID: domain.NationalID(nationalID),
			BirthDate:  time.Date(1990, time.May, 15, 0, 0, 0, 0, time.UTC),
			Gender:     domain.GenderFemale,
		},
		Consultations: []Consultation{},
		Status:        StatusActive,
		CreatedAt:     s.now,
		UpdatedAt:     s.now,
	}
}

func (s *PatientStoreSuite) TestNationalIDUniqueness() {
	s.Require().NoError(s.store.Create(s.ctx, s.newPatient("11144477735")))

	s.Run("active duplicate rejected", func() {
		err := s.store.Create(s.ctx, s.newPatient("11144477735"))
		s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	s.Run("different national ID accepted", func() {
		s.Require().NoError(s.store.Create(s.ctx, s.newPatient("12345678909")))
	})
}

func (s *PatientStoreSuite) TestSoftDeleteSemantics() {
	patient := s.newPatient("11144477735")
	s.Require().NoError(s.store.Create(s.ctx, patient))

	snapshot, err := s.store.SoftDelete(s.ctx, patient.ID, s.now)
	s.Require().NoError(err)
	s.Equal(StatusActive, snapshot.Status, "snapshot reflects pre-deletion state")

	s.Run("invisible to FindByID", func() {
		_, err := s.store.FindByID(s.ctx, patient.ID)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("invisible to FindByNationalID", func() {
		_, err := s.store.FindByNationalID(s.ctx, patient.PersonalInfo.NationalID)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("invisible to Search", func() {
		patients, err := s.store.Search(s.ctx, Filter{}, s.now)
		s.Require().NoError(err)
		s.Empty(patients)
	})

	s.Run("excluded from ActiveCount", func() {
		s.Equal(0, s.store.ActiveCount(s.ctx))
	})

	s.Run("second delete behaves like missing record", func() {
		_, err := s.store.SoftDelete(s.ctx, patient.ID, s.now)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("national ID reusable after soft delete", func() {
		s.Require().NoError(s.store.Create(s.ctx, s.newPatient("11144477735")))
	})
}

func (s *PatientStoreSuite) TestAddConsultation() {
	patient := s.newPatient("11144477735")
	s.Require().NoError(s.store.Create(s.ctx, patient))

	later := s.now.Add(time.Hour)
	c := &Consultation{
		ID:        domain.NewConsultationID(),
		Date:      s.now,
		Doctor:    "Dr. Souza",
		Specialty: "cardiology",
		CreatedAt: later,
	}
	s.Require().NoError(s.store.AddConsultation(s.ctx, patient.ID, c, later))

	found, err := s.store.FindByID(s.ctx, patient.ID)
	s.Require().NoError(err)
	s.Require().Len(found.Consultations, 1)
	s.Equal("Dr. Souza", found.Consultations[0].Doctor)
	s.Equal(later, found.UpdatedAt, "parent timestamp refreshed with the append")

	s.Run("missing parent", func() {
		err := s.store.AddConsultation(s.ctx, domain.NewPatientID(), c, later)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *PatientStoreSuite) TestFindReturnsDeepCopy() {
	patient := s.newPatient("11144477735")
	patient.Consultations = []Consultation{{ID: domain.NewConsultationID(), Doctor: "Dr. A"}}
	s.Require().NoError(s.store.Create(s.ctx, patient))

	found, err := s.store.FindByID(s.ctx, patient.ID)
	s.Require().NoError(err)
	found.Consultations[0].Doctor = "mutated"
	found.PersonalInfo.FirstName = "mutated"

	again, err := s.store.FindByID(s.ctx, patient.ID)
	s.Require().NoError(err)
	s.Equal("Dr. A", again.Consultations[0].Doctor)
	s.Equal("Maria", again.PersonalInfo.FirstName)
}

func (s *PatientStoreSuite) TestUpdateNationalIDUniqueness() {
	first := s.newPatient("11144477735")
	second := s.newPatient("12345678909")
	s.Require().NoError(s.store.Create(s.ctx, first))
	s.Require().NoError(s.store.Create(s.ctx, second))

	taken := "11144477735"
	patch := Patch{Personal: &PersonalPatch{NationalID: &taken}}
	_, err := s.store.Update(s.ctx, second.ID, patch, s.now)
	s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)

	found, err := s.store.FindByID(s.ctx, second.ID)
	s.Require().NoError(err)
	s.Equal(domain.NationalID("12345678909"), found.PersonalInfo.NationalID, "conflicting update leaves record unchanged")
}

func (s *PatientStoreSuite) TestSearchFilters() {
	maria := s.newPatient("11144477735")
	joao := s.newPatient("12345678909")
	joao.PersonalInfo.FirstName = "Joao"
	joao.PersonalInfo.LastName = "Santos"
	joao.PersonalInfo.Gender = domain.GenderMale
	joao.PersonalInfo.BirthDate = time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC)
	joao.MedicalInfo.BloodType = domain.BloodType("O+")
	s.Require().NoError(s.store.Create(s.ctx, maria))
	s.Require().NoError(s.store.Create(s.ctx, joao))

	s.Run("gender", func() {
		g := domain.GenderMale
		patients, err := s.store.Search(s.ctx, Filter{Gender: &g}, s.now)
		s.Require().NoError(err)
		s.Require().Len(patients, 1)
		s.Equal("Joao", patients[0].PersonalInfo.FirstName)
	})

	s.Run("derived age bounds", func() {
		min, max := 30, 40
		patients, err := s.store.Search(s.ctx, Filter{AgeMin: &min, AgeMax: &max}, s.now)
		s.Require().NoError(err)
		s.Require().Len(patients, 1)
		s.Equal("Maria", patients[0].PersonalInfo.FirstName)
	})

	s.Run("blood type", func() {
		bt := domain.BloodType("O+")
		patients, err := s.store.Search(s.ctx, Filter{BloodType: &bt}, s.now)
		s.Require().NoError(err)
		s.Require().Len(patients, 1)
		s.Equal("Joao", patients[0].PersonalInfo.FirstName)
	})

	s.Run("name substring, case-insensitive", func() {
		patients, err := s.store.Search(s.ctx, Filter{Search: "SANT"}, s.now)
		s.Require().NoError(err)
		s.Require().Len(patients, 1)
		s.Equal("Santos", patients[0].PersonalInfo.LastName)
	})

	s.Run("insertion order preserved", func() {
		patients, err := s.store.Search(s.ctx, Filter{}, s.now)
		s.Require().NoError(err)
		s.Require().Len(patients, 2)
		s.Equal("Maria", patients[0].PersonalInfo.FirstName)
		s.Equal("Joao", patients[1].PersonalInfo.FirstName)
	})
}
