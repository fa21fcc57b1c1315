package medical

import (
	"context"
	"errors"
	"sort"
	"time"

	"recordhub/internal/platform/metrics"
	"recordhub/pkg/domain"
	dErrors "recordhub/pkg/domain-errors"
	"recordhub/pkg/platform/sentinel"
	"recordhub/pkg/requestcontext"
)

// Store is the persistence port for the patient domain.
type Store interface {
	Create(ctx context.Context, patient *Patient) error
	FindByID(ctx context.Context, id domain.PatientID) (*Patient, error)
	FindByNationalID(ctx context.Context, nationalID domain.NationalID) (*Patient, error)
	Update(ctx context.Context, id domain.PatientID, patch Patch, now time.Time) (*Patient, error)
	SoftDelete(ctx context.Context, id domain.PatientID, now time.Time) (*Patient, error)
	AddConsultation(ctx context.Context, id domain.PatientID, c *Consultation, now time.Time) error
	Search(ctx context.Context, filter Filter, asOf time.Time) ([]*Patient, error)
	ActiveCount(ctx context.Context) int
}

// PatientView is the read shape: the stored record plus the derived age,
// recomputed on every read so it can never drift from the birth date.
type PatientView struct {
	Patient
	Age int `json:"age"`
}

// HistoryView is the patient summary with consultations sorted by date, most
// recent first.
type HistoryView struct {
	Patient       HistorySummary `json:"patient"`
	Consultations []Consultation `json:"consultations"`
}

// HistorySummary carries the derived display fields of the history header.
type HistorySummary struct {
	ID        domain.PatientID `json:"id"`
	Name      string           `json:"name"`
	Age       int              `json:"age"`
	BloodType domain.BloodType `json:"blood_type,omitempty"`
}

// Service orchestrates the patient lifecycle.
type Service struct {
	store   Store
	metrics *metrics.Metrics
}

func NewService(store Store, m *metrics.Metrics) *Service {
	return &Service{store: store, metrics: m}
}

// Register validates the candidate and stores a new patient. All-or-nothing:
// any violation or a national-ID conflict leaves the collection unchanged.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*PatientView, error) {
	now := requestcontext.Now(ctx)
	patient, err := NewPatient(in, now)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordValidationFailure(metrics.DomainMedical)
		}
		return nil, err
	}
	if err := s.store.Create(ctx, patient); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "national id already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store patient")
	}
	if s.metrics != nil {
		s.metrics.RecordCreated(metrics.DomainMedical)
	}
	return s.view(patient, now), nil
}

func (s *Service) Get(ctx context.Context, id domain.PatientID) (*PatientView, error) {
	patient, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, wrapPatientErr(err)
	}
	return s.view(patient, requestcontext.Now(ctx)), nil
}

// GetByNationalID looks up the active patient holding the given national ID.
// A malformed national ID is a bad request, not an empty result.
func (s *Service) GetByNationalID(ctx context.Context, raw string) (*PatientView, error) {
	nationalID, err := domain.ParseNationalID(raw)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "invalid national id")
	}
	patient, err := s.store.FindByNationalID(ctx, nationalID)
	if err != nil {
		return nil, wrapPatientErr(err)
	}
	return s.view(patient, requestcontext.Now(ctx)), nil
}

// Update merges the supplied sections into the stored record. Only supplied
// fields are validated; the national-ID uniqueness re-check happens inside
// the store's critical section.
func (s *Service) Update(ctx context.Context, id domain.PatientID, patch Patch) (*PatientView, error) {
	now := requestcontext.Now(ctx)
	if err := patch.Validate(now); err != nil {
		if s.metrics != nil {
			s.metrics.RecordValidationFailure(metrics.DomainMedical)
		}
		return nil, err
	}
	patient, err := s.store.Update(ctx, id, patch, now)
	if err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "national id already registered")
		}
		return nil, wrapPatientErr(err)
	}
	return s.view(patient, now), nil
}

// Delete soft-deletes the patient: the record is retained for audit but
// disappears from every read path. Returns the pre-deletion snapshot.
func (s *Service) Delete(ctx context.Context, id domain.PatientID) (*PatientView, error) {
	now := requestcontext.Now(ctx)
	patient, err := s.store.SoftDelete(ctx, id, now)
	if err != nil {
		return nil, wrapPatientErr(err)
	}
	if s.metrics != nil {
		s.metrics.RecordDeleted(metrics.DomainMedical)
	}
	return s.view(patient, now), nil
}

// AddConsultation validates and appends a consultation to the patient's
// embedded collection, refreshing the parent's UpdatedAt atomically.
func (s *Service) AddConsultation(ctx context.Context, id domain.PatientID, in ConsultationInput) (*Consultation, error) {
	now := requestcontext.Now(ctx)
	consultation, err := NewConsultation(in, now)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordValidationFailure(metrics.DomainMedical)
		}
		return nil, err
	}
	if err := s.store.AddConsultation(ctx, id, consultation, now); err != nil {
		return nil, wrapPatientErr(err)
	}
	return consultation, nil
}

// History returns the patient summary and consultations sorted by date, most
// recent first.
func (s *Service) History(ctx context.Context, id domain.PatientID) (*HistoryView, error) {
	patient, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, wrapPatientErr(err)
	}
	consultations := append([]Consultation{}, patient.Consultations...)
	sort.SliceStable(consultations, func(i, j int) bool {
		return consultations[i].Date.After(consultations[j].Date)
	})
	return &HistoryView{
		Patient: HistorySummary{
			ID:        patient.ID,
			Name:      patient.FullName(),
			Age:       patient.AgeAt(requestcontext.Now(ctx)),
			BloodType: patient.MedicalInfo.BloodType,
		},
		Consultations: consultations,
	}, nil
}

// Search applies the filter over active patients in insertion order.
// Malformed criteria are rejected before filtering runs.
func (s *Service) Search(ctx context.Context, filter Filter) ([]*PatientView, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	now := requestcontext.Now(ctx)
	patients, err := s.store.Search(ctx, filter, now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to search patients")
	}
	if s.metrics != nil {
		s.metrics.ObserveSearch(metrics.DomainMedical, start)
	}
	views := make([]*PatientView, 0, len(patients))
	for _, p := range patients {
		views = append(views, s.view(p, now))
	}
	return views, nil
}

// ActiveCount reports the active patient count for the health endpoint.
func (s *Service) ActiveCount(ctx context.Context) int {
	return s.store.ActiveCount(ctx)
}

func (s *Service) view(p *Patient, asOf time.Time) *PatientView {
	return &PatientView{Patient: *p, Age: p.AgeAt(asOf)}
}

func wrapPatientErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "patient not found")
	}
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "patient operation failed")
}
