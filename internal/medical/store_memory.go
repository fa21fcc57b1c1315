package medical

import (
	"context"
	"sync"
	"time"

	"recordhub/pkg/domain"
	"recordhub/pkg/platform/sentinel"
)

// InMemoryStore holds the patient collection. The medical domain's deletion
// policy is soft delete: records are marked deleted and retained, never
// removed, and every read path excludes them. Consultations live inside
// their parent, so the child append and the parent timestamp refresh commit
// under one lock acquisition.
type InMemoryStore struct {
	mu       sync.RWMutex
	patients map[domain.PatientID]*Patient
	order    []domain.PatientID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{patients: make(map[domain.PatientID]*Patient)}
}

// Create stores the patient if its national ID is not taken by an active
// patient. Soft-deleted records do not block reuse.
func (s *InMemoryStore) Create(_ context.Context, patient *Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.patients {
		if existing.IsActive() && existing.PersonalInfo.NationalID == patient.PersonalInfo.NationalID {
			return sentinel.ErrAlreadyUsed
		}
	}
	s.patients[patient.ID] = patient
	s.order = append(s.order, patient.ID)
	return nil
}

// FindByID returns the patient if present and active.
func (s *InMemoryStore) FindByID(_ context.Context, id domain.PatientID) (*Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.patients[id]
	if !ok || !p.IsActive() {
		return nil, sentinel.ErrNotFound
	}
	return clonePatient(p), nil
}

// FindByNationalID returns the active patient holding the given national ID.
func (s *InMemoryStore) FindByNationalID(_ context.Context, nationalID domain.NationalID) (*Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		p := s.patients[id]
		if p.IsActive() && p.PersonalInfo.NationalID == nationalID {
			return clonePatient(p), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// Update merges a pre-validated patch under the lock. When the patch changes
// the national ID, uniqueness against other active patients is re-checked
// first; nothing changes on conflict.
func (s *InMemoryStore) Update(_ context.Context, id domain.PatientID, patch Patch, now time.Time) (*Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.patients[id]
	if !ok || !p.IsActive() {
		return nil, sentinel.ErrNotFound
	}
	if nationalID, changed := patch.nationalID(); changed {
		for otherID, other := range s.patients {
			if otherID != id && other.IsActive() && other.PersonalInfo.NationalID == nationalID {
				return nil, sentinel.ErrAlreadyUsed
			}
		}
	}
	patch.apply(p, now)
	return clonePatient(p), nil
}

// SoftDelete marks the patient deleted and stamps DeletedAt. The record is
// retained. Returns the pre-deletion snapshot.
func (s *InMemoryStore) SoftDelete(_ context.Context, id domain.PatientID, now time.Time) (*Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.patients[id]
	if !ok || !p.IsActive() {
		return nil, sentinel.ErrNotFound
	}
	snapshot := clonePatient(p)
	p.Status = StatusDeleted
	p.DeletedAt = &now
	return snapshot, nil
}

// AddConsultation appends the child to the parent's embedded list and
// refreshes the parent's UpdatedAt in one critical section: both apply or
// neither does.
func (s *InMemoryStore) AddConsultation(_ context.Context, id domain.PatientID, c *Consultation, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.patients[id]
	if !ok || !p.IsActive() {
		return sentinel.ErrNotFound
	}
	p.Consultations = append(p.Consultations, *c)
	p.UpdatedAt = now
	return nil
}

// Search returns active patients matching the filter in insertion order.
// asOf anchors the derived-age predicates.
func (s *InMemoryStore) Search(_ context.Context, filter Filter, asOf time.Time) ([]*Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Patient
	for _, id := range s.order {
		p := s.patients[id]
		if !p.IsActive() {
			continue
		}
		if !filter.matches(p, asOf) {
			continue
		}
		out = append(out, clonePatient(p))
	}
	return out, nil
}

// ActiveCount reports the number of active patients for the health endpoint.
func (s *InMemoryStore) ActiveCount(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, p := range s.patients {
		if p.IsActive() {
			n++
		}
	}
	return n
}

// clonePatient deep-copies the consultations slice so callers can never
// mutate stored state through a returned record.
func clonePatient(p *Patient) *Patient {
	copied := *p
	copied.Consultations = append([]Consultation{}, p.Consultations...)
	return &copied
}
