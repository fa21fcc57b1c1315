// Package handler is the thin HTTP adapter for the patient domain. Search is
// exposed twice, as GET with query parameters and as POST with a body, the
// latter keeping sensitive criteria out of server logs.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"recordhub/internal/medical"
	"recordhub/internal/transport/http/shared"
	"recordhub/pkg/domain"
	dErrors "recordhub/pkg/domain-errors"
	"recordhub/pkg/requestcontext"
)

// Service defines the patient operations the handler depends on.
type Service interface {
	Register(ctx context.Context, in medical.RegisterInput) (*medical.PatientView, error)
	Get(ctx context.Context, id domain.PatientID) (*medical.PatientView, error)
	GetByNationalID(ctx context.Context, raw string) (*medical.PatientView, error)
	Update(ctx context.Context, id domain.PatientID, patch medical.Patch) (*medical.PatientView, error)
	Delete(ctx context.Context, id domain.PatientID) (*medical.PatientView, error)
	AddConsultation(ctx context.Context, id domain.PatientID, in medical.ConsultationInput) (*medical.Consultation, error)
	History(ctx context.Context, id domain.PatientID) (*medical.HistoryView, error)
	Search(ctx context.Context, filter medical.Filter) ([]*medical.PatientView, error)
}

type Handler struct {
	logger   *slog.Logger
	patients Service
}

func New(patients Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, patients: patients}
}

// Register mounts the patient routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/patients", h.handleSearchGet)
	r.Post("/api/patients", h.handleRegister)
	r.Post("/api/patients/search", h.handleSearchPost)
	r.Get("/api/patients/national-id/{nationalID}", h.handleGetByNationalID)
	r.Get("/api/patients/{id}", h.handleGet)
	r.Put("/api/patients/{id}", h.handleUpdate)
	r.Delete("/api/patients/{id}", h.handleDelete)
	r.Post("/api/patients/{id}/consultations", h.handleAddConsultation)
	r.Get("/api/patients/{id}/history", h.handleHistory)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in medical.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	view, err := h.patients.Register(r.Context(), in)
	if err != nil {
		h.logError(r, "register patient failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, view)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParsePatientID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	view, err := h.patients.Get(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleGetByNationalID(w http.ResponseWriter, r *http.Request) {
	view, err := h.patients.GetByNationalID(r.Context(), chi.URLParam(r, "nationalID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParsePatientID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var patch medical.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	view, err := h.patients.Update(r.Context(), id, patch)
	if err != nil {
		h.logError(r, "update patient failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParsePatientID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if _, err := h.patients.Delete(r.Context(), id); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"message": "patient removed"})
}

func (h *Handler) handleAddConsultation(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParsePatientID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var in medical.ConsultationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	consultation, err := h.patients.AddConsultation(r.Context(), id, in)
	if err != nil {
		h.logError(r, "add consultation failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, consultation)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParsePatientID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	view, err := h.patients.History(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleSearchGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	criteria := searchCriteria{
		Status:    q.Get("status"),
		Gender:    q.Get("gender"),
		BloodType: q.Get("blood_type"),
		AgeMin:    q.Get("age_min"),
		AgeMax:    q.Get("age_max"),
		Search:    q.Get("search"),
	}
	h.search(w, r, criteria)
}

func (h *Handler) handleSearchPost(w http.ResponseWriter, r *http.Request) {
	var criteria searchCriteria
	if err := json.NewDecoder(r.Body).Decode(&criteria); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	h.search(w, r, criteria)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request, criteria searchCriteria) {
	filter, err := criteria.toFilter()
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	views, err := h.patients.Search(r.Context(), filter)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteList(w, views, len(views))
}

// searchCriteria is the untyped wire form of a patient filter. Everything is
// a string; toFilter is the single place where criteria are parsed and
// malformed values rejected.
type searchCriteria struct {
	Status    string `json:"status"`
	Gender    string `json:"gender"`
	BloodType string `json:"blood_type"`
	AgeMin    string `json:"age_min"`
	AgeMax    string `json:"age_max"`
	Search    string `json:"search"`
}

func (c searchCriteria) toFilter() (medical.Filter, error) {
	var filter medical.Filter
	if c.Status != "" {
		status := medical.Status(c.Status)
		if status != medical.StatusActive && status != medical.StatusDeleted {
			return filter, dErrors.New(dErrors.CodeBadRequest, "status must be active or deleted")
		}
		filter.Status = &status
	}
	if c.Gender != "" {
		gender, err := domain.ParseGender(c.Gender)
		if err != nil {
			return filter, dErrors.New(dErrors.CodeBadRequest, "invalid gender criterion")
		}
		filter.Gender = &gender
	}
	if c.BloodType != "" {
		bloodType, err := domain.ParseBloodType(c.BloodType)
		if err != nil {
			return filter, dErrors.New(dErrors.CodeBadRequest, "invalid blood type criterion")
		}
		filter.BloodType = &bloodType
	}
	if c.AgeMin != "" {
		v, err := strconv.Atoi(c.AgeMin)
		if err != nil {
			return filter, dErrors.New(dErrors.CodeBadRequest, "age_min must be a number")
		}
		filter.AgeMin = &v
	}
	if c.AgeMax != "" {
		v, err := strconv.Atoi(c.AgeMax)
		if err != nil {
			return filter, dErrors.New(dErrors.CodeBadRequest, "age_max must be a number")
		}
		filter.AgeMax = &v
	}
	filter.Search = c.Search
	return filter, nil
}

func (h *Handler) logError(r *http.Request, msg string, err error) {
	h.logger.WarnContext(r.Context(), msg,
		"request_id", requestcontext.RequestID(r.Context()),
		"error", err.Error(),
	)
}
