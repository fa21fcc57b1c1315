// Package shared centralizes the JSON envelopes of the HTTP layer so every
// handler answers in the same shape and maps domain error codes to status
// codes in exactly one place.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "recordhub/pkg/domain-errors"
)

// Envelope is the common success shape: {"success": true, "data": ...} with
// an optional count for list responses.
type Envelope struct {
	Success bool   `json:"success"`
	Count   *int   `json:"count,omitempty"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorBody is the common failure shape. Violations is present only for
// validation failures and lists every broken rule.
type ErrorBody struct {
	Success    bool                `json:"success"`
	Error      string              `json:"error"`
	Message    string              `json:"message"`
	Violations []dErrors.Violation `json:"violations,omitempty"`
}

// WriteJSON writes a success envelope.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{Success: true, Data: data})
}

// WriteList writes a success envelope with a count, matching the list
// response shape.
func WriteList(w http.ResponseWriter, data any, count int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(Envelope{Success: true, Count: &count, Data: data})
}

// WriteError translates a domain error into an HTTP response. Non-domain
// errors become opaque 500s; details stay server-side.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeInternal
	message := "internal server error"
	var de *dErrors.Error
	if errors.As(err, &de) {
		code = de.Code
		message = de.Message
	}
	body := ErrorBody{
		Error:      string(code),
		Message:    message,
		Violations: dErrors.ViolationsOf(err),
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFor(code))
	_ = json.NewEncoder(w).Encode(body)
}

func statusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeValidation, dErrors.CodeBadRequest, dErrors.CodeInvalidInput:
		return http.StatusBadRequest
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict, dErrors.CodeInvariantViolation:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
