// Package domainerrors defines the code-tagged error type shared by all domain
// services. Stores return sentinel errors (pkg/platform/sentinel); services
// translate them into these coded errors; the HTTP layer maps codes to status
// codes. Nothing outside the transport layer should inspect HTTP status.
package domainerrors

import (
	"errors"
	"fmt"
	"strings"
)

// Code classifies a domain error for transport mapping and caller branching.
type Code string

const (
	// CodeValidation marks input that failed one or more field-level rules.
	// Errors with this code carry the full violation list.
	CodeValidation Code = "validation_failed"
	// CodeBadRequest marks requests that are malformed before any domain rule
	// runs (unparsable body, negative filter bound, bad ID format).
	CodeBadRequest Code = "bad_request"
	// CodeInvalidInput marks a single value rejected at a trust boundary.
	CodeInvalidInput Code = "invalid_input"
	// CodeNotFound marks a referenced record that is absent or soft-deleted.
	CodeNotFound Code = "not_found"
	// CodeConflict marks a uniqueness constraint violation.
	CodeConflict Code = "conflict"
	// CodeInvariantViolation marks an illegal state transition.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeInternal marks unexpected failures; details stay server-side.
	CodeInternal Code = "internal"
)

// Violation names one broken field-level rule. Validation errors collect every
// violation found so a caller can fix all problems in one round-trip.
type Violation struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

func (v Violation) String() string {
	return v.Field + ": " + v.Rule
}

// Error is the domain error type. Construct via New, Wrap or NewValidation.
type Error struct {
	Code       Code
	Message    string
	Violations []Violation
	cause      error
}

func (e *Error) Error() string {
	if len(e.Violations) == 0 {
		return e.Message
	}
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return e.Message + ": " + strings.Join(parts, "; ")
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a coded domain error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded domain error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error, preserving the
// cause for errors.Is / errors.As chains.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// NewValidation creates a CodeValidation error carrying every violation found.
// Returns nil when the list is empty so callers can write
// `return dErrors.NewValidation(violations...)` unconditionally.
func NewValidation(violations ...Violation) error {
	if len(violations) == 0 {
		return nil
	}
	return &Error{
		Code:       CodeValidation,
		Message:    "validation failed",
		Violations: violations,
	}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is an alias of HasCode kept for call-site readability:
// dErrors.Is(err, dErrors.CodeNotFound).
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// ViolationsOf extracts the violation list from a validation error.
// Returns nil for non-domain errors or errors without violations.
func ViolationsOf(err error) []Violation {
	var de *Error
	if errors.As(err, &de) {
		return de.Violations
	}
	return nil
}
