package sentinel

import "errors"

// Sentinel errors for store-level facts. In-memory stores return these
// (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states about records, not validation failures:
// - ErrNotFound: record does not exist, or is soft-deleted and thus invisible
// - ErrAlreadyUsed: unique field (email, national ID) taken by an active record
// - ErrInvalidState: record in wrong state for the requested mutation
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrAlreadyUsed  = errors.New("already used")
	ErrInvalidState = errors.New("invalid state")
)
