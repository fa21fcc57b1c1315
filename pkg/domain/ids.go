// Package domain holds the shared value types of the record service: typed
// record identifiers, closed enums, the national-ID check-digit algorithm and
// the derived-age calculation. Values are constructed via Parse* functions at
// trust boundaries; direct casting bypasses validation.
package domain

import (
	"github.com/google/uuid"

	dErrors "recordhub/pkg/domain-errors"
)

// Typed record identifiers. Distinct types make cross-entity assignment a
// compile error: a CommentID can never be passed where a PostID is expected.
//
// Invariant: IDs are valid, non-nil UUIDs. Once assigned they are never
// reused, even after the record is deleted.
type (
	ItemID         uuid.UUID
	UserID         uuid.UUID
	PostID         uuid.UUID
	CommentID      uuid.UUID
	PatientID      uuid.UUID
	ConsultationID uuid.UUID
)

// New*ID mint fresh identifiers for newly created records.

func NewItemID() ItemID                 { return ItemID(uuid.New()) }
func NewUserID() UserID                 { return UserID(uuid.New()) }
func NewPostID() PostID                 { return PostID(uuid.New()) }
func NewCommentID() CommentID           { return CommentID(uuid.New()) }
func NewPatientID() PatientID           { return PatientID(uuid.New()) }
func NewConsultationID() ConsultationID { return ConsultationID(uuid.New()) }

func (id ItemID) String() string         { return uuid.UUID(id).String() }
func (id UserID) String() string         { return uuid.UUID(id).String() }
func (id PostID) String() string         { return uuid.UUID(id).String() }
func (id CommentID) String() string      { return uuid.UUID(id).String() }
func (id PatientID) String() string      { return uuid.UUID(id).String() }
func (id ConsultationID) String() string { return uuid.UUID(id).String() }

func (id ItemID) IsZero() bool         { return uuid.UUID(id) == uuid.Nil }
func (id UserID) IsZero() bool         { return uuid.UUID(id) == uuid.Nil }
func (id PostID) IsZero() bool         { return uuid.UUID(id) == uuid.Nil }
func (id CommentID) IsZero() bool      { return uuid.UUID(id) == uuid.Nil }
func (id PatientID) IsZero() bool      { return uuid.UUID(id) == uuid.Nil }
func (id ConsultationID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText/UnmarshalText let typed IDs round-trip through JSON as their
// canonical UUID string form.

func (id ItemID) MarshalText() ([]byte, error)         { return marshalID(uuid.UUID(id)) }
func (id UserID) MarshalText() ([]byte, error)         { return marshalID(uuid.UUID(id)) }
func (id PostID) MarshalText() ([]byte, error)         { return marshalID(uuid.UUID(id)) }
func (id CommentID) MarshalText() ([]byte, error)      { return marshalID(uuid.UUID(id)) }
func (id PatientID) MarshalText() ([]byte, error)      { return marshalID(uuid.UUID(id)) }
func (id ConsultationID) MarshalText() ([]byte, error) { return marshalID(uuid.UUID(id)) }

func (id *ItemID) UnmarshalText(b []byte) error {
	u, err := parseUUID(string(b))
	*id = ItemID(u)
	return err
}

func (id *UserID) UnmarshalText(b []byte) error {
	u, err := parseUUID(string(b))
	*id = UserID(u)
	return err
}

func (id *PostID) UnmarshalText(b []byte) error {
	u, err := parseUUID(string(b))
	*id = PostID(u)
	return err
}

func (id *CommentID) UnmarshalText(b []byte) error {
	u, err := parseUUID(string(b))
	*id = CommentID(u)
	return err
}

func (id *PatientID) UnmarshalText(b []byte) error {
	u, err := parseUUID(string(b))
	*id = PatientID(u)
	return err
}

func (id *ConsultationID) UnmarshalText(b []byte) error {
	u, err := parseUUID(string(b))
	*id = ConsultationID(u)
	return err
}

// Parse*ID construct typed IDs from external input.
//
// Errors: CodeInvalidInput when the value is empty, not a UUID, or the nil
// UUID; no other errors are expected.

func ParseItemID(s string) (ItemID, error) {
	u, err := parseUUID(s)
	return ItemID(u), err
}

func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s)
	return UserID(u), err
}

func ParsePostID(s string) (PostID, error) {
	u, err := parseUUID(s)
	return PostID(u), err
}

func ParseCommentID(s string) (CommentID, error) {
	u, err := parseUUID(s)
	return CommentID(u), err
}

func ParsePatientID(s string) (PatientID, error) {
	u, err := parseUUID(s)
	return PatientID(u), err
}

func ParseConsultationID(s string) (ConsultationID, error) {
	u, err := parseUUID(s)
	return ConsultationID(u), err
}

func marshalID(u uuid.UUID) ([]byte, error) {
	return []byte(u.String()), nil
}

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be the nil UUID")
	}
	return u, nil
}
