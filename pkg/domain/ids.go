// Package domain holds shared domain primitives: typed identifiers and actor
// roles. Typed IDs prevent cross-entity assignment at compile time; Parse*
// constructors enforce validity at trust boundaries.
package domain

import (
	"github.com/google/uuid"

	dErrors "github.com/Mutawai/ThiQaX-sub002/pkg/domain-errors"
)

// Typed entity identifiers. Construct via Parse* at boundaries; direct casting
// bypasses validation.
type (
	UserID        uuid.UUID
	DocumentID    uuid.UUID
	ApplicationID uuid.UUID
	JobID         uuid.UUID
)

func parseUUID(s, kind string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s id cannot be empty", kind)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "invalid %s id", kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s id cannot be nil", kind)
	}
	return u, nil
}

// ParseUserID validates and returns a UserID.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user")
	return UserID(u), err
}

// ParseDocumentID validates and returns a DocumentID.
func ParseDocumentID(s string) (DocumentID, error) {
	u, err := parseUUID(s, "document")
	return DocumentID(u), err
}

// ParseApplicationID validates and returns an ApplicationID.
func ParseApplicationID(s string) (ApplicationID, error) {
	u, err := parseUUID(s, "application")
	return ApplicationID(u), err
}

// ParseJobID validates and returns a JobID.
func ParseJobID(s string) (JobID, error) {
	u, err := parseUUID(s, "job")
	return JobID(u), err
}

func (id UserID) String() string        { return uuid.UUID(id).String() }
func (id DocumentID) String() string    { return uuid.UUID(id).String() }
func (id ApplicationID) String() string { return uuid.UUID(id).String() }
func (id JobID) String() string         { return uuid.UUID(id).String() }

// Named types do not inherit uuid.UUID's marshaling, so the IDs implement
// encoding.TextMarshaler themselves to serialize as canonical UUID strings.
func (id UserID) MarshalText() ([]byte, error)        { return []byte(id.String()), nil }
func (id DocumentID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }
func (id ApplicationID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id JobID) MarshalText() ([]byte, error)         { return []byte(id.String()), nil }

func (id *UserID) UnmarshalText(b []byte) error {
	parsed, err := ParseUserID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *DocumentID) UnmarshalText(b []byte) error {
	parsed, err := ParseDocumentID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *ApplicationID) UnmarshalText(b []byte) error {
	parsed, err := ParseApplicationID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *JobID) UnmarshalText(b []byte) error {
	parsed, err := ParseJobID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id UserID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id DocumentID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id ApplicationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id JobID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }

// NewUserID generates a fresh UserID.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewDocumentID generates a fresh DocumentID.
func NewDocumentID() DocumentID { return DocumentID(uuid.New()) }

// NewApplicationID generates a fresh ApplicationID.
func NewApplicationID() ApplicationID { return ApplicationID(uuid.New()) }

// NewJobID generates a fresh JobID.
func NewJobID() JobID { return JobID(uuid.New()) }
