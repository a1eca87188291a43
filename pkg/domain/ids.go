// Package domain holds the identifier and identity types shared across
// modules. IDs are strongly typed wrappers over UUIDs so a misrouted
// identifier fails at compile time instead of at query time.
package domain

import (
	"github.com/google/uuid"

	dErrors "caregate/pkg/domain-errors"
)

// EntryID identifies a single audit log entry. IDs are generated at
// append time and never reused.
type EntryID uuid.UUID

// NewEntryID returns a fresh random entry ID.
func NewEntryID() EntryID {
	return EntryID(uuid.New())
}

// ParseEntryID parses and validates an entry ID from its string form.
// IDs must be valid, non-empty, non-nil UUIDs.
func ParseEntryID(s string) (EntryID, error) {
	if s == "" {
		return EntryID{}, dErrors.New(dErrors.CodeInvalidInput, "entry id cannot be empty")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return EntryID{}, dErrors.New(dErrors.CodeInvalidInput, "entry id is not a valid UUID")
	}
	if parsed == uuid.Nil {
		return EntryID{}, dErrors.New(dErrors.CodeInvalidInput, "entry id cannot be the nil UUID")
	}
	return EntryID(parsed), nil
}

func (i EntryID) String() string {
	return uuid.UUID(i).String()
}

// IsNil reports whether the ID is the zero UUID.
func (i EntryID) IsNil() bool {
	return uuid.UUID(i) == uuid.Nil
}

// MarshalText implements encoding.TextMarshaler so entry IDs render as
// canonical UUID strings in JSON.
func (i EntryID) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *EntryID) UnmarshalText(text []byte) error {
	parsed, err := ParseEntryID(string(text))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}
