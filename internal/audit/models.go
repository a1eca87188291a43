package audit

import (
	"time"

	id "caregate/pkg/domain"
)

// Action verbs recorded on audit entries. Free-form verbs are accepted;
// these cover the portal's common cases.
const (
	ActionAccess = "access"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionCancel = "cancel"
)

// Entry is one immutable record in the audit log. Once appended, ID,
// Timestamp, and Action never change; amendments are new entries.
type Entry struct {
	ID         id.EntryID `json:"id"`
	Timestamp  time.Time  `json:"timestamp"`
	UserID     string     `json:"userId,omitempty"`
	Action     string     `json:"action"`
	Resource   string     `json:"resource"`
	ResourceID string     `json:"resourceId,omitempty"`
	Details    Record     `json:"details,omitempty"`

	// Masked records whether Details was redacted when the entry was
	// written. It is a provenance marker, not a present-tense guarantee:
	// entries written while masking was disabled stay Masked=false
	// forever.
	Masked bool `json:"masked"`
}

// clone returns a copy safe to hand outside the log's lock.
func (e Entry) clone() Entry {
	out := e
	out.Details = e.Details.Clone()
	return out
}

// NewEntry is the caller-supplied part of an entry. ID, Timestamp, and
// Masked are always system-assigned at append time.
type NewEntry struct {
	UserID     string
	Action     string
	Resource   string
	ResourceID string
	Details    Record
}
