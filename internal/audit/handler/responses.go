package handler

import (
	"time"

	"caregate/internal/audit"
)

// EntryResponse is the wire shape of one audit entry.
type EntryResponse struct {
	ID         string       `json:"id"`
	Timestamp  time.Time    `json:"timestamp"`
	UserID     string       `json:"user_id,omitempty"`
	Action     string       `json:"action"`
	Resource   string       `json:"resource"`
	ResourceID string       `json:"resource_id,omitempty"`
	Details    audit.Record `json:"details,omitempty"`
	Masked     bool         `json:"masked"`
}

// EntriesResponse is the HTTP response for entry listings.
type EntriesResponse struct {
	Entries []EntryResponse `json:"entries"`
	Count   int             `json:"count"`
}

// SweepResponse is the HTTP response for POST /audit/retention/sweep.
type SweepResponse struct {
	Removed int `json:"removed"`
}

// FromEntry converts a domain entry to its wire shape.
func FromEntry(entry audit.Entry) EntryResponse {
	return EntryResponse{
		ID:         entry.ID.String(),
		Timestamp:  entry.Timestamp,
		UserID:     entry.UserID,
		Action:     entry.Action,
		Resource:   entry.Resource,
		ResourceID: entry.ResourceID,
		Details:    entry.Details,
		Masked:     entry.Masked,
	}
}

// FromEntries converts a listing. The entries slice is always present
// in the response, even when empty.
func FromEntries(entries []audit.Entry) EntriesResponse {
	out := EntriesResponse{
		Entries: make([]EntryResponse, 0, len(entries)),
		Count:   len(entries),
	}
	for _, entry := range entries {
		out.Entries = append(out.Entries, FromEntry(entry))
	}
	return out
}
