package handler

import (
	"encoding/json"
	"strings"

	"caregate/internal/audit"
	dErrors "caregate/pkg/domain-errors"
)

// AppendRequest is the HTTP request body for POST /audit/entries.
type AppendRequest struct {
	Action     string          `json:"action"`
	Resource   string          `json:"resource"`
	ResourceID string          `json:"resource_id"`
	Details    json.RawMessage `json:"details"`

	// Parsed values (populated by Validate)
	parsedDetails audit.Record
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *AppendRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.Action = strings.TrimSpace(r.Action)
	if r.Action == "" {
		return dErrors.New(dErrors.CodeValidation, "action is required")
	}
	if len(r.Action) > 64 {
		return dErrors.New(dErrors.CodeValidation, "action must be at most 64 characters")
	}

	r.Resource = strings.TrimSpace(r.Resource)
	if r.Resource == "" {
		return dErrors.New(dErrors.CodeValidation, "resource is required")
	}

	if len(r.Details) > 0 {
		var details audit.Record
		if err := json.Unmarshal(r.Details, &details); err != nil {
			return dErrors.New(dErrors.CodeValidation, "details must be a JSON object of scalar, object, or array values")
		}
		r.parsedDetails = details
	}

	return nil
}

// ParsedDetails returns the validated details record.
func (r *AppendRequest) ParsedDetails() audit.Record {
	return r.parsedDetails
}
