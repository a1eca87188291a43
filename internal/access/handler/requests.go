package handler

import (
	"strings"

	"caregate/internal/access"
	dErrors "caregate/pkg/domain-errors"
)

// EvaluateRequest is the HTTP request body for POST /access/evaluate.
type EvaluateRequest struct {
	RequiredPermissions []string `json:"required_permissions"`
	Mode                string   `json:"mode"`
	Resource            string   `json:"resource"`
	ResourceID          string   `json:"resource_id"`
	VaultPath           string   `json:"vault_path"`
	Capability          string   `json:"capability"`

	// Parsed values (populated by Validate)
	parsedMode       access.Mode
	parsedCapability access.Capability
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *EvaluateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	if len(r.RequiredPermissions) == 0 {
		return dErrors.New(dErrors.CodeValidation, "required_permissions must not be empty")
	}
	if len(r.RequiredPermissions) > 50 {
		return dErrors.New(dErrors.CodeValidation, "required_permissions must have at most 50 entries")
	}

	r.Mode = strings.TrimSpace(r.Mode)
	if r.Mode == "" {
		r.Mode = string(access.ModeAll)
	}
	mode, err := access.ParseMode(r.Mode)
	if err != nil {
		return err
	}
	r.parsedMode = mode

	capability, err := access.ParseCapability(strings.TrimSpace(r.Capability))
	if err != nil {
		return err
	}
	r.parsedCapability = capability

	return nil
}

// ParsedMode returns the validated mode.
func (r *EvaluateRequest) ParsedMode() access.Mode {
	return r.parsedMode
}

// ParsedCapability returns the validated capability. The empty wire
// value parses to read; the evaluator only applies it where a vault
// check exists.
func (r *EvaluateRequest) ParsedCapability() access.Capability {
	if r.Capability == "" {
		// Preserve "unset" so the evaluator falls back to the
		// resolver-implied capability instead of forcing read.
		return ""
	}
	return r.parsedCapability
}
