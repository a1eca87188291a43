package handler

import (
	"time"

	"caregate/internal/access"
)

// EvaluateResponse is the HTTP response for POST /access/evaluate.
type EvaluateResponse struct {
	Granted                bool      `json:"granted"`
	RolePermissionGranted  bool      `json:"role_permission_granted"`
	VaultPath              string    `json:"vault_path,omitempty"`
	VaultCapabilityGranted bool      `json:"vault_capability_granted"`
	VaultCapability        string    `json:"vault_capability,omitempty"`
	Reason                 string    `json:"reason,omitempty"`
	EvaluatedAt            time.Time `json:"evaluated_at"`
}

// FromDecision converts a domain decision to an HTTP response.
func FromDecision(decision access.Decision) *EvaluateResponse {
	return &EvaluateResponse{
		Granted:                decision.Granted,
		RolePermissionGranted:  decision.RoleGranted,
		VaultPath:              decision.VaultPath,
		VaultCapabilityGranted: decision.VaultGranted,
		VaultCapability:        string(decision.VaultCapability),
		Reason:                 string(decision.Reason),
		EvaluatedAt:            decision.EvaluatedAt,
	}
}
