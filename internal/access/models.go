// Package access evaluates authorization requests by merging the
// caller's role-permission set with capability checks against the
// external secrets-vault ACL, logging every denial to the audit log.
package access

import (
	"time"

	"caregate/internal/access/acl"
	dErrors "caregate/pkg/domain-errors"
	id "caregate/pkg/domain"
)

// Mode selects how a required-permission list combines.
type Mode string

const (
	// ModeAll grants only when every required permission is held.
	ModeAll Mode = "all"
	// ModeAny grants when at least one required permission is held.
	ModeAny Mode = "any"
)

// ParseMode validates a wire mode string. Unknown modes are a
// validation error, never silently defaulted.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAll:
		return ModeAll, nil
	case ModeAny:
		return ModeAny, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "mode must be \"all\" or \"any\"")
	}
}

// Capability is the access level a permission requires at a vault path.
// It is the evaluator-side vocabulary; the ACL service answers in
// granted tokens (acl.Token), and Satisfies maps between the two.
type Capability string

const (
	CapabilityRead   Capability = "read"
	CapabilityWrite  Capability = "write"
	CapabilityDelete Capability = "delete"
	CapabilityList   Capability = "list"
)

// ParseCapability validates a wire capability string. The empty string
// is accepted and defaults to read, matching the evaluator contract.
func ParseCapability(s string) (Capability, error) {
	switch Capability(s) {
	case "":
		return CapabilityRead, nil
	case CapabilityRead, CapabilityWrite, CapabilityDelete, CapabilityList:
		return Capability(s), nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "capability must be read, write, delete, or list")
	}
}

// Satisfies reports whether the granted token set covers this
// capability. An explicit deny overrides everything; root satisfies
// everything else; write is covered by either create or update.
func (c Capability) Satisfies(granted acl.TokenSet) bool {
	if granted.Denied() {
		return false
	}
	if granted.Has(acl.TokenRoot) {
		return true
	}
	switch c {
	case CapabilityRead:
		return granted.Has(acl.TokenRead)
	case CapabilityWrite:
		return granted.Has(acl.TokenCreate) || granted.Has(acl.TokenUpdate)
	case CapabilityDelete:
		return granted.Has(acl.TokenDelete)
	case CapabilityList:
		return granted.Has(acl.TokenList)
	default:
		return false
	}
}

// Reason classifies why a decision came out the way it did, for
// observability. It distinguishes states that all surface as
// granted=false: a failed role check, an absent capability, an explicit
// policy denial, and an unreachable ACL service (fail-closed).
type Reason string

const (
	ReasonRoleDenied        Reason = "role_denied"
	ReasonVaultDenied       Reason = "vault_denied"
	ReasonVaultExplicitDeny Reason = "vault_explicit_deny"
	ReasonVaultUnavailable  Reason = "vault_unavailable"
	ReasonSuperuser         Reason = "superuser"
)

// Request describes one authorization check.
type Request struct {
	// Caller is the already-authenticated principal context.
	Caller id.Identity

	// Required is the non-empty list of permission identifiers to test.
	Required []string

	// Mode combines Required under all/any semantics.
	Mode Mode

	// Resource and ResourceID name what the caller is trying to touch.
	// Denials are audited only when Resource is set.
	Resource   string
	ResourceID string

	// VaultPath, when set, bypasses the capability resolver and checks
	// exactly this path.
	VaultPath string

	// Capability is the access level to check at an override path, and
	// overrides the resolver-implied capability when set. Empty means
	// read.
	Capability Capability
}

// Decision is the outcome of one evaluation. Decisions are ephemeral:
// they are computed fresh on every request and never cached, because
// the external capability set can change between calls.
type Decision struct {
	// Granted is RoleGranted AND VaultGranted.
	Granted bool

	// RoleGranted is the role-permission half of the decision.
	RoleGranted bool

	// VaultPath is the ACL path this check consulted: the first failing
	// path when the vault half denied, otherwise the first path checked.
	// Empty when no capability check applied.
	VaultPath string

	// VaultGranted is the capability half of the decision; true when no
	// vault path applied to this check.
	VaultGranted bool

	// VaultCapability is the capability tested at VaultPath.
	VaultCapability Capability

	// Reason is set on denials (and on superuser bypasses) for
	// observability.
	Reason Reason

	EvaluatedAt time.Time
}
