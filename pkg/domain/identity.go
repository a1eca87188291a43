package domain

// Identity is the already-authenticated caller context handed to every
// authorization check. It is supplied by the identity provider (JWT
// middleware in the HTTP layer, constructed directly in tests) and is
// never mutated by the evaluator.
type Identity struct {
	// UserID is the acting principal. Empty for unauthenticated callers,
	// which the audit log records as a null userId.
	UserID string

	// Permissions is the caller's current role-permission set,
	// e.g. "patients:view", "secrets:write".
	Permissions []string

	// Superuser marks the distinguished root role. Superusers bypass
	// both the role check and the vault capability check.
	Superuser bool
}

// IsAnonymous reports whether the identity carries no principal.
func (i Identity) IsAnonymous() bool {
	return i.UserID == ""
}

// HasPermission reports whether the permission is present in the
// caller's set. Superuser status is deliberately not consulted here;
// the evaluator handles the bypass before any membership test.
func (i Identity) HasPermission(permission string) bool {
	for _, p := range i.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}
