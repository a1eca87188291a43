package access

// Requirement is what a permission demands from the secrets vault: a
// capability at a path. Permissions with no requirement are decided by
// the role check alone.
type Requirement struct {
	Path       string
	Capability Capability
}

// Resolver maps permission identifiers to their vault requirements.
// The mapping is static configuration: it never consults the ACL
// service and never errors.
type Resolver struct {
	rules map[string]Requirement
}

// defaultRules covers the portal's built-in permission vocabulary.
// Permissions absent from the map (appointment scheduling, messaging,
// and other non-secret surfaces) carry no vault requirement.
func defaultRules() map[string]Requirement {
	return map[string]Requirement{
		"secrets:read":      {Path: "secret/data/portal", Capability: CapabilityRead},
		"secrets:write":     {Path: "secret/data/portal", Capability: CapabilityWrite},
		"secrets:delete":    {Path: "secret/data/portal", Capability: CapabilityDelete},
		"secrets:list":      {Path: "secret/metadata/portal", Capability: CapabilityList},
		"records:export":    {Path: "secret/data/ehr/export-keys", Capability: CapabilityRead},
		"encryption:rotate": {Path: "sys/encryption/keys", Capability: CapabilityWrite},
	}
}

// NewResolver builds a resolver with the built-in permission mapping.
func NewResolver() *Resolver {
	return &Resolver{rules: defaultRules()}
}

// NewResolverFromRules builds a resolver from an externally loaded
// mapping (policy file). The built-in mapping applies underneath;
// loaded rules override it per permission.
func NewResolverFromRules(rules map[string]Requirement) *Resolver {
	merged := defaultRules()
	for permission, req := range rules {
		merged[permission] = req
	}
	return &Resolver{rules: merged}
}

// Resolve returns the vault requirement for a permission, and whether
// one exists.
func (r *Resolver) Resolve(permission string) (Requirement, bool) {
	req, ok := r.rules[permission]
	return req, ok
}

// RequiresCapabilityCheck reports whether the permission carries a
// vault requirement.
func (r *Resolver) RequiresCapabilityCheck(permission string) bool {
	_, ok := r.rules[permission]
	return ok
}
