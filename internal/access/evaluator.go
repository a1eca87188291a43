package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"caregate/internal/access/acl"
	"caregate/internal/access/metrics"
	"caregate/internal/access/ports"
	"caregate/internal/audit"
	id "caregate/pkg/domain"
	dErrors "caregate/pkg/domain-errors"
	strutil "caregate/pkg/platform/strings"
)

// DefaultLookupTimeout bounds a single evaluation's capability lookups
// when the incoming context carries no deadline of its own.
const DefaultLookupTimeout = 5 * time.Second

// Evaluator combines the caller's role-permission set with capability
// checks against the external ACL service into one decision, and logs
// every denial that names a resource.
type Evaluator struct {
	resolver *Resolver
	acl      ports.Lookup
	sink     ports.AuditSink
	logger   *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time

	lookupTimeout time.Duration
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithAuditSink wires the audit log that receives denial entries.
func WithAuditSink(sink ports.AuditSink) Option {
	return func(e *Evaluator) {
		e.sink = sink
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		e.logger = logger
	}
}

// WithMetrics attaches decision metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Evaluator) {
		e.metrics = m
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Evaluator) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLookupTimeout overrides the default capability-lookup deadline.
func WithLookupTimeout(d time.Duration) Option {
	return func(e *Evaluator) {
		if d > 0 {
			e.lookupTimeout = d
		}
	}
}

// NewEvaluator builds an evaluator over the given permission mapping
// and capability-lookup service.
func NewEvaluator(resolver *Resolver, lookup ports.Lookup, opts ...Option) (*Evaluator, error) {
	if resolver == nil {
		return nil, errors.New("access: resolver is required")
	}
	if lookup == nil {
		return nil, errors.New("access: capability lookup is required")
	}

	e := &Evaluator{
		resolver:      resolver,
		acl:           lookup,
		now:           time.Now,
		lookupTimeout: DefaultLookupTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Evaluate runs one authorization check. Denial is a normal return
// value, never an error: Evaluate errors only on malformed input
// (empty permission list, unknown mode or capability), rejected before
// any capability lookup is made.
//
// Evaluations are stateless and never cached. Given a fixed caller
// permission set and a deterministic ACL response, repeated calls with
// the same arguments return the same decision.
func (e *Evaluator) Evaluate(ctx context.Context, req Request) (Decision, error) {
	required := strutil.DedupeAndTrim(req.Required)
	if len(required) == 0 {
		return Decision{}, dErrors.New(dErrors.CodeInvalidInput, "at least one required permission must be given")
	}

	mode := req.Mode
	if mode == "" {
		mode = ModeAll
	}
	if mode != ModeAll && mode != ModeAny {
		return Decision{}, dErrors.New(dErrors.CodeValidation, "mode must be \"all\" or \"any\"")
	}
	if _, err := ParseCapability(string(req.Capability)); err != nil {
		return Decision{}, err
	}

	evaluatedAt := e.now()

	// Superuser bypasses both halves. Checked before the role scan so
	// superusers need not enumerate every permission.
	if req.Caller.Superuser {
		decision := Decision{
			Granted:      true,
			RoleGranted:  true,
			VaultGranted: true,
			Reason:       ReasonSuperuser,
			EvaluatedAt:  evaluatedAt,
		}
		e.metrics.IncDecision(true)
		logAudit(ctx, e.logger, "access_granted",
			"user_id", req.Caller.UserID,
			"resource", req.Resource,
			"reason", string(ReasonSuperuser),
		)
		return decision, nil
	}

	roleGranted := rolesSatisfied(req.Caller, required, mode)

	requirements := e.collectRequirements(req, required)

	vaultGranted := true
	var failed Requirement
	var vaultReason Reason
	if len(requirements) > 0 {
		vaultGranted, failed, vaultReason = e.checkVault(ctx, req.Caller.UserID, requirements)
	}

	decision := Decision{
		Granted:      roleGranted && vaultGranted,
		RoleGranted:  roleGranted,
		VaultGranted: vaultGranted,
		EvaluatedAt:  evaluatedAt,
	}
	if len(requirements) > 0 {
		decision.VaultPath = requirements[0].Path
		decision.VaultCapability = requirements[0].Capability
	}
	if !vaultGranted {
		decision.VaultPath = failed.Path
		decision.VaultCapability = failed.Capability
	}

	if !decision.Granted {
		// The role half owns the reported reason when both halves fail.
		if !roleGranted {
			decision.Reason = ReasonRoleDenied
		} else {
			decision.Reason = vaultReason
		}
		e.recordDenial(ctx, req, required, mode, decision)
	}

	e.metrics.IncDecision(decision.Granted)
	return decision, nil
}

func rolesSatisfied(caller id.Identity, required []string, mode Mode) bool {
	if mode == ModeAny {
		for _, permission := range required {
			if caller.HasPermission(permission) {
				return true
			}
		}
		return false
	}
	for _, permission := range required {
		if !caller.HasPermission(permission) {
			return false
		}
	}
	return true
}

// collectRequirements derives the vault checks this request implies.
// An explicit path override wins outright; otherwise every permission
// that carries a vault requirement must pass, not just the first one
// found. The caller-supplied capability, when set, overrides the
// resolver-implied capability on every derived check.
func (e *Evaluator) collectRequirements(req Request, required []string) []Requirement {
	if req.VaultPath != "" {
		capability := req.Capability
		if capability == "" {
			capability = CapabilityRead
		}
		return []Requirement{{Path: req.VaultPath, Capability: capability}}
	}

	var out []Requirement
	seen := make(map[Requirement]struct{})
	for _, permission := range required {
		requirement, ok := e.resolver.Resolve(permission)
		if !ok {
			continue
		}
		if req.Capability != "" {
			requirement.Capability = req.Capability
		}
		if _, dup := seen[requirement]; dup {
			continue
		}
		seen[requirement] = struct{}{}
		out = append(out, requirement)
	}
	return out
}

type lookupResult struct {
	tokens acl.TokenSet
	err    error
}

// checkVault runs every capability lookup in parallel under the lookup
// deadline and folds the results in requirement order, so the reported
// failing path is deterministic. Any lookup error resolves to denied,
// never granted.
func (e *Evaluator) checkVault(ctx context.Context, accessor string, requirements []Requirement) (bool, Requirement, Reason) {
	lookupCtx, cancel := context.WithTimeout(ctx, e.lookupTimeout)
	defer cancel()

	results := make([]lookupResult, len(requirements))
	var group errgroup.Group
	for i, requirement := range requirements {
		i, requirement := i, requirement
		group.Go(func() error {
			start := time.Now()
			tokens, err := e.acl.Capabilities(lookupCtx, accessor, requirement.Path)
			e.metrics.ObserveLookup(time.Since(start))
			results[i] = lookupResult{tokens: tokens, err: err}
			return nil
		})
	}
	_ = group.Wait()

	for i, requirement := range requirements {
		result := results[i]
		if result.err != nil {
			e.metrics.IncACLFailure()
			if e.logger != nil {
				e.logger.WarnContext(ctx, "capability lookup failed closed",
					"path", requirement.Path,
					"capability", string(requirement.Capability),
					"error", result.err,
				)
			}
			return false, requirement, ReasonVaultUnavailable
		}
		if !requirement.Capability.Satisfies(result.tokens) {
			reason := ReasonVaultDenied
			if result.tokens.Denied() {
				reason = ReasonVaultExplicitDeny
			}
			return false, requirement, reason
		}
	}
	return true, Requirement{}, ""
}

// recordDenial appends a denial entry when the request named a
// resource, and always emits the structured audit line. The reason
// string identifies the failing half: the joined permission list for a
// role failure, "vault:<path>:<capability>" for a vault failure.
func (e *Evaluator) recordDenial(ctx context.Context, req Request, required []string, mode Mode, decision Decision) {
	reason := denialReason(required, mode, decision)

	e.metrics.IncDenial(string(decision.Reason))
	logAudit(ctx, e.logger, "access_denied",
		"user_id", req.Caller.UserID,
		"resource", req.Resource,
		"resource_id", req.ResourceID,
		"reason", reason,
		"reason_code", string(decision.Reason),
	)

	if e.sink == nil || req.Resource == "" {
		return
	}
	e.sink.Append(ctx, audit.NewEntry{
		UserID:     req.Caller.UserID,
		Action:     audit.ActionAccess,
		Resource:   req.Resource,
		ResourceID: req.ResourceID,
		Details: audit.Record{
			"reason":              audit.String(reason),
			"reasonCode":          audit.String(string(decision.Reason)),
			"mode":                audit.String(string(mode)),
			"requiredPermissions": audit.Strings(required...),
		},
	})
}

func denialReason(required []string, mode Mode, decision Decision) string {
	if !decision.RoleGranted {
		separator := " AND "
		if mode == ModeAny {
			separator = " OR "
		}
		return strings.Join(required, separator)
	}
	return fmt.Sprintf("vault:%s:%s", decision.VaultPath, decision.VaultCapability)
}
