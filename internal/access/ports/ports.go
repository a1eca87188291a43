// Package ports defines the external dependencies of the access module.
package ports

//go:generate mockgen -source=ports.go -destination=../mocks/mocks.go -package=mocks

import (
	"context"

	"caregate/internal/access/acl"
	"caregate/internal/audit"
)

// Lookup answers capability queries against the external ACL service.
// Implementations must honor the context deadline; the evaluator treats
// any returned error as the service being unavailable and fails closed.
type Lookup interface {
	Capabilities(ctx context.Context, accessor, path string) (acl.TokenSet, error)
}

// AuditSink receives denial entries from the evaluator.
type AuditSink interface {
	Append(ctx context.Context, entry audit.NewEntry) audit.Entry
}
