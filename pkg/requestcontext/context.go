// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// This package defines context keys and getter/setter functions for
// values that are typically set by middleware but consumed by services.
// By keeping this package free of net/http dependencies, services can
// import only what they need without pulling in HTTP-related code.
//
// Usage in services (read values):
//
//	identity := requestcontext.Identity(ctx)
//	requestID := requestcontext.RequestID(ctx)
//
// Usage in middleware (set values):
//
//	ctx = requestcontext.WithIdentity(ctx, identity)
//	ctx = requestcontext.WithRequestID(ctx, requestID)
package requestcontext

import (
	"context"
	"time"

	"caregate/pkg/domain"
)

// Context key types (unexported for encapsulation).
type (
	identityKey    struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Exported context keys for tests that need raw context.WithValue.
var (
	ContextKeyIdentity    = identityKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// Identity retrieves the authenticated caller identity from the context.
// Returns the zero Identity (anonymous) if not set.
func Identity(ctx context.Context) domain.Identity {
	if identity, ok := ctx.Value(ContextKeyIdentity).(domain.Identity); ok {
		return identity
	}
	return domain.Identity{}
}

// WithIdentity injects a caller identity into the context.
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, ContextKeyIdentity, identity)
}

// UserID retrieves the authenticated user ID from the context. Returns
// the empty string for anonymous callers.
func UserID(ctx context.Context) string {
	return Identity(ctx).UserID
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time from context. Falls back to
// time.Now() if not set (for non-HTTP contexts like sweeps, CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. Useful for service
// unit tests that don't run the full HTTP middleware chain.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
