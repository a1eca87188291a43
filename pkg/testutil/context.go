package testutil

import (
	"net/http"

	"caregate/pkg/domain"
	"caregate/pkg/requestcontext"
)

// WithIdentity adds a caller identity to the request context. This
// simulates what the auth middleware would do for authenticated
// requests.
func WithIdentity(req *http.Request, identity domain.Identity) *http.Request {
	ctx := requestcontext.WithIdentity(req.Context(), identity)
	return req.WithContext(ctx)
}

// WithUser adds an identity with just a user ID and permission set,
// the typical state for an authenticated request.
func WithUser(req *http.Request, userID string, permissions ...string) *http.Request {
	return WithIdentity(req, domain.Identity{UserID: userID, Permissions: permissions})
}

// WithRequestID adds a request ID to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	ctx := requestcontext.WithRequestID(req.Context(), requestID)
	return req.WithContext(ctx)
}
