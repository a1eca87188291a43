// Package middleware provides the HTTP middleware chain: request IDs,
// request-scoped time, and bearer-token authentication.
package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"caregate/internal/token"
	dErrors "caregate/pkg/domain-errors"
	"caregate/pkg/platform/httputil"
	"caregate/pkg/requestcontext"
)

// TokenValidator defines the interface for validating access tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (*token.Claims, error)
}

// RequireAuth rejects requests without a valid bearer token and injects
// the caller identity into the request context.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}

			claims, err := validator.ValidateToken(raw)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token"))
				return
			}

			ctx = requestcontext.WithIdentity(ctx, claims.Identity())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
