// Package handler exposes the access-evaluation endpoint.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"caregate/internal/access"
	dErrors "caregate/pkg/domain-errors"
	"caregate/pkg/platform/httputil"
	"caregate/pkg/requestcontext"
)

// Evaluator defines the interface for access decisions.
type Evaluator interface {
	Evaluate(ctx context.Context, req access.Request) (access.Decision, error)
}

// Handler wires the access endpoints to the evaluator.
type Handler struct {
	evaluator Evaluator
	logger    *slog.Logger
}

// New constructs an access handler with its dependencies.
func New(evaluator Evaluator, logger *slog.Logger) *Handler {
	return &Handler{
		evaluator: evaluator,
		logger:    logger,
	}
}

// Register mounts access endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/access/evaluate", h.HandleEvaluate)
}

// HandleEvaluate handles POST /access/evaluate requests.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	identity := requestcontext.Identity(ctx)
	if identity.IsAnonymous() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[EvaluateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	decision, err := h.evaluator.Evaluate(ctx, access.Request{
		Caller:     identity,
		Required:   req.RequiredPermissions,
		Mode:       req.ParsedMode(),
		Resource:   req.Resource,
		ResourceID: req.ResourceID,
		VaultPath:  req.VaultPath,
		Capability: req.ParsedCapability(),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "access evaluation failed",
			"request_id", requestID,
			"user_id", identity.UserID,
			"resource", req.Resource,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "access evaluated",
		"request_id", requestID,
		"user_id", identity.UserID,
		"resource", req.Resource,
		"granted", decision.Granted,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromDecision(decision))
}
