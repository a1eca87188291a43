// Package handler exposes the audit log over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"caregate/internal/audit"
	dErrors "caregate/pkg/domain-errors"
	"caregate/pkg/platform/httputil"
	"caregate/pkg/requestcontext"
)

// Log defines the interface for audit log operations.
type Log interface {
	Append(ctx context.Context, entry audit.NewEntry) audit.Entry
	ClearOldEntries(ctx context.Context) int
	Export(masked bool) []audit.Entry
	EntriesByUser(userID string) []audit.Entry
	EntriesByResource(resource string) []audit.Entry
}

// Handler wires audit endpoints to the log.
type Handler struct {
	log    Log
	logger *slog.Logger
}

// New constructs an audit handler with its dependencies.
func New(log Log, logger *slog.Logger) *Handler {
	return &Handler{
		log:    log,
		logger: logger,
	}
}

// Register mounts audit endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/audit/entries", h.HandleAppend)
	r.Get("/audit/entries", h.HandleExport)
	r.Get("/audit/entries/users/{userID}", h.HandleEntriesByUser)
	r.Get("/audit/entries/resources/{resource}", h.HandleEntriesByResource)
	r.Post("/audit/retention/sweep", h.HandleSweep)
}

// HandleAppend handles POST /audit/entries requests. The entry's user
// is always the authenticated caller; clients cannot write entries on
// another user's behalf.
func (h *Handler) HandleAppend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	identity := requestcontext.Identity(ctx)
	if identity.IsAnonymous() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[AppendRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	entry := h.log.Append(ctx, audit.NewEntry{
		UserID:     identity.UserID,
		Action:     req.Action,
		Resource:   req.Resource,
		ResourceID: req.ResourceID,
		Details:    req.ParsedDetails(),
	})

	h.logger.InfoContext(ctx, "audit entry appended",
		"request_id", requestID,
		"entry_id", entry.ID.String(),
		"action", entry.Action,
		"resource", entry.Resource,
	)

	httputil.WriteJSON(w, http.StatusCreated, FromEntry(entry))
}

// HandleExport handles GET /audit/entries requests. The masked query
// parameter defaults to true; masked=false clears the provenance flag
// on the copies but never recovers redacted values.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	masked := true
	if raw := r.URL.Query().Get("masked"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "masked must be a boolean"))
			return
		}
		masked = parsed
	}

	httputil.WriteJSON(w, http.StatusOK, FromEntries(h.log.Export(masked)))
}

// HandleEntriesByUser handles GET /audit/entries/users/{userID} requests.
func (h *Handler) HandleEntriesByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	httputil.WriteJSON(w, http.StatusOK, FromEntries(h.log.EntriesByUser(userID)))
}

// HandleEntriesByResource handles GET /audit/entries/resources/{resource} requests.
func (h *Handler) HandleEntriesByResource(w http.ResponseWriter, r *http.Request) {
	resource := chi.URLParam(r, "resource")
	httputil.WriteJSON(w, http.StatusOK, FromEntries(h.log.EntriesByResource(resource)))
}

// HandleSweep handles POST /audit/retention/sweep requests, invoked by
// an external scheduler.
func (h *Handler) HandleSweep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	removed := h.log.ClearOldEntries(ctx)

	h.logger.InfoContext(ctx, "retention sweep completed",
		"request_id", requestcontext.RequestID(ctx),
		"removed", removed,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, SweepResponse{Removed: removed})
}
