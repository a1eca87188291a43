// Package httptransport assembles the service's HTTP surface: the
// middleware chain, health and metrics endpoints, and the versioned API
// routes.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	accesshandler "caregate/internal/access/handler"
	audithandler "caregate/internal/audit/handler"
	"caregate/internal/platform/middleware"
	"caregate/pkg/platform/httputil"
	"caregate/pkg/platform/middleware/requesttime"
)

// Deps carries everything the router mounts.
type Deps struct {
	Access    *accesshandler.Handler
	Audit     *audithandler.Handler
	Validator middleware.TokenValidator
	Logger    *slog.Logger
}

// NewRouter wires all public endpoints. Health and metrics are open;
// every /v1 route requires a valid bearer token.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(requesttime.Middleware)

	r.Get("/healthz", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.RequireAuth(deps.Validator, deps.Logger))
		deps.Access.Register(r)
		deps.Audit.Register(r)
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
