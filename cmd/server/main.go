package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"caregate/internal/access"
	"caregate/internal/access/acl"
	accesshandler "caregate/internal/access/handler"
	accessmetrics "caregate/internal/access/metrics"
	"caregate/internal/access/ports"
	"caregate/internal/audit"
	audithandler "caregate/internal/audit/handler"
	auditmetrics "caregate/internal/audit/metrics"
	"caregate/internal/platform/config"
	"caregate/internal/platform/httpserver"
	"caregate/internal/platform/logger"
	"caregate/internal/token"
	httptransport "caregate/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	var policy config.Policy
	if cfg.PolicyFile != "" {
		loaded, err := config.LoadPolicy(cfg.PolicyFile)
		if err != nil {
			log.Error("failed to load policy file", "path", cfg.PolicyFile, "error", err)
			os.Exit(1)
		}
		policy = loaded
	}

	auditLog := buildAuditLog(cfg, policy, log)
	evaluator := buildEvaluator(cfg, policy, auditLog, log)
	jwtService := token.NewJWTService(cfg.JWTSigningKey, "caregate", "caregate-portal")

	router := httptransport.NewRouter(httptransport.Deps{
		Access:    accesshandler.New(evaluator, log),
		Audit:     audithandler.New(auditLog, log),
		Validator: jwtService,
		Logger:    log,
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting caregate", "addr", cfg.Addr, "masking_enabled", maskingEnabled(cfg, policy))

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

func maskingEnabled(cfg config.Server, policy config.Policy) bool {
	if policy.Masking.Enabled != nil {
		return *policy.Masking.Enabled
	}
	return cfg.MaskingEnabled
}

func buildAuditLog(cfg config.Server, policy config.Policy, log *slog.Logger) *audit.Log {
	opts := []audit.Option{
		audit.WithLogger(log),
		audit.WithMetrics(auditmetrics.New()),
		audit.WithMasking(maskingEnabled(cfg, policy)),
	}
	if len(policy.Masking.Fields) > 0 {
		opts = append(opts, audit.WithSensitiveFields(policy.Masking.Fields))
	}

	maxEntries := cfg.AuditMaxEntries
	if policy.Audit.MaxEntries > 0 {
		maxEntries = policy.Audit.MaxEntries
	}
	if maxEntries > 0 {
		opts = append(opts, audit.WithMaxEntries(maxEntries))
	}

	retention := cfg.AuditRetentionDays
	if policy.Audit.RetentionDays > 0 {
		retention = policy.Audit.RetentionDays
	}
	if retention > 0 {
		opts = append(opts, audit.WithRetentionDays(retention))
	}

	return audit.NewLog(opts...)
}

func buildEvaluator(cfg config.Server, policy config.Policy, auditLog *audit.Log, log *slog.Logger) *access.Evaluator {
	rules := make(map[string]access.Requirement, len(policy.Capabilities))
	for permission, rule := range policy.Capabilities {
		rules[permission] = access.Requirement{
			Path:       rule.Path,
			Capability: access.Capability(rule.Capability),
		}
	}

	var lookup ports.Lookup
	if cfg.ACLBaseURL != "" {
		lookup = acl.NewHTTPClient(cfg.ACLBaseURL, acl.WithLogger(log))
	} else {
		log.Warn("no ACL base URL configured, using in-memory capability store")
		lookup = acl.NewMemoryStore()
	}

	opts := []access.Option{
		access.WithAuditSink(auditLog),
		access.WithLogger(log),
		access.WithMetrics(accessmetrics.New()),
	}
	if cfg.ACLTimeout > 0 {
		opts = append(opts, access.WithLookupTimeout(cfg.ACLTimeout))
	}

	evaluator, err := access.NewEvaluator(access.NewResolverFromRules(rules), lookup, opts...)
	if err != nil {
		log.Error("failed to build evaluator", "error", err)
		os.Exit(1)
	}
	return evaluator
}
