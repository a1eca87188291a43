// Package config loads service configuration from the environment and
// an optional YAML policy file.
package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures service level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string

	// MaskingEnabled controls write-time PHI redaction in the audit log.
	MaskingEnabled bool

	// AuditMaxEntries bounds the in-memory audit log; zero keeps the
	// log's built-in default.
	AuditMaxEntries int

	// AuditRetentionDays sets the retention horizon for sweeps; zero
	// keeps the log's built-in default.
	AuditRetentionDays int

	// ACLBaseURL points at the external capability-lookup service.
	// Empty selects the in-memory store, for development.
	ACLBaseURL string

	// ACLTimeout bounds each evaluation's capability lookups.
	ACLTimeout time.Duration

	// PolicyFile optionally points at a YAML policy file overriding
	// masking fields, audit limits, and capability mappings.
	PolicyFile string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("CAREGATE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("CAREGATE_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:               addr,
		JWTSigningKey:      jwtSigningKey,
		MaskingEnabled:     envBool("CAREGATE_MASKING_ENABLED", true),
		AuditMaxEntries:    envInt("CAREGATE_AUDIT_MAX_ENTRIES"),
		AuditRetentionDays: envInt("CAREGATE_AUDIT_RETENTION_DAYS"),
		ACLBaseURL:         os.Getenv("CAREGATE_ACL_BASE_URL"),
		ACLTimeout:         envDuration("CAREGATE_ACL_TIMEOUT"),
		PolicyFile:         os.Getenv("CAREGATE_POLICY_FILE"),
	}
}

func envBool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func envInt(key string) int {
	parsed, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return 0
	}
	return parsed
}

func envDuration(key string) time.Duration {
	parsed, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return 0
	}
	return parsed
}
