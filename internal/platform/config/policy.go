package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Policy is the deploy-time policy file: masking fields, audit limits,
// and permission-to-vault-path mappings beyond the built-ins.
type Policy struct {
	Masking      MaskingPolicy             `yaml:"masking"`
	Audit        AuditPolicy               `yaml:"audit"`
	Capabilities map[string]CapabilityRule `yaml:"capabilities"`
}

// MaskingPolicy controls write-time redaction.
type MaskingPolicy struct {
	Enabled *bool    `yaml:"enabled"`
	Fields  []string `yaml:"fields"`
}

// AuditPolicy overrides the audit log's limits.
type AuditPolicy struct {
	MaxEntries    int `yaml:"max_entries"`
	RetentionDays int `yaml:"retention_days"`
}

// CapabilityRule maps one permission to a vault path and capability.
type CapabilityRule struct {
	Path       string `yaml:"path"`
	Capability string `yaml:"capability"`
}

// LoadPolicy reads and parses a YAML policy file.
func LoadPolicy(path string) (Policy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy file: %w", err)
	}

	var policy Policy
	if err := yaml.Unmarshal(raw, &policy); err != nil {
		return Policy{}, fmt.Errorf("parse policy file %s: %w", path, err)
	}

	for permission, rule := range policy.Capabilities {
		if rule.Path == "" {
			return Policy{}, fmt.Errorf("policy capability %q: path is required", permission)
		}
		switch rule.Capability {
		case "read", "write", "delete", "list":
		default:
			return Policy{}, fmt.Errorf("policy capability %q: capability must be read, write, delete, or list", permission)
		}
	}
	return policy, nil
}
