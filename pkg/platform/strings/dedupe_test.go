package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	t.Run("preserves order and drops duplicates", func(t *testing.T) {
		got := DedupeAndTrim([]string{"patients:view", "secrets:read", "patients:view"})
		assert.Equal(t, []string{"patients:view", "secrets:read"}, got)
	})

	t.Run("trims whitespace before comparing", func(t *testing.T) {
		got := DedupeAndTrim([]string{"  secrets:read ", "secrets:read"})
		assert.Equal(t, []string{"secrets:read"}, got)
	})

	t.Run("drops empty and blank entries", func(t *testing.T) {
		got := DedupeAndTrim([]string{"", "   ", "audit:read"})
		assert.Equal(t, []string{"audit:read"}, got)
	})

	t.Run("empty input returns as is", func(t *testing.T) {
		assert.Empty(t, DedupeAndTrim(nil))
	})
}
