package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "caregate/pkg/domain-errors"
)

// TestParseEntryID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs"
func TestParseEntryID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseEntryID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseEntryID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseEntryID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParseEntryID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, validUUID.String(), id.String())
		assert.False(t, id.IsNil())
	})

	t.Run("round trips through text marshaling", func(t *testing.T) {
		id := NewEntryID()
		text, err := id.MarshalText()
		require.NoError(t, err)

		var parsed EntryID
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, id, parsed)
	})
}

func TestIdentity(t *testing.T) {
	t.Run("anonymous identity has no user", func(t *testing.T) {
		assert.True(t, Identity{}.IsAnonymous())
	})

	t.Run("permission membership is exact match", func(t *testing.T) {
		identity := Identity{UserID: "user-1", Permissions: []string{"patients:view"}}
		assert.True(t, identity.HasPermission("patients:view"))
		assert.False(t, identity.HasPermission("patients:edit"))
		assert.False(t, identity.HasPermission("PATIENTS:VIEW"))
	})

	t.Run("superuser flag does not grant membership", func(t *testing.T) {
		identity := Identity{UserID: "root-1", Superuser: true}
		assert.False(t, identity.HasPermission("patients:view"))
	})
}
