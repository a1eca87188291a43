package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMasker_Mask(t *testing.T) {
	masker := NewMasker(DefaultSensitiveFields())

	t.Run("redacts sensitive keys regardless of value type", func(t *testing.T) {
		record := Record{
			"email": String("a@b.com"),
			"ssn":   Number(123456789),
			"mrn":   Bool(true),
			"role":  String("admin"),
		}

		masked := masker.Mask(record)

		assert.True(t, masked["email"].Equal(String(Redacted)))
		assert.True(t, masked["ssn"].Equal(String(Redacted)))
		assert.True(t, masked["mrn"].Equal(String(Redacted)))
		assert.True(t, masked["role"].Equal(String("admin")))
	})

	t.Run("descends into nested records", func(t *testing.T) {
		record := Record{
			"patient": RecordValue(Record{
				"name":  String("Ada"),
				"phone": String("555-0100"),
			}),
		}

		masked := masker.Mask(record)

		nested, ok := masked["patient"].AsRecord()
		require.True(t, ok)
		assert.True(t, nested["name"].Equal(String("Ada")))
		assert.True(t, nested["phone"].Equal(String(Redacted)))
	})

	t.Run("descends into lists of records", func(t *testing.T) {
		record := Record{
			"contacts": ListValue(
				RecordValue(Record{"email": String("x@y.com"), "kind": String("home")}),
				String("plain"),
			),
		}

		masked := masker.Mask(record)

		items, ok := masked["contacts"].AsList()
		require.True(t, ok)
		require.Len(t, items, 2)

		first, ok := items[0].AsRecord()
		require.True(t, ok)
		assert.True(t, first["email"].Equal(String(Redacted)))
		assert.True(t, first["kind"].Equal(String("home")))
		assert.True(t, items[1].Equal(String("plain")))
	})

	t.Run("matching is case sensitive and exact", func(t *testing.T) {
		record := Record{
			"Email":   String("a@b.com"),
			"emailed": Bool(true),
		}

		masked := masker.Mask(record)

		assert.True(t, masked["Email"].Equal(String("a@b.com")))
		assert.True(t, masked["emailed"].Equal(Bool(true)))
	})

	t.Run("never mutates the input", func(t *testing.T) {
		nested := Record{"email": String("a@b.com")}
		record := Record{"patient": RecordValue(nested), "email": String("top@b.com")}

		_ = masker.Mask(record)

		assert.True(t, record["email"].Equal(String("top@b.com")))
		assert.True(t, nested["email"].Equal(String("a@b.com")))
	})

	t.Run("is idempotent", func(t *testing.T) {
		record := Record{
			"email": String("a@b.com"),
			"inner": RecordValue(Record{"ssn": String("123-45-6789"), "note": String("ok")}),
			"list":  ListValue(RecordValue(Record{"phone": String("555")})),
		}

		once := masker.Mask(record)
		twice := masker.Mask(once)

		assert.True(t, once.Equal(twice))
	})

	t.Run("preserves the key set at every visited level", func(t *testing.T) {
		record := Record{
			"email": String("a@b.com"),
			"inner": RecordValue(Record{"ssn": String("x"), "keep": Null()}),
		}

		masked := masker.Mask(record)

		assert.Len(t, masked, len(record))
		inner, ok := masked["inner"].AsRecord()
		require.True(t, ok)
		assert.Len(t, inner, 2)
	})

	t.Run("nil and empty records mask to empty", func(t *testing.T) {
		assert.Empty(t, masker.Mask(nil))
		assert.Empty(t, masker.Mask(Record{}))
	})
}

func TestDefaultSensitiveFields(t *testing.T) {
	masker := NewMasker(DefaultSensitiveFields())
	for _, field := range []string{"ssn", "email", "phone", "mrn", "creditCard", "userId"} {
		assert.True(t, masker.Sensitive(field), "expected %q to be sensitive", field)
	}
	assert.False(t, masker.Sensitive("role"))
}
