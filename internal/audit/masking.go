package audit

// Redacted is the literal written over every sensitive field value,
// regardless of the value's original type.
const Redacted = "[REDACTED]"

// DefaultSensitiveFields is the PHI/PII field set masked when no
// override is configured. Matching is a case-sensitive exact comparison
// against key names.
func DefaultSensitiveFields() []string {
	return []string{"ssn", "email", "phone", "mrn", "creditCard", "userId"}
}

// Masker redacts configured sensitive field names from nested records.
// It is pure: input records are never mutated, the result is always a
// fresh copy.
type Masker struct {
	fields map[string]struct{}
}

// NewMasker builds a masker for the given field names.
func NewMasker(fieldNames []string) *Masker {
	fields := make(map[string]struct{}, len(fieldNames))
	for _, name := range fieldNames {
		fields[name] = struct{}{}
	}
	return &Masker{fields: fields}
}

// Sensitive reports whether the field name is in the masked set.
func (m *Masker) Sensitive(field string) bool {
	_, ok := m.fields[field]
	return ok
}

// Mask returns a copy of the record with every sensitive key's value
// replaced by Redacted. The walk descends into nested records and into
// lists (records inside arrays are masked too; the upstream behavior of
// skipping arrays would let PHI through unredacted, see DESIGN.md).
// Masking is idempotent and preserves the key set at every level. A nil
// record masks to an empty record.
func (m *Masker) Mask(record Record) Record {
	out := make(Record, len(record))
	for key, value := range record {
		if m.Sensitive(key) {
			out[key] = String(Redacted)
			continue
		}
		out[key] = m.maskValue(value)
	}
	return out
}

func (m *Masker) maskValue(v Value) Value {
	switch v.Kind() {
	case KindRecord:
		nested, _ := v.AsRecord()
		return RecordValue(m.Mask(nested))
	case KindList:
		items, _ := v.AsList()
		masked := make([]Value, len(items))
		for i, item := range items {
			masked[i] = m.maskValue(item)
		}
		return ListValue(masked...)
	default:
		return v.Clone()
	}
}
