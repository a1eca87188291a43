package audit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Kind discriminates the closed set of shapes a detail value can take.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindRecord
	KindList
)

// Value is a closed representation of the loosely shaped detail
// payloads attached to audit entries: string, number, bool, null, a
// record of string keys to values, or a list of values. Keeping the
// type closed makes masking and serialization total functions instead
// of reflective walks over arbitrary interfaces.
type Value struct {
	kind    Kind
	str     string
	num     float64
	boolean bool
	record  Record
	list    []Value
}

// Record is a string-keyed map of values. Key order is not preserved;
// JSON encoding sorts keys so output is deterministic.
type Record map[string]Value

// String builds a string value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number builds a numeric value.
func Number(n float64) Value {
	return Value{kind: KindNumber, num: n}
}

// Bool builds a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, boolean: b}
}

// Null builds the null value. The zero Value is also null.
func Null() Value {
	return Value{kind: KindNull}
}

// RecordValue wraps a record as a value.
func RecordValue(r Record) Value {
	return Value{kind: KindRecord, record: r}
}

// ListValue wraps a list of values.
func ListValue(items ...Value) Value {
	return Value{kind: KindList, list: items}
}

// Strings builds a list value from plain strings.
func Strings(items ...string) Value {
	values := make([]Value, len(items))
	for i, s := range items {
		values[i] = String(s)
	}
	return Value{kind: KindList, list: values}
}

// FromAny converts decoded JSON (or the small set of Go scalars used at
// call sites) into a Value. Unsupported types are an error, never a
// silent null.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return val, nil
	case Record:
		return RecordValue(val), nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case float64:
		return Number(val), nil
	case float32:
		return Number(float64(val)), nil
	case int:
		return Number(float64(val)), nil
	case int64:
		return Number(float64(val)), nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("convert number %q: %w", val.String(), err)
		}
		return Number(f), nil
	case map[string]any:
		record := make(Record, len(val))
		for k, item := range val {
			converted, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", k, err)
			}
			record[k] = converted
		}
		return RecordValue(record), nil
	case []any:
		list := make([]Value, len(val))
		for i, item := range val {
			converted, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			list[i] = converted
		}
		return ListValue(list...), nil
	default:
		return Value{}, fmt.Errorf("unsupported detail value type %T", v)
	}
}

// Kind returns the value's shape discriminator.
func (v Value) Kind() Kind {
	return v.kind
}

// AsString returns the string payload when the value is a string.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsNumber returns the numeric payload when the value is a number.
func (v Value) AsNumber() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// AsBool returns the boolean payload when the value is a bool.
func (v Value) AsBool() (bool, bool) {
	return v.boolean, v.kind == KindBool
}

// AsRecord returns the record payload when the value is a record.
func (v Value) AsRecord() (Record, bool) {
	return v.record, v.kind == KindRecord
}

// AsList returns the list payload when the value is a list.
func (v Value) AsList() ([]Value, bool) {
	return v.list, v.kind == KindList
}

// Clone returns a deep copy. Mutating the copy never affects the
// original, which is what lets the log hand entries to callers without
// aliasing stored state.
func (v Value) Clone() Value {
	switch v.kind {
	case KindRecord:
		return RecordValue(v.record.Clone())
	case KindList:
		items := make([]Value, len(v.list))
		for i, item := range v.list {
			items[i] = item.Clone()
		}
		return Value{kind: KindList, list: items}
	default:
		return v
	}
}

// Equal reports deep structural equality.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == other.str
	case KindNumber:
		return v.num == other.num
	case KindBool:
		return v.boolean == other.boolean
	case KindRecord:
		return v.record.Equal(other.record)
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// MarshalJSON encodes the value in its natural JSON shape.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.boolean)
	case KindRecord:
		return v.record.MarshalJSON()
	case KindList:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			encoded, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(encoded)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unknown value kind %d", v.kind)
}

// UnmarshalJSON decodes arbitrary JSON into the closed value type.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Clone returns a deep copy of the record. A nil record clones to nil.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v.Clone()
	}
	return out
}

// Equal reports deep structural equality of two records.
func (r Record) Equal(other Record) bool {
	if len(r) != len(other) {
		return false
	}
	for k, v := range r {
		otherVal, ok := other[k]
		if !ok || !v.Equal(otherVal) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the record with sorted keys so two equal records
// always serialize identically.
func (r Record) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		encodedKey, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')
		encodedVal, err := r[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(encodedVal)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into a record.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	record := make(Record, len(raw))
	for k, item := range raw {
		converted, err := FromAny(item)
		if err != nil {
			return fmt.Errorf("key %q: %w", k, err)
		}
		record[k] = converted
	}
	*r = record
	return nil
}
