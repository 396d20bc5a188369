/*
Copyright © 2025 Preflight Authors
SPDX-License-Identifier: Apache-2.0
*/

package record

import (
	"strings"
	"time"
)

// Record is one input data item belonging to exactly one entity type
// (product, partner, order, stock). Records arrive as decoded JSON/YAML
// mappings; the typed accessors below never panic on unexpected shapes.
type Record map[string]any

// Has reports whether the field is present with a non-empty value.
// Empty strings, nil values and empty slices count as absent.
func (r Record) Has(field string) bool {
	v, ok := r[field]
	if !ok {
		return false
	}
	return !IsEmpty(v)
}

// Get returns the raw value for a field and whether it was present.
func (r Record) Get(field string) (any, bool) {
	v, ok := r[field]
	return v, ok
}

// String returns the field as a string. Non-string values yield ok=false.
func (r Record) String(field string) (string, bool) {
	v, ok := r[field]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Float returns the field as a float64, accepting the numeric types a
// JSON or YAML decoder may produce.
func (r Record) Float(field string) (float64, bool) {
	v, ok := r[field]
	if !ok {
		return 0, false
	}
	return ToFloat(v)
}

// Int returns the field as an int64. Floats convert only when integral.
func (r Record) Int(field string) (int64, bool) {
	v, ok := r[field]
	if !ok {
		return 0, false
	}
	return ToInt(v)
}

// Bool returns the field as a bool.
func (r Record) Bool(field string) (bool, bool) {
	v, ok := r[field]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// Slice returns the field as a generic slice.
func (r Record) Slice(field string) ([]any, bool) {
	v, ok := r[field]
	if !ok {
		return nil, false
	}
	s, ok := v.([]any)
	return s, ok
}

// Time returns the field as a time.Time, parsing date strings in the
// formats the ERP emits.
func (r Record) Time(field string) (time.Time, bool) {
	v, ok := r[field]
	if !ok {
		return time.Time{}, false
	}
	return ToTime(v)
}

// IsEmpty reports whether a value should be treated as absent for
// required-field and completeness purposes.
func IsEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	default:
		return false
	}
}

// ToFloat converts decoder-produced numeric values to float64.
func ToFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint64:
		return float64(t), true
	default:
		return 0, false
	}
}

// ToInt converts decoder-produced numeric values to int64. Floats are
// accepted only when they carry no fractional part, so a JSON-decoded
// 42.0 counts as an integer but 42.5 does not.
func ToInt(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int64:
		return t, true
	case uint64:
		return int64(t), true
	case float64:
		if t == float64(int64(t)) {
			return int64(t), true
		}
		return 0, false
	case float32:
		f := float64(t)
		if f == float64(int64(f)) {
			return int64(f), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// dateLayouts are the formats accepted for date-valued fields.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ToTime converts a value to time.Time. Strings are parsed against the
// accepted date layouts.
func ToTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, t); err == nil {
				return ts, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}
