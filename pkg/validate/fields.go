/*
Copyright © 2025 Preflight Authors
SPDX-License-Identifier: Apache-2.0
*/

package validate

import (
	"fmt"
	"regexp"
	"time"

	"github.com/erptools/preflight/pkg/record"
	"github.com/erptools/preflight/pkg/report"
)

// emailPattern is the standard address shape accepted for email fields.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// FieldOptions is the options bag accepted by the field validators.
// The zero value means: required, no length/bound/pattern constraints,
// error severity.
type FieldOptions struct {
	// Optional suppresses the missing-value entry for absent fields.
	Optional bool

	// MinLength and MaxLength bound string lengths (and array sizes for
	// ValidateArray). Zero disables the bound.
	MinLength int
	MaxLength int

	// Pattern, when set, must match the whole string value.
	Pattern *regexp.Regexp

	// Min and Max bound numeric values.
	Min *float64
	Max *float64

	// Positive requires a numeric value strictly greater than zero.
	Positive bool

	// Severity overrides the entry severity; defaults to error.
	Severity report.Severity
}

func (o FieldOptions) severity() report.Severity {
	if o.Severity == "" {
		return report.SeverityError
	}
	return o.Severity
}

func (b *Base) addEntry(rpt *report.Report, sev report.Severity, field, message string, value any, recordID string) {
	if sev == report.SeverityWarning {
		rpt.AddWarning(field, message, value, recordID)
	} else {
		rpt.AddError(field, message, value, recordID)
	}
}

// ValidateRequired checks that the record has a non-empty value for the
// field, appending an error when it does not.
func (b *Base) ValidateRequired(rpt *report.Report, rec record.Record, field, recordID string) bool {
	if rec.Has(field) {
		return true
	}
	rpt.AddError(field, fmt.Sprintf("required field %q is missing", field), nil, recordID)
	return false
}

// handleMissing deals with absent values for the typed validators.
// Returns true when the caller should stop (value absent).
func (b *Base) handleMissing(rpt *report.Report, value any, field, recordID string, o FieldOptions) bool {
	if !record.IsEmpty(value) {
		return false
	}
	if !o.Optional {
		b.addEntry(rpt, o.severity(), field, fmt.Sprintf("field %q is missing", field), nil, recordID)
	}
	return true
}

// ValidateString checks a string value against length and pattern
// constraints. At most one entry is appended per call.
func (b *Base) ValidateString(rpt *report.Report, value any, field, recordID string, o FieldOptions) bool {
	if b.handleMissing(rpt, value, field, recordID, o) {
		return o.Optional
	}

	s, ok := value.(string)
	if !ok {
		b.addEntry(rpt, o.severity(), field, fmt.Sprintf("field %q must be a string, got %T", field, value), value, recordID)
		return false
	}
	if o.MinLength > 0 && len(s) < o.MinLength {
		b.addEntry(rpt, o.severity(), field, fmt.Sprintf("field %q must be at least %d characters", field, o.MinLength), s, recordID)
		return false
	}
	if o.MaxLength > 0 && len(s) > o.MaxLength {
		b.addEntry(rpt, o.severity(), field, fmt.Sprintf("field %q must be at most %d characters", field, o.MaxLength), s, recordID)
		return false
	}
	if o.Pattern != nil && !o.Pattern.MatchString(s) {
		b.addEntry(rpt, o.severity(), field, fmt.Sprintf("field %q does not match the expected format", field), s, recordID)
		return false
	}
	return true
}

// ValidateNumber checks a numeric value against bounds.
func (b *Base) ValidateNumber(rpt *report.Report, value any, field, recordID string, o FieldOptions) bool {
	if b.handleMissing(rpt, value, field, recordID, o) {
		return o.Optional
	}

	f, ok := record.ToFloat(value)
	if !ok {
		b.addEntry(rpt, o.severity(), field, fmt.Sprintf("field %q must be a number, got %T", field, value), value, recordID)
		return false
	}
	if o.Positive && f <= 0 {
		b.addEntry(rpt, o.severity(), field, fmt.Sprintf("field %q must be positive", field), f, recordID)
		return false
	}
	if o.Min != nil && f < *o.Min {
		b.addEntry(rpt, o.severity(), field, fmt.Sprintf("field %q must be at least %v", field, *o.Min), f, recordID)
		return false
	}
	if o.Max != nil && f > *o.Max {
		b.addEntry(rpt, o.severity(), field, fmt.Sprintf("field %q must be at most %v", field, *o.Max), f, recordID)
		return false
	}
	return true
}

// ValidateEmail checks an email address value.
func (b *Base) ValidateEmail(rpt *report.Report, value any, field, recordID string, o FieldOptions) bool {
	if b.handleMissing(rpt, value, field, recordID, o) {
		return o.Optional
	}

	s, ok := value.(string)
	if !ok {
		b.addEntry(rpt, o.severity(), field, fmt.Sprintf("field %q must be a string, got %T", field, value), value, recordID)
		return false
	}
	if !emailPattern.MatchString(s) {
		b.addEntry(rpt, o.severity(), field, fmt.Sprintf("field %q is not a valid email address", field), s, recordID)
		return false
	}
	return true
}

// ValidateEnum checks a value against a fixed set of allowed strings.
func (b *Base) ValidateEnum(rpt *report.Report, value any, field, recordID string, allowed []string, o FieldOptions) bool {
	if b.handleMissing(rpt, value, field, recordID, o) {
		return o.Optional
	}

	s, ok := value.(string)
	if !ok {
		b.addEntry(rpt, o.severity(), field, fmt.Sprintf("field %q must be a string, got %T", field, value), value, recordID)
		return false
	}
	for _, a := range allowed {
		if s == a {
			return true
		}
	}
	b.addEntry(rpt, o.severity(), field, fmt.Sprintf("field %q value %q is not one of %v", field, s, allowed), s, recordID)
	return false
}

// ValidateDate checks and parses a date value. Returns the parsed time
// and whether it was valid; absent optional fields return (zero, true)
// with ok distinguished by the time being zero.
func (b *Base) ValidateDate(rpt *report.Report, value any, field, recordID string, o FieldOptions) (time.Time, bool) {
	if b.handleMissing(rpt, value, field, recordID, o) {
		return time.Time{}, o.Optional
	}

	ts, ok := record.ToTime(value)
	if !ok {
		b.addEntry(rpt, o.severity(), field, fmt.Sprintf("field %q is not a valid date", field), value, recordID)
		return time.Time{}, false
	}
	return ts, true
}

// ValidateArray checks an array value against size bounds. Returns the
// slice for further per-element checks.
func (b *Base) ValidateArray(rpt *report.Report, value any, field, recordID string, o FieldOptions) ([]any, bool) {
	if b.handleMissing(rpt, value, field, recordID, o) {
		return nil, o.Optional
	}

	items, ok := value.([]any)
	if !ok {
		b.addEntry(rpt, o.severity(), field, fmt.Sprintf("field %q must be an array, got %T", field, value), value, recordID)
		return nil, false
	}
	if o.MinLength > 0 && len(items) < o.MinLength {
		b.addEntry(rpt, o.severity(), field, fmt.Sprintf("field %q must have at least %d elements", field, o.MinLength), len(items), recordID)
		return items, false
	}
	if o.MaxLength > 0 && len(items) > o.MaxLength {
		b.addEntry(rpt, o.severity(), field, fmt.Sprintf("field %q must have at most %d elements", field, o.MaxLength), len(items), recordID)
		return items, false
	}
	return items, true
}

// ValidateRelation checks that a field carries a well-formed [id, label]
// reference, appending an error otherwise.
func (b *Base) ValidateRelation(rpt *report.Report, rec record.Record, field, recordID string, o FieldOptions) (*record.Relation, bool) {
	value, present := rec.Get(field)
	if !present || record.IsEmpty(value) {
		if !o.Optional {
			b.addEntry(rpt, o.severity(), field, fmt.Sprintf("field %q is missing", field), nil, recordID)
		}
		return nil, o.Optional
	}

	rel, err := record.ParseRelation(value)
	if err != nil {
		b.addEntry(rpt, o.severity(), field, fmt.Sprintf("field %q is not a valid reference: %v", field, err), value, recordID)
		return nil, false
	}
	return rel, true
}
