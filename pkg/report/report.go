/*
Copyright © 2025 Preflight Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package report accumulates validation findings for one batch run.
//
// A Report is created at the start of one validate call, mutated only by
// that call, and read once validation completes. Entries keep insertion
// order for deterministic output. Appends are mutex-guarded so a validator
// may fan records out across workers.
package report

import (
	"encoding/json"
	"sync"
	"time"
)

// Severity classifies a validation entry.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Entry is a single validation finding. Immutable once appended.
type Entry struct {
	Severity  Severity  `json:"severity" yaml:"severity"`
	Field     string    `json:"field,omitempty" yaml:"field,omitempty"`
	Message   string    `json:"message" yaml:"message"`
	Value     any       `json:"value,omitempty" yaml:"value,omitempty"`
	RecordID  string    `json:"recordId,omitempty" yaml:"recordId,omitempty"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Stats summarizes a report. All counters are maintained incrementally so
// computing Stats never rescans the entry list.
type Stats struct {
	TotalRecords   int           `json:"totalRecords" yaml:"totalRecords"`
	ValidRecords   int           `json:"validRecords" yaml:"validRecords"`
	InvalidRecords int           `json:"invalidRecords" yaml:"invalidRecords"`
	ErrorCount     int           `json:"errorCount" yaml:"errorCount"`
	WarningCount   int           `json:"warningCount" yaml:"warningCount"`
	SuccessRate    float64       `json:"successRate" yaml:"successRate"`
	Duration       time.Duration `json:"duration" yaml:"duration"`
}

// Report owns an ordered sequence of entries plus derived statistics for
// one validation run.
type Report struct {
	mu           sync.Mutex
	entries      []Entry
	infos        []string
	errorCount   int
	warningCount int
	errorRecords map[string]struct{}
	totalRecords int
	start        time.Time
	duration     time.Duration
}

// New creates an empty report and starts its duration clock.
func New() *Report {
	return &Report{
		errorRecords: make(map[string]struct{}),
		start:        time.Now(),
	}
}

// AddError appends an error-severity entry.
func (r *Report) AddError(field, message string, value any, recordID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, Entry{
		Severity:  SeverityError,
		Field:     field,
		Message:   message,
		Value:     value,
		RecordID:  recordID,
		Timestamp: time.Now().UTC(),
	})
	r.errorCount++
	if recordID != "" {
		r.errorRecords[recordID] = struct{}{}
	}
}

// AddWarning appends a warning-severity entry. Warnings never affect the
// valid-record count.
func (r *Report) AddWarning(field, message string, value any, recordID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, Entry{
		Severity:  SeverityWarning,
		Field:     field,
		Message:   message,
		Value:     value,
		RecordID:  recordID,
		Timestamp: time.Now().UTC(),
	})
	r.warningCount++
}

// AddInfo appends an informational message.
func (r *Report) AddInfo(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.infos = append(r.infos, message)
}

// HasErrors reports whether any error-severity entry was recorded.
// A report without errors signals "safe to proceed" to the caller.
func (r *Report) HasErrors() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errorCount > 0
}

// HasWarnings reports whether any warning-severity entry was recorded.
func (r *Report) HasWarnings() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.warningCount > 0
}

// SetTotalRecords records the batch size used for the success rate.
func (r *Report) SetTotalRecords(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.totalRecords = n
}

// Finish stops the duration clock. Safe to call more than once; the first
// call wins.
func (r *Report) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.duration == 0 {
		r.duration = time.Since(r.start)
	}
}

// Stats returns the derived statistics. A record is valid when it has no
// error-severity entries. An empty batch counts as fully successful.
func (r *Report) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	invalid := len(r.errorRecords)
	valid := r.totalRecords - invalid
	if valid < 0 {
		valid = 0
	}

	rate := 100.0
	if r.totalRecords > 0 {
		rate = float64(valid) / float64(r.totalRecords) * 100
	}

	return Stats{
		TotalRecords:   r.totalRecords,
		ValidRecords:   valid,
		InvalidRecords: invalid,
		ErrorCount:     r.errorCount,
		WarningCount:   r.warningCount,
		SuccessRate:    rate,
		Duration:       r.duration,
	}
}

// Errors returns the error-severity entries in insertion order.
func (r *Report) Errors() []Entry {
	return r.filter(SeverityError)
}

// Warnings returns the warning-severity entries in insertion order.
func (r *Report) Warnings() []Entry {
	return r.filter(SeverityWarning)
}

// Infos returns the informational messages in insertion order.
func (r *Report) Infos() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.infos))
	copy(out, r.infos)
	return out
}

// Entries returns a copy of all entries in insertion order.
func (r *Report) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *Report) filter(sev Severity) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Entry
	for _, e := range r.entries {
		if e.Severity == sev {
			out = append(out, e)
		}
	}
	return out
}

// document is the serialized report shape.
type document struct {
	Stats    Stats    `json:"stats" yaml:"stats"`
	Errors   []Entry  `json:"errors" yaml:"errors"`
	Warnings []Entry  `json:"warnings" yaml:"warnings"`
	Infos    []string `json:"infos" yaml:"infos"`
}

// MarshalJSON serializes the report as {stats, errors, warnings, infos}.
func (r *Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.toDocument())
}

// MarshalYAML serializes the report in the same shape as MarshalJSON.
func (r *Report) MarshalYAML() (any, error) {
	return r.toDocument(), nil
}

func (r *Report) toDocument() document {
	doc := document{
		Stats:    r.Stats(),
		Errors:   r.Errors(),
		Warnings: r.Warnings(),
		Infos:    r.Infos(),
	}
	if doc.Errors == nil {
		doc.Errors = []Entry{}
	}
	if doc.Warnings == nil {
		doc.Warnings = []Entry{}
	}
	if doc.Infos == nil {
		doc.Infos = []string{}
	}
	return doc
}
