/*
Copyright © 2025 Preflight Authors
SPDX-License-Identifier: Apache-2.0
*/

package validate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/erptools/preflight/pkg/config"
	"github.com/erptools/preflight/pkg/record"
	"github.com/erptools/preflight/pkg/report"
	"github.com/erptools/preflight/pkg/rules"
	"github.com/erptools/preflight/pkg/schema"
)

// parallelMinBatch is the batch size above which records fan out across
// the worker pool. Below it the goroutine overhead is not worth it.
const parallelMinBatch = 64

// EntityValidator is implemented by each entity-specific validator.
// ValidateRecord covers one record; ValidateBatch runs once after all
// records were processed (duplicates, completeness).
type EntityValidator interface {
	// Model is the schema model name this validator targets.
	Model() string

	// KeyField is the natural key used to derive record ids and to
	// detect duplicates.
	KeyField() string

	// RequiredFields lists the fields counted by completeness scoring.
	RequiredFields() []string

	// ValidateRecord runs every per-record check for one record.
	ValidateRecord(rpt *report.Report, rec record.Record, recordID string)

	// ValidateBatch runs the cross-record passes. It is called exactly
	// once per batch, after the last ValidateRecord call returns.
	ValidateBatch(rpt *report.Report, records []record.Record, ids []string)
}

// Option is a functional option for configuring Base instances.
type Option func(*Base)

// WithThresholds overrides the default engine thresholds.
func WithThresholds(t config.Thresholds) Option {
	return func(b *Base) {
		b.thresholds = t
	}
}

// WithCustomRules registers caller-supplied rules evaluated for every
// record in addition to the validator's built-in rules.
func WithCustomRules(rs ...rules.Rule) Option {
	return func(b *Base) {
		b.customRules = append(b.customRules, rs...)
	}
}

// WithWorkers sets the worker-pool size for large batches. Values below
// 2 keep record processing sequential.
func WithWorkers(n int) Option {
	return func(b *Base) {
		b.workers = n
	}
}

// WithSchemas injects a schema registry, replacing the embedded default.
func WithSchemas(reg *schema.Registry) Option {
	return func(b *Base) {
		b.schemas = reg
	}
}

// Base carries the shared validation machinery. Entity validators embed
// it and drive their batches through Validate.
type Base struct {
	thresholds  config.Thresholds
	schemas     *schema.Registry
	customRules []rules.Rule
	workers     int
}

// NewBase creates a Base with defaults applied, then the given options.
func NewBase(opts ...Option) Base {
	b := Base{
		thresholds: config.Default(),
		workers:    1,
	}
	for _, opt := range opts {
		opt(&b)
	}
	if b.schemas == nil {
		b.schemas = schema.MustLoad()
	}
	return b
}

// Thresholds returns the configured thresholds.
func (b *Base) Thresholds() config.Thresholds {
	return b.thresholds
}

// Schemas returns the schema registry in use.
func (b *Base) Schemas() *schema.Registry {
	return b.schemas
}

// Validate runs the full batch for one entity validator and returns its
// report. No error ever escapes: every failure mode becomes an entry.
func (b *Base) Validate(ctx context.Context, ev EntityValidator, records []record.Record) *report.Report {
	rpt := report.New()
	rpt.SetTotalRecords(len(records))

	ids := recordIDs(ev.Model(), ev.KeyField(), records)

	slog.Debug("starting validation",
		"model", ev.Model(),
		"records", len(records),
		"workers", b.workers)

	if b.workers > 1 && len(records) >= parallelMinBatch {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(b.workers)
		for i := range records {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				b.validateOne(rpt, ev, records[i], ids[i])
				return nil
			})
		}
		// validateOne never returns an error, so a non-nil Wait means the
		// context was cancelled and some records were skipped.
		if err := g.Wait(); err != nil {
			rpt.AddInfo(fmt.Sprintf("validation interrupted, remaining records skipped: %v", err))
			rpt.Finish()
			return rpt
		}
	} else {
		for i := range records {
			select {
			case <-ctx.Done():
				rpt.AddInfo(fmt.Sprintf("validation interrupted after %d of %d records: %v", i, len(records), ctx.Err()))
				rpt.Finish()
				return rpt
			default:
			}
			b.validateOne(rpt, ev, records[i], ids[i])
		}
	}

	ev.ValidateBatch(rpt, records, ids)

	rpt.Finish()

	stats := rpt.Stats()
	slog.Debug("validation completed",
		"model", ev.Model(),
		"valid", stats.ValidRecords,
		"errors", stats.ErrorCount,
		"warnings", stats.WarningCount,
		"duration", stats.Duration)

	return rpt
}

// validateOne runs the per-record checks plus any custom rules, catching
// panics so one bad record never takes down the batch.
func (b *Base) validateOne(rpt *report.Report, ev EntityValidator, rec record.Record, recordID string) {
	defer func() {
		if r := recover(); r != nil {
			rpt.AddError("validation", fmt.Sprintf("record validation failed: %v", r), nil, recordID)
			slog.Warn("record validation panicked",
				"model", ev.Model(),
				"record", recordID,
				"panic", fmt.Sprint(r))
		}
	}()

	ev.ValidateRecord(rpt, rec, recordID)
	b.ApplyCustomRules(rpt, rec, recordID)
}

// RunRules evaluates a rule set against one record, converting failures
// into entries at each rule's fixed severity. A rule that panics becomes
// a business_rule error naming the rule, and evaluation continues.
func (b *Base) RunRules(rpt *report.Report, rec record.Record, recordID string, ruleset []rules.Rule) {
	for _, rule := range ruleset {
		b.runRule(rpt, rec, recordID, rule)
	}
}

// ApplyCustomRules evaluates the caller-supplied rules for one record.
func (b *Base) ApplyCustomRules(rpt *report.Report, rec record.Record, recordID string) {
	b.RunRules(rpt, rec, recordID, b.customRules)
}

func (b *Base) runRule(rpt *report.Report, rec record.Record, recordID string, rule rules.Rule) {
	if rule.Check == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			rpt.AddError("business_rule",
				fmt.Sprintf("rule %q failed during evaluation: %v", rule.Name, r),
				nil, recordID)
			slog.Warn("business rule panicked", "rule", rule.Name, "record", recordID)
		}
	}()

	res := rule.Check(rec)
	if res.Valid {
		return
	}

	field := res.Field
	if field == "" {
		field = rule.Field
	}
	message := res.Message
	if message == "" {
		message = rule.Description
	}
	value, _ := rec.Get(field)

	if rule.Severity == report.SeverityWarning {
		rpt.AddWarning(field, message, value, recordID)
	} else {
		rpt.AddError(field, message, value, recordID)
	}

	slog.Debug("business rule failed",
		"rule", rule.Name,
		"field", field,
		"record", recordID)
}

// ApplySchema runs the structural schema check for one record and copies
// the findings into the report.
func (b *Base) ApplySchema(rpt *report.Report, rec record.Record, model, recordID string) {
	res := b.schemas.ValidateAgainstSchema(rec, model)
	for _, issue := range res.Errors {
		value, _ := rec.Get(issue.Field)
		rpt.AddError(issue.Field, issue.Message, value, recordID)
	}
	for _, issue := range res.Warnings {
		value, _ := rec.Get(issue.Field)
		rpt.AddWarning(issue.Field, issue.Message, value, recordID)
	}
}

// recordIDs derives a stable id per record for report correlation: the
// natural key value when present, the positional index otherwise. Ids
// are never persisted and never compared beyond grouping entries.
func recordIDs(model, keyField string, records []record.Record) []string {
	ids := make([]string, len(records))
	for i, rec := range records {
		ids[i] = deriveRecordID(model, keyField, rec, i)
	}
	return ids
}

func deriveRecordID(model, keyField string, rec record.Record, index int) string {
	if keyField != "" {
		if v, ok := rec.String(keyField); ok && strings.TrimSpace(v) != "" {
			return fmt.Sprintf("%s[%s]", model, strings.TrimSpace(v))
		}
	}
	return fmt.Sprintf("%s[%d]", model, index)
}
