/*
Copyright © 2025 Preflight Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package pipeline orchestrates the entity validators over one dataset
// bundle and aggregates their reports into a single summary with scores
// and recommendations.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/erptools/preflight/pkg/errors"
	"github.com/erptools/preflight/pkg/record"
	"github.com/erptools/preflight/pkg/report"
	"github.com/erptools/preflight/pkg/validate"
	"github.com/erptools/preflight/pkg/validate/order"
	"github.com/erptools/preflight/pkg/validate/partner"
	"github.com/erptools/preflight/pkg/validate/product"
	"github.com/erptools/preflight/pkg/validate/stock"
)

// entityRun binds one entity validator to its slice of the bundle.
type entityRun struct {
	model   string
	records []record.Record
	run     func(ctx context.Context, records []record.Record) *report.Report
}

// Runner drives one or more pipeline executions. Validators share the
// runner's options, so thresholds and custom rules apply uniformly.
type Runner struct {
	opts []validate.Option
}

// NewRunner creates a Runner; options are forwarded to every entity
// validator it constructs.
func NewRunner(opts ...validate.Option) *Runner {
	return &Runner{opts: opts}
}

// Run validates the bundle and returns the aggregated summary. The four
// entity validators execute concurrently; a nil bundle is rejected, but
// validation findings never surface as Go errors.
func (p *Runner) Run(ctx context.Context, bundle *Bundle) (*Summary, error) {
	if bundle == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "dataset bundle cannot be nil")
	}

	runID := uuid.New().String()
	start := time.Now()
	defer func() {
		pipelineRunDuration.Observe(time.Since(start).Seconds())
	}()

	slog.Info("starting pipeline run",
		"run_id", runID,
		"products", len(bundle.Products),
		"customers", len(bundle.Customers),
		"orders", len(bundle.Orders),
		"inventory", len(bundle.Inventory),
	)

	runs := []entityRun{
		{model: "product", records: bundle.Products, run: product.New(p.opts...).Validate},
		{model: "partner", records: bundle.Customers, run: partner.New(p.opts...).Validate},
		{model: "order", records: bundle.Orders, run: order.New(p.opts...).Validate},
		{model: "stock", records: bundle.Inventory, run: stock.New(p.opts...).Validate},
	}

	reports := make([]*report.Report, len(runs))
	g, gctx := errgroup.WithContext(ctx)
	for i := range runs {
		g.Go(func() error {
			reports[i] = runs[i].run(gctx, runs[i].records)
			return nil
		})
	}
	// Validators convert every failure to a report entry; Wait is purely
	// the aggregation barrier.
	_ = g.Wait()

	summary := p.aggregate(runID, runs, reports, time.Since(start))

	pipelineRunsTotal.WithLabelValues(summary.Overall.Health).Inc()

	slog.Info("pipeline run completed",
		"run_id", runID,
		"records", summary.Overall.TotalRecords,
		"errors", summary.Overall.ErrorCount,
		"warnings", summary.Overall.WarningCount,
		"readiness", summary.Overall.ReadinessScore,
		"health", summary.Overall.Health,
		"duration", summary.Overall.Duration,
	)

	return summary, nil
}

func (p *Runner) aggregate(runID string, runs []entityRun, reports []*report.Report, elapsed time.Duration) *Summary {
	results := make(map[string]ValidatorResult, len(runs))
	var overall Overall
	var critical []CriticalIssue

	for i, run := range runs {
		rpt := reports[i]
		stats := rpt.Stats()

		recordsValidatedTotal.WithLabelValues(run.model).Add(float64(stats.TotalRecords))
		entriesEmittedTotal.WithLabelValues(run.model, string(report.SeverityError)).Add(float64(stats.ErrorCount))
		entriesEmittedTotal.WithLabelValues(run.model, string(report.SeverityWarning)).Add(float64(stats.WarningCount))

		errs := rpt.Errors()
		results[run.model] = ValidatorResult{
			Stats:    stats,
			Errors:   nonNil(errs),
			Warnings: nonNil(rpt.Warnings()),
			Infos:    rpt.Infos(),
		}

		overall.TotalRecords += stats.TotalRecords
		overall.ValidRecords += stats.ValidRecords
		overall.InvalidRecords += stats.InvalidRecords
		overall.ErrorCount += stats.ErrorCount
		overall.WarningCount += stats.WarningCount

		for _, e := range errs {
			critical = append(critical, CriticalIssue{
				Validator: run.model,
				Field:     e.Field,
				Message:   e.Message,
				RecordID:  e.RecordID,
			})
		}
	}

	overall.SuccessRate = 100.0
	errorRate := 0.0
	if overall.TotalRecords > 0 {
		overall.SuccessRate = float64(overall.ValidRecords) / float64(overall.TotalRecords) * 100
		errorRate = float64(overall.ErrorCount) / float64(overall.TotalRecords) * 100
	}
	overall.ReadinessScore = readinessScore(overall.SuccessRate, errorRate)
	overall.DataQuality = dataQualityScore(errorRate)
	overall.Health = healthRating(overall.ReadinessScore)
	overall.ImportReady = overall.ErrorCount == 0
	overall.Duration = elapsed

	recs := buildRecommendations(overall, results, critical)

	if critical == nil {
		critical = []CriticalIssue{}
	}
	if recs == nil {
		recs = []Recommendation{}
	}

	summary := &Summary{
		RunID:            runID,
		Overall:          overall,
		ValidatorResults: results,
		CriticalIssues:   critical,
		Recommendations:  recs,
	}
	summary.Header.Set(KindSummary)

	return summary
}

func nonNil(entries []report.Entry) []report.Entry {
	if entries == nil {
		return []report.Entry{}
	}
	return entries
}
