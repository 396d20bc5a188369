package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Pipeline run metrics
	pipelineRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "preflight_pipeline_run_duration_seconds",
			Help:    "Duration of one full validation pipeline run in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
	)

	pipelineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preflight_pipeline_runs_total",
			Help: "Total number of pipeline runs by resulting health rating",
		},
		[]string{"health"},
	)

	// Per-validator metrics
	recordsValidatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preflight_records_validated_total",
			Help: "Total number of records processed per entity model",
		},
		[]string{"model"},
	)

	entriesEmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preflight_validation_entries_total",
			Help: "Total number of validation findings emitted per model and severity",
		},
		[]string{"model", "severity"},
	)
)
