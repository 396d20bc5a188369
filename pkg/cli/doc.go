/*
Copyright © 2025 Preflight Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package cli implements the command-line interface for the preflight tool.
//
// # Overview
//
// The preflight CLI validates ERP import datasets before they are loaded
// into the target system. It runs the full validation pipeline over a
// dataset bundle and reports readiness scores, critical issues and
// remediation recommendations. It is designed for data migration teams
// and integration engineers preparing bulk imports.
//
// # Commands
//
// validate - Validate a dataset bundle:
//
//	preflight validate --datasets import.json
//	preflight validate -d import.yaml -o summary.yaml -t yaml
//	preflight validate -d import.json --config thresholds.yaml --fail-on-error
//
// Loads a bundle of products, customers, orders and inventory records
// from a JSON or YAML file, runs every entity validator concurrently and
// writes the aggregated summary. Use --fail-on-error for CI/CD pipelines
// (non-zero exit when the dataset is not import ready).
//
// serve - Run the validation API server:
//
//	preflight serve
//	PORT=9090 preflight serve
//
// Starts an HTTP server exposing POST /v1/validate plus /health, /ready
// and /metrics endpoints.
//
// # Global Flags
//
//	--debug        Enable debug logging
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// # Output Formats
//
// JSON (default):
//   - Machine-parseable
//   - Suitable for programmatic consumption
//
// YAML:
//   - Human-readable, preserves structure
//   - Suitable for version control
//
// Table:
//   - Flattened field/value text representation
//   - Suitable for terminal viewing
//
// # Environment Variables
//
//	LOG_LEVEL   Set logging verbosity (debug, info, warn, error)
//	PORT        Listen port for the serve command (default 8080)
//
// # Exit Codes
//
//	0  Success
//	1  General error (invalid arguments, execution failure, --fail-on-error)
//
// # Architecture
//
// The CLI uses the urfave/cli/v3 framework and delegates to specialized
// packages:
//   - pkg/dataset - Dataset bundle loading
//   - pkg/pipeline - Validation orchestration and scoring
//   - pkg/config - Threshold configuration
//   - pkg/serializer - Output formatting
//   - pkg/api - HTTP API server
//   - pkg/logging - Structured logging
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/erptools/preflight/pkg/version.Version=1.0.0'"
package cli
