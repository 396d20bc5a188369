/*
Copyright © 2025 Preflight Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package rules defines the business-rule contract shared by all entity
// validators. Rules are typed closures registered programmatically by the
// host; rule bodies are never deserialized or evaluated from data.
package rules

import (
	"github.com/erptools/preflight/pkg/record"
	"github.com/erptools/preflight/pkg/report"
)

// Result is the outcome of evaluating one rule against one record.
type Result struct {
	Valid   bool
	Field   string
	Message string
}

// Pass returns a passing result.
func Pass() Result {
	return Result{Valid: true}
}

// Fail returns a failing result naming the offending field.
func Fail(field, message string) Result {
	return Result{Valid: false, Field: field, Message: message}
}

// Rule is a named, pure predicate over a single record. Rules are
// stateless; a rule must not retain or mutate the records it sees.
type Rule struct {
	// Name identifies the rule in report entries and logs.
	Name string

	// Description states what the rule enforces.
	Description string

	// Field is the default field attributed to failures when the check
	// result does not name one.
	Field string

	// Severity is fixed per rule: errors gate readiness, warnings do not.
	Severity report.Severity

	// Check evaluates the rule. A nil Check always passes.
	Check func(record.Record) Result
}
