/*
Copyright © 2025 Preflight Authors
SPDX-License-Identifier: Apache-2.0
*/

package pipeline

import (
	"time"

	"github.com/erptools/preflight/pkg/header"
	"github.com/erptools/preflight/pkg/record"
	"github.com/erptools/preflight/pkg/report"
)

// KindSummary is the document kind emitted for pipeline summaries.
const KindSummary = "PipelineSummary"

// Bundle is one import dataset: every entity list is optional and an
// absent list simply skips that validator's findings.
type Bundle struct {
	Products  []record.Record `json:"products,omitempty" yaml:"products,omitempty"`
	Customers []record.Record `json:"customers,omitempty" yaml:"customers,omitempty"`
	Orders    []record.Record `json:"orders,omitempty" yaml:"orders,omitempty"`
	Inventory []record.Record `json:"inventory,omitempty" yaml:"inventory,omitempty"`
}

// Size returns the total record count across all entity lists.
func (b *Bundle) Size() int {
	return len(b.Products) + len(b.Customers) + len(b.Orders) + len(b.Inventory)
}

// ValidatorResult carries one entity validator's findings.
type ValidatorResult struct {
	Stats    report.Stats   `json:"stats" yaml:"stats"`
	Errors   []report.Entry `json:"errors" yaml:"errors"`
	Warnings []report.Entry `json:"warnings" yaml:"warnings"`
	Infos    []string       `json:"infos,omitempty" yaml:"infos,omitempty"`
}

// Overall aggregates the per-validator statistics and derived scores.
type Overall struct {
	TotalRecords   int           `json:"totalRecords" yaml:"totalRecords"`
	ValidRecords   int           `json:"validRecords" yaml:"validRecords"`
	InvalidRecords int           `json:"invalidRecords" yaml:"invalidRecords"`
	ErrorCount     int           `json:"errorCount" yaml:"errorCount"`
	WarningCount   int           `json:"warningCount" yaml:"warningCount"`
	SuccessRate    float64       `json:"successRate" yaml:"successRate"`
	ReadinessScore float64       `json:"readinessScore" yaml:"readinessScore"`
	DataQuality    float64       `json:"dataQualityScore" yaml:"dataQualityScore"`
	Health         string        `json:"health" yaml:"health"`
	ImportReady    bool          `json:"importReady" yaml:"importReady"`
	Duration       time.Duration `json:"duration" yaml:"duration"`
}

// CriticalIssue is one blocking finding surfaced at the summary level.
type CriticalIssue struct {
	Validator string `json:"validator" yaml:"validator"`
	Field     string `json:"field,omitempty" yaml:"field,omitempty"`
	Message   string `json:"message" yaml:"message"`
	RecordID  string `json:"record_id,omitempty" yaml:"record_id,omitempty"`
}

// Recommendation priorities, highest first.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Recommendation is one actionable followup derived from the results.
// Message states what is wrong; Action states what to do about it.
type Recommendation struct {
	Priority string `json:"priority" yaml:"priority"`
	Category string `json:"category" yaml:"category"`
	Message  string `json:"message" yaml:"message"`
	Action   string `json:"action" yaml:"action"`
}

// Summary is the pipeline response document.
type Summary struct {
	header.Header `json:",inline" yaml:",inline"`

	RunID            string                     `json:"runId" yaml:"runId"`
	Overall          Overall                    `json:"overall_results" yaml:"overall_results"`
	ValidatorResults map[string]ValidatorResult `json:"validator_results" yaml:"validator_results"`
	CriticalIssues   []CriticalIssue            `json:"critical_issues" yaml:"critical_issues"`
	Recommendations  []Recommendation           `json:"recommendations" yaml:"recommendations"`
}
