/*
Copyright © 2025 Preflight Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package validate provides the base validation framework shared by the
// entity validators: generic field-level checks, duplicate detection,
// completeness scoring, custom-rule evaluation and batch orchestration.
//
// # Failure semantics
//
// Nothing throws out of Validate. Field validators never panic on bad
// input; they convert malformed values into report entries. A business
// rule that panics during evaluation is caught and converted into a
// business_rule error naming the rule, and the batch continues.
//
// # Batch orchestration
//
// Validate derives a record id per record (natural key field when
// available, positional index otherwise), runs the entity's per-record
// checks, then runs the batch-level passes (duplicates, completeness)
// strictly after every record has been processed. Large batches fan
// records out across a bounded worker pool; the report accepts
// concurrent appends.
package validate
