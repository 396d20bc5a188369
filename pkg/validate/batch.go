/*
Copyright © 2025 Preflight Authors
SPDX-License-Identifier: Apache-2.0
*/

package validate

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/erptools/preflight/pkg/record"
	"github.com/erptools/preflight/pkg/report"
)

var keyFolder = cases.Fold()

// NormalizeKey lowers and trims a duplicate-detection key using Unicode
// case folding, so "A@B.com" and "a@b.com" collide.
func NormalizeKey(s string) string {
	return keyFolder.String(strings.TrimSpace(s))
}

// DigitsOnly strips everything but digits, used to normalize phone
// numbers before duplicate detection.
func DigitsOnly(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// CheckForDuplicates detects repeated values of the given key field
// across the batch, case-insensitively. The warning is attributed to the
// later occurrence and references the first.
func (b *Base) CheckForDuplicates(rpt *report.Report, records []record.Record, ids []string, keyField string) {
	b.CheckForDuplicatesBy(rpt, records, ids, keyField, func(rec record.Record) string {
		v, ok := rec.String(keyField)
		if !ok {
			return ""
		}
		return NormalizeKey(v)
	})
}

// CheckForDuplicatesBy detects repeats of an arbitrary derived key.
// Records for which keyFn returns "" are skipped.
func (b *Base) CheckForDuplicatesBy(rpt *report.Report, records []record.Record, ids []string, label string, keyFn func(record.Record) string) {
	seen := make(map[string]string, len(records))
	for i, rec := range records {
		key := keyFn(rec)
		if key == "" {
			continue
		}
		if first, dup := seen[key]; dup {
			rpt.AddWarning(label,
				fmt.Sprintf("duplicate %s %q already present on %s", label, key, first),
				key, ids[i])
			continue
		}
		seen[key] = ids[i]
	}
}

// CheckFieldCompleteness warns for each record filling less than the
// configured fraction of the required fields.
func (b *Base) CheckFieldCompleteness(rpt *report.Report, records []record.Record, ids []string, requiredFields []string) {
	if len(requiredFields) == 0 {
		return
	}

	threshold := b.thresholds.CompletenessRatio
	for i, rec := range records {
		present := 0
		for _, f := range requiredFields {
			if rec.Has(f) {
				present++
			}
		}
		ratio := float64(present) / float64(len(requiredFields))
		if ratio < threshold {
			rpt.AddWarning("completeness",
				fmt.Sprintf("record fills %d of %d required fields (%.0f%%)", present, len(requiredFields), ratio*100),
				nil, ids[i])
		}
	}
}
