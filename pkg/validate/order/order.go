/*
Copyright © 2025 Preflight Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package order validates purchase/sale order records before import.
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/erptools/preflight/pkg/record"
	"github.com/erptools/preflight/pkg/report"
	"github.com/erptools/preflight/pkg/rules"
	"github.com/erptools/preflight/pkg/validate"
)

// Validator validates order records.
type Validator struct {
	validate.Base
	rules []rules.Rule

	// now is swappable in tests for date-window rules.
	now func() time.Time
}

// New creates an order validator with the provided options.
func New(opts ...validate.Option) *Validator {
	v := &Validator{
		Base: validate.NewBase(opts...),
		now:  time.Now,
	}
	v.rules = v.businessRules()
	return v
}

// Model implements validate.EntityValidator.
func (v *Validator) Model() string { return "order" }

// KeyField implements validate.EntityValidator.
func (v *Validator) KeyField() string { return "name" }

// RequiredFields implements validate.EntityValidator.
func (v *Validator) RequiredFields() []string {
	return []string{"name", "partner_id", "date_order", "amount_untaxed", "order_line"}
}

// Rules returns the built-in business rules.
func (v *Validator) Rules() []rules.Rule { return v.rules }

// Validate runs the full batch through the base framework.
func (v *Validator) Validate(ctx context.Context, records []record.Record) *report.Report {
	return v.Base.Validate(ctx, v, records)
}

// ValidateRecord sequences basic field checks, per-line checks, schema
// compliance and the business rules for one record.
func (v *Validator) ValidateRecord(rpt *report.Report, rec record.Record, recordID string) {
	v.ValidateString(rpt, rec["name"], "name", recordID, validate.FieldOptions{Optional: true})
	v.ValidateDate(rpt, rec["date_order"], "date_order", recordID, validate.FieldOptions{Optional: true})
	v.ValidateDate(rpt, rec["commitment_date"], "commitment_date", recordID, validate.FieldOptions{Optional: true})
	v.ValidateNumber(rpt, rec["amount_untaxed"], "amount_untaxed", recordID, validate.FieldOptions{Optional: true})

	v.validateLines(rpt, rec, recordID)

	v.ApplySchema(rpt, rec, "order", recordID)
	v.RunRules(rpt, rec, recordID, v.rules)
}

// ValidateBatch runs duplicate detection on order references and
// completeness scoring.
func (v *Validator) ValidateBatch(rpt *report.Report, records []record.Record, ids []string) {
	v.CheckForDuplicates(rpt, records, ids, "name")
	v.CheckFieldCompleteness(rpt, records, ids, v.RequiredFields())
}

// validateLines checks every order line: a product reference, a positive
// quantity and a non-negative unit price.
func (v *Validator) validateLines(rpt *report.Report, rec record.Record, recordID string) {
	lines, ok := rec.Slice("order_line")
	if !ok {
		return
	}

	for i, raw := range lines {
		m, ok := raw.(map[string]any)
		if !ok {
			rpt.AddError("order_line", fmt.Sprintf("line %d is not an object", i+1), raw, recordID)
			continue
		}
		line := record.Record(m)

		if rel, err := line.Relation("product_id"); err != nil {
			rpt.AddError("order_line", fmt.Sprintf("line %d product reference is malformed: %v", i+1, err), m["product_id"], recordID)
		} else if rel == nil {
			rpt.AddError("order_line", fmt.Sprintf("line %d has no product reference", i+1), nil, recordID)
		}

		if qty, ok := line.Float("qty"); !ok {
			rpt.AddError("order_line", fmt.Sprintf("line %d quantity is missing or not a number", i+1), m["qty"], recordID)
		} else if qty <= 0 {
			rpt.AddError("order_line", fmt.Sprintf("line %d quantity must be positive, got %v", i+1, qty), qty, recordID)
		}

		if price, ok := line.Float("price_unit"); !ok {
			rpt.AddError("order_line", fmt.Sprintf("line %d unit price is missing or not a number", i+1), m["price_unit"], recordID)
		} else if price < 0 {
			rpt.AddError("order_line", fmt.Sprintf("line %d unit price must not be negative, got %v", i+1, price), price, recordID)
		}
	}
}

func (v *Validator) businessRules() []rules.Rule {
	t := v.Thresholds()

	return []rules.Rule{
		{
			Name:        "total_matches_lines",
			Description: "declared untaxed total must equal the sum of line amounts",
			Field:       "amount_untaxed",
			Severity:    report.SeverityError,
			Check: func(rec record.Record) rules.Result {
				declared, ok := rec.Float("amount_untaxed")
				if !ok {
					return rules.Pass()
				}
				lines, ok := rec.Slice("order_line")
				if !ok || len(lines) == 0 {
					return rules.Pass()
				}
				sum, ok := sumLines(lines)
				if !ok {
					// Malformed lines are reported by the per-line pass.
					return rules.Pass()
				}
				diff := sum.Sub(decimal.NewFromFloat(declared)).Abs()
				if diff.GreaterThan(decimal.NewFromFloat(t.Epsilon)) {
					return rules.Fail("amount_untaxed",
						fmt.Sprintf("declared total %v does not match line sum %s (difference %s)", declared, sum, diff))
				}
				return rules.Pass()
			},
		},
		{
			Name:        "planned_after_order",
			Description: "planned delivery must not precede the order date",
			Field:       "commitment_date",
			Severity:    report.SeverityWarning,
			Check: func(rec record.Record) rules.Result {
				ordered, ok := rec.Time("date_order")
				if !ok {
					return rules.Pass()
				}
				planned, ok := rec.Time("commitment_date")
				if !ok {
					return rules.Pass()
				}
				if planned.Before(ordered) {
					return rules.Fail("commitment_date",
						fmt.Sprintf("planned date %s precedes order date %s",
							planned.Format("2006-01-02"), ordered.Format("2006-01-02")))
				}
				return rules.Pass()
			},
		},
		{
			Name:        "order_date_window",
			Description: "order date must not lie too far in the future",
			Field:       "date_order",
			Severity:    report.SeverityWarning,
			Check: func(rec record.Record) rules.Result {
				ordered, ok := rec.Time("date_order")
				if !ok {
					return rules.Pass()
				}
				limit := v.now().Add(t.MaxFutureOrderWindow)
				if ordered.After(limit) {
					return rules.Fail("date_order",
						fmt.Sprintf("order date %s is more than %s in the future",
							ordered.Format("2006-01-02"), t.MaxFutureOrderWindow))
				}
				return rules.Pass()
			},
		},
		{
			Name:        "duplicate_line_products",
			Description: "the same product should not appear on multiple lines",
			Field:       "order_line",
			Severity:    report.SeverityWarning,
			Check: func(rec record.Record) rules.Result {
				lines, ok := rec.Slice("order_line")
				if !ok {
					return rules.Pass()
				}
				seen := make(map[int64]bool, len(lines))
				for _, raw := range lines {
					m, ok := raw.(map[string]any)
					if !ok {
						continue
					}
					rel, err := record.ParseRelation(m["product_id"])
					if err != nil || rel == nil {
						continue
					}
					if seen[rel.ID] {
						return rules.Fail("order_line",
							fmt.Sprintf("product %d (%s) appears on multiple lines", rel.ID, rel.Label))
					}
					seen[rel.ID] = true
				}
				return rules.Pass()
			},
		},
		{
			Name:        "suspicious_order",
			Description: "orders matching several risk signals need review",
			Field:       "amount_untaxed",
			Severity:    report.SeverityWarning,
			Check:       v.checkSuspicious,
		},
	}
}

// checkSuspicious flags an order exhibiting more than one of: a very
// high value, a far-future date, an unusually long line list, or amounts
// that all round to multiples of ten.
func (v *Validator) checkSuspicious(rec record.Record) rules.Result {
	t := v.Thresholds()
	var signals []string

	if total, ok := rec.Float("amount_untaxed"); ok && total > t.HighOrderValue {
		signals = append(signals, fmt.Sprintf("value above %v", t.HighOrderValue))
	}

	if ordered, ok := rec.Time("date_order"); ok && ordered.After(v.now().Add(t.SuspiciousFutureWindow)) {
		signals = append(signals, "far-future order date")
	}

	lines, _ := rec.Slice("order_line")
	if len(lines) > t.SuspiciousLineCount {
		signals = append(signals, fmt.Sprintf("more than %d line items", t.SuspiciousLineCount))
	}

	if allAmountsRound(rec, lines) {
		signals = append(signals, "all amounts are multiples of ten")
	}

	if len(signals) > 1 {
		return rules.Fail("amount_untaxed", fmt.Sprintf("order looks suspicious: %v", signals))
	}
	return rules.Pass()
}

// allAmountsRound reports whether the declared total and every line
// amount are whole multiples of ten. A single round figure is ordinary;
// nothing but round figures across a whole order is a known fabrication
// pattern.
func allAmountsRound(rec record.Record, lines []any) bool {
	total, ok := rec.Float("amount_untaxed")
	if !ok || len(lines) == 0 {
		return false
	}

	ten := decimal.NewFromInt(10)
	isRound := func(f float64) bool {
		d := decimal.NewFromFloat(f)
		return d.Mod(ten).IsZero()
	}

	if !isRound(total) || total == 0 {
		return false
	}
	for _, raw := range lines {
		m, ok := raw.(map[string]any)
		if !ok {
			return false
		}
		line := record.Record(m)
		qty, okQ := line.Float("qty")
		price, okP := line.Float("price_unit")
		if !okQ || !okP {
			return false
		}
		if !isRound(qty * price) {
			return false
		}
	}
	return true
}

// sumLines totals qty x unit price across lines using exact decimal
// arithmetic, avoiding float accumulation drift before the epsilon
// comparison.
func sumLines(lines []any) (decimal.Decimal, bool) {
	total := decimal.Zero
	for _, raw := range lines {
		m, ok := raw.(map[string]any)
		if !ok {
			return decimal.Zero, false
		}
		line := record.Record(m)
		qty, okQ := line.Float("qty")
		price, okP := line.Float("price_unit")
		if !okQ || !okP {
			return decimal.Zero, false
		}
		total = total.Add(decimal.NewFromFloat(qty).Mul(decimal.NewFromFloat(price)))
	}
	return total, true
}
