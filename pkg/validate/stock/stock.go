/*
Copyright © 2025 Preflight Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package stock validates inventory quant records before import.
package stock

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/erptools/preflight/pkg/record"
	"github.com/erptools/preflight/pkg/report"
	"github.com/erptools/preflight/pkg/rules"
	"github.com/erptools/preflight/pkg/validate"
)

// Validator validates inventory records.
type Validator struct {
	validate.Base
	rules []rules.Rule

	// now is swappable in tests for the stale-stock rule.
	now func() time.Time
}

// New creates a stock validator with the provided options.
func New(opts ...validate.Option) *Validator {
	v := &Validator{
		Base: validate.NewBase(opts...),
		now:  time.Now,
	}
	v.rules = v.businessRules()
	return v
}

// Model implements validate.EntityValidator.
func (v *Validator) Model() string { return "stock" }

// KeyField implements validate.EntityValidator. Quants have no single
// natural key; records are identified by position and deduplicated on
// the product/location/lot triple in the batch pass.
func (v *Validator) KeyField() string { return "" }

// RequiredFields implements validate.EntityValidator.
func (v *Validator) RequiredFields() []string {
	return []string{"product_id", "location_id", "quantity"}
}

// Rules returns the built-in business rules.
func (v *Validator) Rules() []rules.Rule { return v.rules }

// Validate runs the full batch through the base framework.
func (v *Validator) Validate(ctx context.Context, records []record.Record) *report.Report {
	return v.Base.Validate(ctx, v, records)
}

// ValidateRecord sequences basic field checks, schema compliance and the
// business rules for one record.
func (v *Validator) ValidateRecord(rpt *report.Report, rec record.Record, recordID string) {
	v.ValidateNumber(rpt, rec["quantity"], "quantity", recordID, validate.FieldOptions{Optional: true})
	v.ValidateNumber(rpt, rec["reserved_quantity"], "reserved_quantity", recordID, validate.FieldOptions{Optional: true})
	v.ValidateNumber(rpt, rec["available_quantity"], "available_quantity", recordID, validate.FieldOptions{Optional: true})
	v.ValidateDate(rpt, rec["in_date"], "in_date", recordID, validate.FieldOptions{Optional: true})

	v.ApplySchema(rpt, rec, "stock", recordID)
	v.RunRules(rpt, rec, recordID, v.rules)
}

// ValidateBatch deduplicates on the product/location/lot triple and runs
// completeness scoring.
func (v *Validator) ValidateBatch(rpt *report.Report, records []record.Record, ids []string) {
	v.CheckForDuplicatesBy(rpt, records, ids, "product/location/lot", quantKey)
	v.CheckFieldCompleteness(rpt, records, ids, v.RequiredFields())
}

// quantKey builds the composite duplicate key for a quant. A lot-less
// quant keys on "none" so it still collides with another lot-less quant
// at the same product and location.
func quantKey(rec record.Record) string {
	product, err := rec.Relation("product_id")
	if err != nil || product == nil {
		return ""
	}
	location, err := rec.Relation("location_id")
	if err != nil || location == nil {
		return ""
	}

	lot := "none"
	if rel, err := rec.Relation("lot_id"); err == nil && rel != nil {
		lot = strconv.FormatInt(rel.ID, 10)
	}

	return strings.Join([]string{
		strconv.FormatInt(product.ID, 10),
		strconv.FormatInt(location.ID, 10),
		lot,
	}, "|")
}

func (v *Validator) businessRules() []rules.Rule {
	t := v.Thresholds()

	return []rules.Rule{
		{
			Name:        "available_consistency",
			Description: "available quantity must equal on-hand minus reserved",
			Field:       "available_quantity",
			Severity:    report.SeverityError,
			Check: func(rec record.Record) rules.Result {
				qty, okQ := rec.Float("quantity")
				available, okA := rec.Float("available_quantity")
				if !okQ || !okA {
					return rules.Pass()
				}
				reserved, _ := rec.Float("reserved_quantity")
				expected := qty - reserved
				if math.Abs(available-expected) > t.Epsilon {
					return rules.Fail("available_quantity",
						fmt.Sprintf("available %v does not equal quantity %v minus reserved %v (expected %v)",
							available, qty, reserved, expected))
				}
				return rules.Pass()
			},
		},
		{
			Name:        "reserved_within_quantity",
			Description: "reserved quantity cannot exceed on-hand quantity",
			Field:       "reserved_quantity",
			Severity:    report.SeverityError,
			Check: func(rec record.Record) rules.Result {
				qty, okQ := rec.Float("quantity")
				reserved, okR := rec.Float("reserved_quantity")
				if !okQ || !okR {
					return rules.Pass()
				}
				if reserved > qty+t.Epsilon {
					return rules.Fail("reserved_quantity",
						fmt.Sprintf("reserved %v exceeds on-hand quantity %v", reserved, qty))
				}
				return rules.Pass()
			},
		},
		{
			Name:        "negative_quantity",
			Description: "on-hand quantity cannot go negative unless the location allows it",
			Field:       "quantity",
			Severity:    report.SeverityError,
			Check: func(rec record.Record) rules.Result {
				qty, ok := rec.Float("quantity")
				if !ok || qty >= 0 {
					return rules.Pass()
				}
				if allowed, _ := rec.Bool("allow_negative"); allowed {
					return rules.Pass()
				}
				return rules.Fail("quantity",
					fmt.Sprintf("quantity %v is negative and the location does not allow negative stock", qty))
			},
		},
		{
			Name:        "impossible_zero_quantity",
			Description: "a zero on-hand quantity cannot have stock available",
			Field:       "quantity",
			Severity:    report.SeverityError,
			Check: func(rec record.Record) rules.Result {
				qty, okQ := rec.Float("quantity")
				available, okA := rec.Float("available_quantity")
				if !okQ || !okA {
					return rules.Pass()
				}
				if qty == 0 && available > t.Epsilon {
					return rules.Fail("quantity",
						fmt.Sprintf("quantity is zero but available is %v", available))
				}
				return rules.Pass()
			},
		},
		{
			Name:        "stale_stock",
			Description: "very old receipt dates usually indicate dead stock or bad data",
			Field:       "in_date",
			Severity:    report.SeverityWarning,
			Check: func(rec record.Record) rules.Result {
				in, ok := rec.Time("in_date")
				if !ok {
					return rules.Pass()
				}
				age := v.now().Sub(in)
				if age > t.StaleStockAge {
					return rules.Fail("in_date",
						fmt.Sprintf("stock received %s has been on hand longer than %s",
							in.Format("2006-01-02"), t.StaleStockAge))
				}
				return rules.Pass()
			},
		},
	}
}
