/*
Copyright © 2025 Preflight Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package product validates product records before catalog import.
package product

import (
	"context"
	"fmt"
	"regexp"

	"github.com/agnivade/levenshtein"

	"github.com/erptools/preflight/pkg/record"
	"github.com/erptools/preflight/pkg/report"
	"github.com/erptools/preflight/pkg/rules"
	"github.com/erptools/preflight/pkg/validate"
)

// Categories is the whitelist of categories accepted by the downstream
// catalog.
var Categories = []string{
	"All",
	"Saleable",
	"Office Supplies",
	"Services",
	"Consumable",
	"Raw Materials",
	"Finished Goods",
	"Expenses",
	"Internal",
}

var (
	// skuPattern mandates the PREFIX-IDENTIFIER shape, e.g. GC10000-BLA-XS.
	skuPattern = regexp.MustCompile(`^[A-Z0-9]{2,}-[A-Z0-9][A-Z0-9-]*$`)

	placeholderPattern = regexp.MustCompile(`(?i)\b(test|sample|dummy|placeholder|lorem ipsum|tbd|todo)\b`)
	genericNamePattern = regexp.MustCompile(`(?i)^product\s+\d+$`)
)

// nearDuplicateScanLimit caps the quadratic name comparison pass.
const nearDuplicateScanLimit = 1000

// Validator validates product records.
type Validator struct {
	validate.Base
	rules []rules.Rule
}

// New creates a product validator with the provided options.
func New(opts ...validate.Option) *Validator {
	v := &Validator{Base: validate.NewBase(opts...)}
	v.rules = v.businessRules()
	return v
}

// Model implements validate.EntityValidator.
func (v *Validator) Model() string { return "product" }

// KeyField implements validate.EntityValidator.
func (v *Validator) KeyField() string { return "sku" }

// RequiredFields implements validate.EntityValidator.
func (v *Validator) RequiredFields() []string {
	return []string{"name", "sku", "category", "list_price"}
}

// Rules returns the built-in business rules, for inspection and tests.
func (v *Validator) Rules() []rules.Rule { return v.rules }

// Validate runs the full batch through the base framework.
func (v *Validator) Validate(ctx context.Context, records []record.Record) *report.Report {
	return v.Base.Validate(ctx, v, records)
}

// ValidateRecord sequences basic field checks, schema compliance and the
// business rules for one record.
func (v *Validator) ValidateRecord(rpt *report.Report, rec record.Record, recordID string) {
	// Basic type checks on present values; required-ness and enums are
	// the schema's concern.
	v.ValidateString(rpt, rec["name"], "name", recordID, validate.FieldOptions{Optional: true})
	v.ValidateNumber(rpt, rec["list_price"], "list_price", recordID, validate.FieldOptions{Optional: true})
	v.ValidateNumber(rpt, rec["standard_price"], "standard_price", recordID, validate.FieldOptions{Optional: true})

	v.ApplySchema(rpt, rec, "product", recordID)
	v.RunRules(rpt, rec, recordID, v.rules)
}

// ValidateBatch runs duplicate detection, completeness scoring and the
// near-duplicate name heuristic once all records were processed.
func (v *Validator) ValidateBatch(rpt *report.Report, records []record.Record, ids []string) {
	v.CheckForDuplicates(rpt, records, ids, "sku")
	v.CheckFieldCompleteness(rpt, records, ids, v.RequiredFields())
	v.checkNearDuplicateNames(rpt, records, ids)
}

func (v *Validator) businessRules() []rules.Rule {
	t := v.Thresholds()

	return []rules.Rule{
		{
			Name:        "sku_format",
			Description: "SKU must match the PREFIX-IDENTIFIER pattern",
			Field:       "sku",
			Severity:    report.SeverityError,
			Check: func(rec record.Record) rules.Result {
				sku, ok := rec.String("sku")
				if !ok || sku == "" {
					return rules.Pass()
				}
				if !skuPattern.MatchString(sku) {
					return rules.Fail("sku", fmt.Sprintf("sku %q does not match the PREFIX-IDENTIFIER pattern", sku))
				}
				return rules.Pass()
			},
		},
		{
			Name:        "category_whitelist",
			Description: "category must be one of the accepted catalog categories",
			Field:       "category",
			Severity:    report.SeverityError,
			Check: func(rec record.Record) rules.Result {
				cat, ok := rec.String("category")
				if !ok || cat == "" {
					return rules.Pass()
				}
				for _, c := range Categories {
					if cat == c {
						return rules.Pass()
					}
				}
				return rules.Fail("category", fmt.Sprintf("category %q is not in the accepted list", cat))
			},
		},
		{
			Name:        "positive_list_price",
			Description: "list price must be positive",
			Field:       "list_price",
			Severity:    report.SeverityError,
			Check: func(rec record.Record) rules.Result {
				price, ok := rec.Float("list_price")
				if !ok {
					return rules.Pass()
				}
				if price <= 0 {
					return rules.Fail("list_price", fmt.Sprintf("list price must be positive, got %v", price))
				}
				return rules.Pass()
			},
		},
		{
			Name:        "price_above_cost",
			Description: "list price should not be below standard cost",
			Field:       "list_price",
			Severity:    report.SeverityWarning,
			Check: func(rec record.Record) rules.Result {
				price, okP := rec.Float("list_price")
				cost, okC := rec.Float("standard_price")
				if !okP || !okC {
					return rules.Pass()
				}
				if price < cost {
					return rules.Fail("list_price", fmt.Sprintf("list price %v is below standard cost %v", price, cost))
				}
				return rules.Pass()
			},
		},
		{
			Name:        "margin_band",
			Description: "margin should stay within the expected band",
			Field:       "list_price",
			Severity:    report.SeverityWarning,
			Check: func(rec record.Record) rules.Result {
				price, okP := rec.Float("list_price")
				cost, okC := rec.Float("standard_price")
				if !okP || !okC || price <= 0 {
					return rules.Pass()
				}
				margin := (price - cost) / price
				if margin < t.MarginLow || margin > t.MarginHigh {
					return rules.Fail("list_price",
						fmt.Sprintf("margin %.0f%% is outside the expected %.0f%%-%.0f%% band",
							margin*100, t.MarginLow*100, t.MarginHigh*100))
				}
				return rules.Pass()
			},
		},
		{
			Name:        "description_length",
			Description: "description length should be reasonable",
			Field:       "description",
			Severity:    report.SeverityWarning,
			Check: func(rec record.Record) rules.Result {
				desc, ok := rec.String("description")
				if !ok || desc == "" {
					return rules.Pass()
				}
				if len(desc) < t.DescriptionMinLen {
					return rules.Fail("description", fmt.Sprintf("description is shorter than %d characters", t.DescriptionMinLen))
				}
				if len(desc) > t.DescriptionMaxLen {
					return rules.Fail("description", fmt.Sprintf("description is longer than %d characters", t.DescriptionMaxLen))
				}
				return rules.Pass()
			},
		},
		{
			Name:        "placeholder_text",
			Description: "name and description should not contain placeholder text",
			Field:       "name",
			Severity:    report.SeverityWarning,
			Check: func(rec record.Record) rules.Result {
				name, _ := rec.String("name")
				desc, _ := rec.String("description")
				if genericNamePattern.MatchString(name) {
					return rules.Fail("name", fmt.Sprintf("name %q looks like a generated placeholder", name))
				}
				if placeholderPattern.MatchString(name) {
					return rules.Fail("name", fmt.Sprintf("name %q contains placeholder text", name))
				}
				if placeholderPattern.MatchString(desc) {
					return rules.Fail("description", "description contains placeholder text")
				}
				return rules.Pass()
			},
		},
	}
}

// checkNearDuplicateNames warns when two products carry names within a
// small edit distance of each other, a common sign of double entry.
func (v *Validator) checkNearDuplicateNames(rpt *report.Report, records []record.Record, ids []string) {
	if len(records) > nearDuplicateScanLimit {
		rpt.AddInfo(fmt.Sprintf("near-duplicate name scan skipped for %d records (limit %d)", len(records), nearDuplicateScanLimit))
		return
	}

	maxDist := v.Thresholds().NameDistance
	if maxDist <= 0 {
		return
	}

	type entry struct {
		name string
		id   string
	}
	var seen []entry
	for i, rec := range records {
		name, ok := rec.String("name")
		if !ok || name == "" {
			continue
		}
		norm := validate.NormalizeKey(name)
		for _, prev := range seen {
			if prev.name == norm {
				// Exact duplicates are the duplicate pass's concern.
				continue
			}
			if levenshtein.ComputeDistance(prev.name, norm) <= maxDist {
				rpt.AddWarning("name",
					fmt.Sprintf("name %q is nearly identical to %q on %s", name, prev.name, prev.id),
					name, ids[i])
			}
		}
		seen = append(seen, entry{name: norm, id: ids[i]})
	}
}
