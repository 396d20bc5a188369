/*
Copyright © 2025 Preflight Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package partner validates customer/partner records before import.
package partner

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/erptools/preflight/pkg/record"
	"github.com/erptools/preflight/pkg/report"
	"github.com/erptools/preflight/pkg/rules"
	"github.com/erptools/preflight/pkg/validate"
)

var (
	// phonePattern is deliberately loose: digits with common separators.
	phonePattern = regexp.MustCompile(`^[+]?[\d\s\-()]{10,15}$`)

	// vatPattern is the EU-style country prefix plus alphanumeric body.
	vatPattern = regexp.MustCompile(`^[A-Z]{2}[0-9A-Z]{2,15}$`)

	vatStrip = regexp.MustCompile(`[^0-9A-Z]`)
)

// Validator validates partner records.
type Validator struct {
	validate.Base
	rules []rules.Rule
}

// New creates a partner validator with the provided options.
func New(opts ...validate.Option) *Validator {
	v := &Validator{Base: validate.NewBase(opts...)}
	v.rules = v.businessRules()
	return v
}

// Model implements validate.EntityValidator.
func (v *Validator) Model() string { return "partner" }

// KeyField implements validate.EntityValidator.
func (v *Validator) KeyField() string { return "email" }

// RequiredFields implements validate.EntityValidator.
func (v *Validator) RequiredFields() []string {
	return []string{"name", "email"}
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
	v.ValidateString(rpt, rec["name"], "name", recordID, validate.FieldOptions{Optional: true})

	v.ApplySchema(rpt, rec, "partner", recordID)
	v.RunRules(rpt, rec, recordID, v.rules)
}

// ValidateBatch runs duplicate detection separately on emails, normalized
// phone digits and normalized VAT numbers, then completeness scoring.
func (v *Validator) ValidateBatch(rpt *report.Report, records []record.Record, ids []string) {
	v.CheckForDuplicates(rpt, records, ids, "email")

	v.CheckForDuplicatesBy(rpt, records, ids, "phone", func(rec record.Record) string {
		phone, ok := rec.String("phone")
		if !ok {
			return ""
		}
		digits := validate.DigitsOnly(phone)
		if len(digits) < 7 {
			// Too short to be a meaningful phone key.
			return ""
		}
		return digits
	})

	v.CheckForDuplicatesBy(rpt, records, ids, "vat", func(rec record.Record) string {
		vat, ok := rec.String("vat")
		if !ok {
			return ""
		}
		return NormalizeVAT(vat)
	})

	v.CheckFieldCompleteness(rpt, records, ids, v.RequiredFields())
}

// NormalizeVAT uppercases a VAT number and strips separators.
func NormalizeVAT(vat string) string {
	return vatStrip.ReplaceAllString(strings.ToUpper(strings.TrimSpace(vat)), "")
}

func (v *Validator) businessRules() []rules.Rule {
	return []rules.Rule{
		{
			Name:        "email_format",
			Description: "email must be a valid address",
			Field:       "email",
			Severity:    report.SeverityError,
			Check: func(rec record.Record) rules.Result {
				email, ok := rec.String("email")
				if !ok || email == "" {
					return rules.Pass()
				}
				if !emailPattern.MatchString(email) {
					return rules.Fail("email", fmt.Sprintf("email %q is not a valid address", email))
				}
				return rules.Pass()
			},
		},
		{
			Name:        "phone_format",
			Description: "phone should contain 10-15 digits with common separators",
			Field:       "phone",
			Severity:    report.SeverityWarning,
			Check: func(rec record.Record) rules.Result {
				phone, ok := rec.String("phone")
				if !ok || phone == "" {
					return rules.Pass()
				}
				if !phonePattern.MatchString(phone) {
					return rules.Fail("phone", fmt.Sprintf("phone %q has an unusual format", phone))
				}
				return rules.Pass()
			},
		},
		{
			Name:        "vat_format",
			Description: "VAT should be a country prefix followed by 2-15 alphanumerics",
			Field:       "vat",
			Severity:    report.SeverityWarning,
			Check: func(rec record.Record) rules.Result {
				vat, ok := rec.String("vat")
				if !ok || vat == "" {
					return rules.Pass()
				}
				if !vatPattern.MatchString(vat) {
					return rules.Fail("vat", fmt.Sprintf("vat %q does not look like a VAT number", vat))
				}
				return rules.Pass()
			},
		},
		{
			Name:        "company_has_vat",
			Description: "an active company customer should carry a VAT number",
			Field:       "vat",
			Severity:    report.SeverityWarning,
			Check: func(rec record.Record) rules.Result {
				isCompany, _ := rec.Bool("is_company")
				rank, _ := rec.Int("customer_rank")
				if isCompany && rank > 0 && !rec.Has("vat") {
					return rules.Fail("vat", "company with customer activity has no VAT number")
				}
				return rules.Pass()
			},
		},
		{
			Name:        "street_requires_city",
			Description: "a street address needs a city",
			Field:       "city",
			Severity:    report.SeverityWarning,
			Check: func(rec record.Record) rules.Result {
				if rec.Has("street") && !rec.Has("city") {
					return rules.Fail("city", "street is set but city is missing")
				}
				return rules.Pass()
			},
		},
		{
			Name:        "city_requires_street",
			Description: "a city needs a street address",
			Field:       "street",
			Severity:    report.SeverityWarning,
			Check: func(rec record.Record) rules.Result {
				if rec.Has("city") && !rec.Has("street") {
					return rules.Fail("street", "city is set but street is missing")
				}
				return rules.Pass()
			},
		},
		{
			Name:        "address_requires_country",
			Description: "a partial address needs a country",
			Field:       "country_id",
			Severity:    report.SeverityWarning,
			Check: func(rec record.Record) rules.Result {
				if (rec.Has("street") || rec.Has("city")) && !rec.Has("country_id") {
					return rules.Fail("country_id", "address is set but country is missing")
				}
				return rules.Pass()
			},
		},
		{
			Name:        "rank_consistency",
			Description: "ranks must be non-negative and at least one positive",
			Field:       "customer_rank",
			Severity:    report.SeverityError,
			Check: func(rec record.Record) rules.Result {
				customer, _ := rec.Int("customer_rank")
				supplier, _ := rec.Int("supplier_rank")
				if customer < 0 {
					return rules.Fail("customer_rank", fmt.Sprintf("customer_rank must be >= 0, got %d", customer))
				}
				if supplier < 0 {
					return rules.Fail("supplier_rank", fmt.Sprintf("supplier_rank must be >= 0, got %d", supplier))
				}
				if customer == 0 && supplier == 0 {
					return rules.Fail("customer_rank", "partner is neither a customer nor a supplier (both ranks are zero)")
				}
				return rules.Pass()
			},
		},
	}
}

// emailPattern mirrors the base validator's accepted address shape.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
