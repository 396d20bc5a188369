/*
Copyright © 2025 Preflight Authors
SPDX-License-Identifier: Apache-2.0
*/

package schema

import (
	"fmt"

	"github.com/erptools/preflight/pkg/record"
)

// crossCheck is one model-specific cross-field combination check.
type crossCheck struct {
	name    string
	warning bool
	fn      func(record.Record) *Issue
}

// defaultCrossChecks builds the fixed per-model cross-field tables.
func defaultCrossChecks() map[string][]crossCheck {
	return map[string][]crossCheck{
		"product": {
			{
				name:    "stockable_tracking",
				warning: true,
				fn: func(rec record.Record) *Issue {
					t, _ := rec.String("type")
					if t == "product" && !rec.Has("tracking") {
						return &Issue{
							Field:   "tracking",
							Message: "stockable product should declare a tracking mode (none, lot or serial)",
						}
					}
					return nil
				},
			},
		},
		"partner": {
			{
				name:    "ranked_partner_is_company",
				warning: true,
				fn: func(rec record.Record) *Issue {
					rank, _ := rec.Int("customer_rank")
					isCompany, _ := rec.Bool("is_company")
					if rank >= 5 && !isCompany {
						return &Issue{
							Field:   "is_company",
							Message: fmt.Sprintf("partner with customer rank %d is typically an organization", rank),
						}
					}
					return nil
				},
			},
		},
		"order": {
			{
				name: "order_has_lines",
				fn: func(rec record.Record) *Issue {
					lines, ok := rec.Slice("order_line")
					if !ok || len(lines) == 0 {
						return &Issue{
							Field:   "order_line",
							Message: "order must have at least one line item",
						}
					}
					return nil
				},
			},
		},
		"stock": {
			{
				name:    "available_without_quantity",
				warning: true,
				fn: func(rec record.Record) *Issue {
					if rec.Has("available_quantity") && !rec.Has("quantity") {
						return &Issue{
							Field:   "available_quantity",
							Message: "available_quantity is set but quantity is missing",
						}
					}
					return nil
				},
			},
		},
	}
}
