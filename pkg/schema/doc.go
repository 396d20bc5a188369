/*
Copyright © 2025 Preflight Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package schema validates a record's shape against a fixed set of
// declarative target-model schemas, independent of business semantics.
//
// # Overview
//
// The registry is compiled once from an embedded YAML table declaring,
// per model, each field's type, constraints and allowed enumeration
// values. Four models are registered: product, partner, order, stock.
//
// # Relationship shapes
//
// Any field referencing another record uses the ERP reference encodings:
//
//	many2one:  [integer id, string label]   e.g. product_id: [42, "Acralube"]
//	many2many: array of integer ids         e.g. taxes_id: [1, 4]
//
// A value of any other shape is a schema error; references are never
// silently coerced.
//
// # Usage
//
//	reg, err := schema.Load(ctx)
//	if err != nil {
//	    return err
//	}
//	res := reg.ValidateAgainstSchema(rec, "product")
//	if !res.Valid {
//	    for _, issue := range res.Errors {
//	        fmt.Printf("%s: %s\n", issue.Field, issue.Message)
//	    }
//	}
//
// ValidateFieldTypes is a finer-grained entry point for ad-hoc per-field
// auditing: it reports undeclared fields informationally when the model
// permits additional properties.
package schema
