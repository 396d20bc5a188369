package schema

import (
	"context"
	"strings"
	"testing"

	"github.com/erptools/preflight/pkg/record"
)

func mustRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return reg
}

func TestLoad_ReturnsSamePointer(t *testing.T) {
	a := mustRegistry(t)
	b := mustRegistry(t)
	if a != b {
		t.Error("Load should cache and return the same registry")
	}
	if len(a.Models()) != 4 {
		t.Errorf("Models() = %v, want 4 models", a.Models())
	}
}

func TestValidateAgainstSchema_UnknownModel(t *testing.T) {
	reg := mustRegistry(t)
	res := reg.ValidateAgainstSchema(record.Record{}, "gadget")
	if res.Valid {
		t.Error("unknown model should not be valid")
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0].Message, "no schema for model") {
		t.Errorf("Errors = %+v, want single no-schema error", res.Errors)
	}
}

func TestValidateAgainstSchema_RelationshipShapes(t *testing.T) {
	reg := mustRegistry(t)

	base := func() record.Record {
		return record.Record{
			"product_id":  []any{42.0, "Acralube"},
			"location_id": []any{8.0, "WH/Stock"},
			"quantity":    10.0,
		}
	}

	tests := []struct {
		name      string
		mutate    func(record.Record)
		wantValid bool
		wantField string
	}{
		{
			name:      "valid tuple",
			mutate:    func(record.Record) {},
			wantValid: true,
		},
		{
			name:      "one element tuple",
			mutate:    func(r record.Record) { r["product_id"] = []any{42.0} },
			wantValid: false,
			wantField: "product_id",
		},
		{
			name:      "string scalar",
			mutate:    func(r record.Record) { r["product_id"] = "42" },
			wantValid: false,
			wantField: "product_id",
		},
		{
			name:      "label first",
			mutate:    func(r record.Record) { r["product_id"] = []any{"Acralube", 42.0} },
			wantValid: false,
			wantField: "product_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := base()
			tt.mutate(rec)
			res := reg.ValidateAgainstSchema(rec, "stock")
			if res.Valid != tt.wantValid {
				t.Fatalf("Valid = %v, want %v (errors: %+v)", res.Valid, tt.wantValid, res.Errors)
			}
			if !tt.wantValid {
				found := false
				for _, issue := range res.Errors {
					if issue.Field == tt.wantField {
						found = true
					}
				}
				if !found {
					t.Errorf("expected an error naming %q, got %+v", tt.wantField, res.Errors)
				}
			}
		})
	}
}

func TestValidateAgainstSchema_RequiredAndTypes(t *testing.T) {
	reg := mustRegistry(t)

	rec := record.Record{
		"name":       "Desk Pad",
		"sku":        "DP-1000",
		"category":   "Office Supplies",
		"list_price": "twelve", // wrong type
	}
	res := reg.ValidateAgainstSchema(rec, "product")
	if res.Valid {
		t.Fatal("record with a mistyped field should not be valid")
	}

	var fields []string
	for _, issue := range res.Errors {
		fields = append(fields, issue.Field)
	}
	if len(fields) != 1 || fields[0] != "list_price" {
		t.Errorf("error fields = %v, want [list_price]", fields)
	}

	// Missing required field.
	delete(rec, "sku")
	rec["list_price"] = 12.0
	res = reg.ValidateAgainstSchema(rec, "product")
	if res.Valid {
		t.Fatal("record missing sku should not be valid")
	}
}

func TestValidateAgainstSchema_SelectionAndBounds(t *testing.T) {
	reg := mustRegistry(t)

	rec := record.Record{
		"name":       "Widget",
		"sku":        "WG-1",
		"category":   "Saleable",
		"list_price": -4.0,
		"type":       "virtual",
	}
	res := reg.ValidateAgainstSchema(rec, "product")
	if res.Valid {
		t.Fatal("expected violations")
	}

	byField := map[string]string{}
	for _, issue := range res.Errors {
		byField[issue.Field] = issue.Message
	}
	if _, ok := byField["list_price"]; !ok {
		t.Error("expected a bounds error on list_price")
	}
	if msg, ok := byField["type"]; !ok || !strings.Contains(msg, "not one of") {
		t.Errorf("expected a selection error on type, got %q", msg)
	}
}

func TestValidateAgainstSchema_CrossFieldChecks(t *testing.T) {
	reg := mustRegistry(t)

	// Order without lines is an error.
	order := record.Record{
		"name":           "SO001",
		"partner_id":     []any{3.0, "Azure Interior"},
		"date_order":     "2025-06-01",
		"amount_untaxed": 100.0,
		"order_line":     []any{},
	}
	res := reg.ValidateAgainstSchema(order, "order")
	if res.Valid {
		t.Error("order without lines should not be valid")
	}

	// High-rank non-company partner is a warning only.
	partner := record.Record{
		"name":          "Jane Trader",
		"email":         "jane@example.com",
		"customer_rank": 9.0,
		"is_company":    false,
	}
	res = reg.ValidateAgainstSchema(partner, "partner")
	if !res.Valid {
		t.Errorf("partner should be structurally valid, errors: %+v", res.Errors)
	}
	if len(res.Warnings) == 0 {
		t.Error("expected a rank/organization warning")
	}
}

func TestValidateFieldTypes_UnknownFieldInformational(t *testing.T) {
	reg := mustRegistry(t)

	rec := record.Record{
		"name":       "Widget",
		"sku":        "WG-1",
		"category":   "Saleable",
		"list_price": 10.0,
		"x_custom":   "anything",
	}
	issues := reg.ValidateFieldTypes(rec, "product")
	if len(issues) != 1 || issues[0].Field != "x_custom" {
		t.Errorf("issues = %+v, want one undeclared-field notice for x_custom", issues)
	}
}
