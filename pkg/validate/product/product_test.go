package product

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erptools/preflight/pkg/record"
	"github.com/erptools/preflight/pkg/report"
)

func validProduct(sku, name string) record.Record {
	return record.Record{
		"name":           name,
		"sku":            sku,
		"category":       "Office Supplies",
		"list_price":     12.5,
		"standard_price": 5.0,
	}
}

func errorsOnField(rpt *report.Report, field string) []report.Entry {
	var out []report.Entry
	for _, e := range rpt.Errors() {
		if e.Field == field {
			out = append(out, e)
		}
	}
	return out
}

func TestValidate_CleanRecord(t *testing.T) {
	v := New()
	rpt := v.Validate(context.Background(), []record.Record{
		validProduct("GC10000-BLA-XS", "Gel Pen Black XS"),
	})

	require.False(t, rpt.HasErrors(), "clean record produced errors: %+v", rpt.Errors())
	stats := rpt.Stats()
	assert.Equal(t, 1, stats.ValidRecords)
	assert.InDelta(t, 100.0, stats.SuccessRate, 0.001)
}

func TestSKUFormat(t *testing.T) {
	v := New()

	tests := []struct {
		sku     string
		wantErr bool
	}{
		{"GC10000-BLA-XS", false},
		{"AB12-99", false},
		{"invalid sku", true},
		{"lowercase-sku", true},
		{"NOSEPARATOR", true},
	}

	for _, tt := range tests {
		t.Run(tt.sku, func(t *testing.T) {
			rpt := v.Validate(context.Background(), []record.Record{
				validProduct(tt.sku, "Gel Pen"),
			})
			errs := errorsOnField(rpt, "sku")
			if tt.wantErr {
				require.Len(t, errs, 1, "want exactly one sku error")
			} else {
				require.Empty(t, errs, "unexpected sku errors: %+v", errs)
			}
		})
	}
}

func TestCategoryWhitelist(t *testing.T) {
	v := New()

	rec := validProduct("GC10000-BLA-XS", "Gel Pen")
	rec["category"] = "Gadgets"
	rpt := v.Validate(context.Background(), []record.Record{rec})

	require.Len(t, errorsOnField(rpt, "category"), 1)
}

func TestPositiveListPrice(t *testing.T) {
	v := New()

	rec := validProduct("GC10000-BLA-XS", "Gel Pen")
	rec["list_price"] = 0.0
	rpt := v.Validate(context.Background(), []record.Record{rec})

	require.NotEmpty(t, errorsOnField(rpt, "list_price"))
}

func TestMarginBand(t *testing.T) {
	v := New()

	// 5% margin, below the 10% floor.
	rec := validProduct("GC10000-BLA-XS", "Gel Pen")
	rec["list_price"] = 100.0
	rec["standard_price"] = 95.0
	rpt := v.Validate(context.Background(), []record.Record{rec})

	assert.False(t, rpt.HasErrors())
	found := false
	for _, w := range rpt.Warnings() {
		if w.Field == "list_price" {
			found = true
		}
	}
	assert.True(t, found, "expected a margin warning on list_price")
}

func TestPlaceholderText(t *testing.T) {
	v := New()

	for _, name := range []string{"Test Product", "Product 123", "Sample Widget"} {
		rpt := v.Validate(context.Background(), []record.Record{
			validProduct("GC10000-BLA-XS", name),
		})
		assert.True(t, rpt.HasWarnings(), "name %q should warn", name)
		assert.False(t, rpt.HasErrors(), "name %q should not error", name)
	}
}

func TestNearDuplicateNames(t *testing.T) {
	v := New()

	rpt := v.Validate(context.Background(), []record.Record{
		validProduct("AA-1", "Acralube Oil"),
		validProduct("BB-2", "Acralube Oils"),
	})

	var hits []report.Entry
	for _, w := range rpt.Warnings() {
		if w.Field == "name" {
			hits = append(hits, w)
		}
	}
	require.Len(t, hits, 1)
	assert.Equal(t, "product[BB-2]", hits[0].RecordID, "warning goes to the later record")
}

func TestNearDuplicateNames_ExactDuplicatesSkipped(t *testing.T) {
	v := New()

	rpt := v.Validate(context.Background(), []record.Record{
		validProduct("AA-1", "Acralube Oil"),
		validProduct("BB-2", "Acralube Oil"),
	})

	for _, w := range rpt.Warnings() {
		assert.NotEqual(t, "name", w.Field, "exact duplicate names belong to the duplicate pass, got %+v", w)
	}
}

func TestDuplicateSKUs(t *testing.T) {
	v := New()

	rpt := v.Validate(context.Background(), []record.Record{
		validProduct("GC10000-BLA-XS", "Gel Pen"),
		validProduct("gc10000-bla-xs", "Fountain Pen"),
	})

	var dupes []report.Entry
	for _, w := range rpt.Warnings() {
		if w.Field == "sku" {
			dupes = append(dupes, w)
		}
	}
	require.Len(t, dupes, 1, "case-insensitive duplicate detected once")
}

// TestValidate_MixedBatch mirrors a realistic import file: 15 products of
// which 13 carry at least one blocking defect.
func TestValidate_MixedBatch(t *testing.T) {
	v := New()

	records := []record.Record{
		validProduct("GC10000-BLA-XS", "Gel Pen Black XS"),
		validProduct("GC10001-BLU-M", "Gel Pen Blue M"),
	}
	for i := 0; i < 13; i++ {
		rec := validProduct(fmt.Sprintf("BAD-%d", i), fmt.Sprintf("Broken Widget %d", i))
		switch i % 5 {
		case 0:
			delete(rec, "name")
		case 1:
			rec["sku"] = fmt.Sprintf("broken sku %d", i)
		case 2:
			rec["category"] = "Gadgets"
		case 3:
			rec["list_price"] = -1.0
		case 4:
			delete(rec, "list_price")
		}
		records = append(records, rec)
	}

	rpt := v.Validate(context.Background(), records)
	stats := rpt.Stats()

	assert.Equal(t, 15, stats.TotalRecords)
	assert.Equal(t, 2, stats.ValidRecords)
	assert.Equal(t, 13, stats.InvalidRecords)
	assert.InDelta(t, 13.33, stats.SuccessRate, 0.01)
}

// scrubVolatile removes the wall-clock parts of a marshaled report so two
// runs over the same input can be compared byte for byte.
func scrubVolatile(doc map[string]any) {
	if stats, ok := doc["stats"].(map[string]any); ok {
		delete(stats, "duration")
	}
	for _, key := range []string{"errors", "warnings"} {
		entries, ok := doc[key].([]any)
		if !ok {
			continue
		}
		for _, e := range entries {
			if entry, ok := e.(map[string]any); ok {
				delete(entry, "timestamp")
			}
		}
	}
}

func TestValidate_RepeatRunsProduceIdenticalOutput(t *testing.T) {
	records := []record.Record{
		validProduct("GC10000-BLA-XS", "Gel Pen Black XS"),
		{"name": "No SKU Widget", "category": "Office Supplies", "list_price": 3.0},
		{"name": "Priced Wrong", "sku": "PW10-0-A", "category": "Office Supplies", "list_price": -4.0},
		{"sku": "bad sku", "list_price": 1.0},
	}

	normalized := func() string {
		rpt := New().Validate(context.Background(), records)

		data, err := json.Marshal(rpt)
		require.NoError(t, err)
		var doc map[string]any
		require.NoError(t, json.Unmarshal(data, &doc))
		scrubVolatile(doc)
		out, err := json.Marshal(doc)
		require.NoError(t, err)
		return string(out)
	}

	first := normalized()
	second := normalized()
	require.Equal(t, first, second, "same input must serialize identically apart from timestamps")
}
