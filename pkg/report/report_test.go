package report

import (
	"encoding/json"
	"sync"
	"testing"
)

func TestReport_Counters(t *testing.T) {
	r := New()
	r.SetTotalRecords(4)

	r.AddError("sku", "missing sku", nil, "rec-1")
	r.AddError("list_price", "price must be positive", -5.0, "rec-1")
	r.AddError("email", "invalid email", "nope", "rec-2")
	r.AddWarning("phone", "unusual phone format", "123", "rec-3")
	r.AddInfo("validated 4 records")
	r.Finish()

	stats := r.Stats()
	if stats.TotalRecords != 4 {
		t.Errorf("TotalRecords = %d, want 4", stats.TotalRecords)
	}
	// rec-1 and rec-2 carry errors; rec-3 only a warning.
	if stats.ValidRecords != 2 {
		t.Errorf("ValidRecords = %d, want 2", stats.ValidRecords)
	}
	if stats.InvalidRecords != 2 {
		t.Errorf("InvalidRecords = %d, want 2", stats.InvalidRecords)
	}
	if stats.ErrorCount != 3 {
		t.Errorf("ErrorCount = %d, want 3", stats.ErrorCount)
	}
	if stats.WarningCount != 1 {
		t.Errorf("WarningCount = %d, want 1", stats.WarningCount)
	}
	if stats.SuccessRate != 50.0 {
		t.Errorf("SuccessRate = %f, want 50", stats.SuccessRate)
	}

	if !r.HasErrors() {
		t.Error("HasErrors should be true")
	}
	if !r.HasWarnings() {
		t.Error("HasWarnings should be true")
	}
}

func TestReport_EmptyBatchIsFullySuccessful(t *testing.T) {
	r := New()
	r.SetTotalRecords(0)
	r.Finish()

	stats := r.Stats()
	if stats.SuccessRate != 100.0 {
		t.Errorf("SuccessRate = %f, want 100", stats.SuccessRate)
	}
	if r.HasErrors() {
		t.Error("HasErrors should be false")
	}
}

func TestReport_InsertionOrderPreserved(t *testing.T) {
	r := New()
	r.AddError("a", "first", nil, "rec-1")
	r.AddWarning("b", "second", nil, "rec-1")
	r.AddError("c", "third", nil, "rec-2")

	entries := r.Entries()
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	for i, want := range []string{"first", "second", "third"} {
		if entries[i].Message != want {
			t.Errorf("entries[%d].Message = %q, want %q", i, entries[i].Message, want)
		}
	}

	errs := r.Errors()
	if len(errs) != 2 || errs[0].Field != "a" || errs[1].Field != "c" {
		t.Errorf("Errors() = %+v, want fields [a c]", errs)
	}
}

func TestReport_MarshalJSONShape(t *testing.T) {
	r := New()
	r.SetTotalRecords(1)
	r.AddWarning("vat", "vat format looks off", "X", "rec-1")
	r.Finish()

	raw, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"stats", "errors", "warnings", "infos"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("serialized report missing key %q", key)
		}
	}

	var errs []Entry
	if err := json.Unmarshal(doc["errors"], &errs); err != nil {
		t.Fatalf("errors should be an array even when empty: %v", err)
	}
	if len(errs) != 0 {
		t.Errorf("errors = %v, want empty", errs)
	}
}

func TestReport_ConcurrentAppends(t *testing.T) {
	r := New()
	r.SetTotalRecords(100)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if n%2 == 0 {
				r.AddError("f", "err", nil, "rec")
			} else {
				r.AddWarning("f", "warn", nil, "rec")
			}
		}(i)
	}
	wg.Wait()

	stats := r.Stats()
	if stats.ErrorCount != 50 || stats.WarningCount != 50 {
		t.Errorf("counts = (%d, %d), want (50, 50)", stats.ErrorCount, stats.WarningCount)
	}
}
