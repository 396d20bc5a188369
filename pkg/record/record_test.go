package record

import (
	"testing"
	"time"
)

func TestRecord_Has(t *testing.T) {
	rec := Record{
		"name":    "Acralube",
		"blank":   "   ",
		"zero":    0.0,
		"nothing": nil,
		"tags":    []any{},
		"lines":   []any{map[string]any{"qty": 1.0}},
	}

	tests := []struct {
		field string
		want  bool
	}{
		{"name", true},
		{"blank", false},
		{"zero", true},
		{"nothing", false},
		{"tags", false},
		{"lines", true},
		{"missing", false},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			if got := rec.Has(tt.field); got != tt.want {
				t.Errorf("Has(%q) = %v, want %v", tt.field, got, tt.want)
			}
		})
	}
}

func TestToInt(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		want   int64
		wantOK bool
	}{
		{"int", 42, 42, true},
		{"int64", int64(7), 7, true},
		{"integral float", 42.0, 42, true},
		{"fractional float", 42.5, 0, false},
		{"string", "42", 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToInt(tt.value)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ToInt(%v) = (%d, %v), want (%d, %v)", tt.value, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestToTime(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		wantOK bool
	}{
		{"date only", "2025-06-01", true},
		{"datetime", "2025-06-01 14:30:00", true},
		{"rfc3339", "2025-06-01T14:30:00Z", true},
		{"garbage", "not a date", false},
		{"number", 1717245000.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ToTime(tt.value)
			if ok != tt.wantOK {
				t.Errorf("ToTime(%v) ok = %v, want %v", tt.value, ok, tt.wantOK)
			}
		})
	}

	ts := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	got, ok := ToTime(ts)
	if !ok || !got.Equal(ts) {
		t.Errorf("ToTime(time.Time) = (%v, %v), want (%v, true)", got, ok, ts)
	}
}

func TestParseRelation(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		wantID  int64
		wantErr bool
		wantNil bool
	}{
		{"valid tuple", []any{42.0, "Acralube"}, 42, false, false},
		{"nil value", nil, 0, false, true},
		{"one element", []any{42.0}, 0, true, false},
		{"three elements", []any{42.0, "x", "y"}, 0, true, false},
		{"string scalar", "42", 0, true, false},
		{"non-integer id", []any{"42", "Acralube"}, 0, true, false},
		{"non-string label", []any{42.0, 7.0}, 0, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rel, err := ParseRelation(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRelation(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if tt.wantNil {
				if rel != nil {
					t.Fatalf("expected nil relation, got %+v", rel)
				}
				return
			}
			if rel == nil || rel.ID != tt.wantID {
				t.Errorf("ParseRelation(%v) = %+v, want ID %d", tt.value, rel, tt.wantID)
			}
		})
	}
}

func TestParseMultiRelation(t *testing.T) {
	ids, err := ParseMultiRelation([]any{1.0, 2.0, 3.0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 3 || ids[0] != 1 || ids[2] != 3 {
		t.Errorf("ParseMultiRelation = %v, want [1 2 3]", ids)
	}

	if _, err := ParseMultiRelation([]any{1.0, "two"}); err == nil {
		t.Error("expected error for non-integer element")
	}

	if _, err := ParseMultiRelation("1,2,3"); err == nil {
		t.Error("expected error for non-array value")
	}
}
