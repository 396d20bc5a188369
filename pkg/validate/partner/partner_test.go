package partner

import (
	"context"
	"testing"

	"github.com/erptools/preflight/pkg/record"
	"github.com/erptools/preflight/pkg/report"
)

func validPartner(name, email string) record.Record {
	return record.Record{
		"name":          name,
		"email":         email,
		"customer_rank": 1,
	}
}

func fieldEntries(entries []report.Entry, field string) []report.Entry {
	var out []report.Entry
	for _, e := range entries {
		if e.Field == field {
			out = append(out, e)
		}
	}
	return out
}

func TestValidate_CleanRecord(t *testing.T) {
	v := New()
	rpt := v.Validate(context.Background(), []record.Record{
		validPartner("Acme Corp", "info@acme.com"),
	})

	if rpt.HasErrors() {
		t.Fatalf("clean record produced errors: %+v", rpt.Errors())
	}
}

func TestEmailFormat(t *testing.T) {
	v := New()

	tests := []struct {
		email   string
		wantErr bool
	}{
		{"info@acme.com", false},
		{"first.last+tag@sub.acme.co", false},
		{"not-an-email", true},
		{"missing@tld", true},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			rpt := v.Validate(context.Background(), []record.Record{
				validPartner("Acme Corp", tt.email),
			})
			errs := fieldEntries(rpt.Errors(), "email")
			if tt.wantErr && len(errs) == 0 {
				t.Errorf("email %q accepted", tt.email)
			}
			if !tt.wantErr && len(errs) != 0 {
				t.Errorf("email %q rejected: %+v", tt.email, errs)
			}
		})
	}
}

func TestDuplicateEmails_CaseInsensitive(t *testing.T) {
	v := New()

	rpt := v.Validate(context.Background(), []record.Record{
		validPartner("Acme Corp", "Info@Acme.com"),
		validPartner("Other Corp", "other@example.com"),
		validPartner("Acme Duplicate", "info@acme.com"),
	})

	dupes := fieldEntries(rpt.Warnings(), "email")
	if len(dupes) != 1 {
		t.Fatalf("email duplicate warnings = %d, want exactly 1: %+v", len(dupes), dupes)
	}
	if dupes[0].RecordID != "partner[info@acme.com]" {
		t.Errorf("RecordID = %q, want the later occurrence", dupes[0].RecordID)
	}
}

func TestDuplicatePhones_NormalizedDigits(t *testing.T) {
	v := New()

	a := validPartner("Acme Corp", "a@acme.com")
	a["phone"] = "+1 (555) 123-4567"
	b := validPartner("Acme Branch", "b@acme.com")
	b["phone"] = "15551234567"

	rpt := v.Validate(context.Background(), []record.Record{a, b})

	if got := len(fieldEntries(rpt.Warnings(), "phone")); got < 1 {
		t.Errorf("phone duplicate warnings = %d, want at least 1", got)
	}
}

func TestVATRules(t *testing.T) {
	v := New()

	rec := validPartner("Acme Corp", "info@acme.com")
	rec["vat"] = "not a vat"
	rpt := v.Validate(context.Background(), []record.Record{rec})
	if len(fieldEntries(rpt.Warnings(), "vat")) == 0 {
		t.Error("malformed vat produced no warning")
	}

	company := validPartner("Acme Corp", "info@acme.com")
	company["is_company"] = true
	rpt = v.Validate(context.Background(), []record.Record{company})
	if len(fieldEntries(rpt.Warnings(), "vat")) == 0 {
		t.Error("company customer without vat produced no warning")
	}
}

func TestAddressConsistency(t *testing.T) {
	v := New()

	rec := validPartner("Acme Corp", "info@acme.com")
	rec["street"] = "1 Main St"
	rpt := v.Validate(context.Background(), []record.Record{rec})

	if len(fieldEntries(rpt.Warnings(), "city")) == 0 {
		t.Error("street without city produced no warning")
	}
	if len(fieldEntries(rpt.Warnings(), "country_id")) == 0 {
		t.Error("address without country produced no warning")
	}
}

func TestRankConsistency(t *testing.T) {
	v := New()

	neither := validPartner("Acme Corp", "info@acme.com")
	neither["customer_rank"] = 0
	rpt := v.Validate(context.Background(), []record.Record{neither})
	if len(fieldEntries(rpt.Errors(), "customer_rank")) == 0 {
		t.Error("partner with both ranks zero produced no error")
	}

	supplier := validPartner("Mill Co", "sales@mill.com")
	supplier["customer_rank"] = 0
	supplier["supplier_rank"] = 2
	rpt = v.Validate(context.Background(), []record.Record{supplier})
	if rpt.HasErrors() {
		t.Errorf("pure supplier rejected: %+v", rpt.Errors())
	}
}
