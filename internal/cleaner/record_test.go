package cleaner

import "testing"

func TestMapRecords(t *testing.T) {
	records := []map[string]string{
		{
			"URL":         " https://x/a ",
			"DateTime":    "2026-08-01 10:00:00",
			"Make":        "Toyota",
			"Model":       "Corolla",
			"Price":       "15000",
			"Year":        "2018",
			"Kilometers":  "45000",
			"District":    "Surco",
			"Unico Dueno": "true",
			"Extra":       "ignored",
		},
	}

	raws := MapRecords(records, DefaultColumnMap())
	if len(raws) != 1 {
		t.Fatalf("got %d records, want 1", len(raws))
	}
	r := raws[0]
	if r.URL != "https://x/a" {
		t.Errorf("URL = %q", r.URL)
	}
	if r.DateTime != "2026-08-01 10:00:00" {
		t.Errorf("DateTime = %q", r.DateTime)
	}
	if r.SingleOwner != "true" {
		t.Errorf("SingleOwner = %q", r.SingleOwner)
	}
}

func TestMapRecordsMissingColumns(t *testing.T) {
	raws := MapRecords([]map[string]string{{"url": "https://x/a"}}, DefaultColumnMap())
	if len(raws) != 1 {
		t.Fatalf("got %d records, want 1", len(raws))
	}
	if raws[0].Make != "" || raws[0].Price != "" {
		t.Errorf("missing columns should yield empty fields: %+v", raws[0])
	}
}
