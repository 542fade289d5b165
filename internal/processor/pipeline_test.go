package processor

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/RichGutz/Scraper.Neoauto/internal/aggregator"
	"github.com/RichGutz/Scraper.Neoauto/internal/cleaner"
	"github.com/RichGutz/Scraper.Neoauto/internal/domain"
	"github.com/RichGutz/Scraper.Neoauto/internal/leads"
)

func testPipeline() *Pipeline {
	return NewPipeline(
		cleaner.New(nil),
		NewBatchClassifier(testClassifier(), 4, nil, nil),
		aggregator.New(nil),
		leads.NewFilter(leads.Options{}, nil),
		nil,
		nil,
	)
}

func rawObservation(url, datetime, model, price, year string) domain.RawListing {
	return domain.RawListing{
		URL:         url,
		DateTime:    datetime,
		Make:        "Toyota",
		Model:       model,
		Price:       price,
		Year:        year,
		SingleOwner: "true",
	}
}

func TestPipelineRun(t *testing.T) {
	p := testPipeline()

	raw := []domain.RawListing{
		// corolla observed across three days at three prices
		rawObservation("u1", "2026-08-10 09:00:00", "Corolla XEI", "12000", "2017"),
		rawObservation("u1", "2026-08-11 09:00:00", "Corolla XEI", "12000", "2017"),
		rawObservation("u2", "2026-08-12 09:00:00", "Corolla GLI", "8000", "2018"),
		// exact duplicate row
		rawObservation("u2", "2026-08-12 09:00:00", "Corolla GLI", "8000", "2018"),
		// dirty row
		rawObservation("u3", "2026-08-12 09:00:00", "Corolla", "precio a tratar", "2018"),
	}

	result, err := p.Run(context.Background(), raw, Options{LeadWindow: 24 * time.Hour})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Summary.Input != 5 || result.Summary.Duplicates != 1 || result.Summary.MissingFields != 1 {
		t.Errorf("summary = %+v", result.Summary)
	}
	if len(result.Listings) != 3 {
		t.Fatalf("kept %d listings, want 3", len(result.Listings))
	}

	if len(result.Metrics) != 1 {
		t.Fatalf("got %d metrics, want 1", len(result.Metrics))
	}
	m := result.Metrics[0]
	if m.Slug != "toyota-corolla" {
		t.Errorf("slug = %q", m.Slug)
	}
	if m.UniqueListings != 2 {
		t.Errorf("UniqueListings = %d, want 2", m.UniqueListings)
	}
	// u1 seen twice, u2 once
	if m.FastSellingRatio != 0.5 {
		t.Errorf("FastSellingRatio = %v, want 0.5", m.FastSellingRatio)
	}
	if want := (12000.0 + 12000.0 + 8000.0) / 3.0; math.Abs(m.MeanPrice-want) > 1e-9 {
		t.Errorf("MeanPrice = %v, want %v", m.MeanPrice, want)
	}

	// only u2 is inside the 24h window and priced below the mean
	if len(result.Leads) != 1 {
		t.Fatalf("got %d leads, want 1", len(result.Leads))
	}
	lead := result.Leads[0]
	if lead.URL != "u2" {
		t.Errorf("lead URL = %q, want u2", lead.URL)
	}
	wantRatio := (8000.0 - m.MeanPrice) / m.MeanPrice
	if math.Abs(lead.OpportunityRatio-wantRatio) > 1e-9 {
		t.Errorf("OpportunityRatio = %v, want %v", lead.OpportunityRatio, wantRatio)
	}

	// appearance counts written back post-dedup
	for _, l := range result.Listings {
		want := 1
		if l.URL == "u1" {
			want = 2
		}
		if l.AppearanceCount != want {
			t.Errorf("AppearanceCount for %s = %d, want %d", l.URL, l.AppearanceCount, want)
		}
	}
}

func TestPipelineRunEmptyInput(t *testing.T) {
	p := testPipeline()

	result, err := p.Run(context.Background(), nil, Options{LeadWindow: 24 * time.Hour})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Listings) != 0 || len(result.Metrics) != 0 || len(result.Leads) != 0 {
		t.Errorf("empty input produced output: %+v", result)
	}
}

func TestPipelineRunCancelled(t *testing.T) {
	p := testPipeline()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	raw := []domain.RawListing{
		rawObservation("u1", "2026-08-10 09:00:00", "Corolla", "12000", "2017"),
	}
	if _, err := p.Run(ctx, raw, Options{LeadWindow: 24 * time.Hour}); err == nil {
		t.Fatal("expected context error")
	}
}

func TestPipelineRanAtIsUTC(t *testing.T) {
	p := testPipeline()

	result, err := p.Run(context.Background(), nil, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.RanAt.Location() != time.UTC {
		t.Errorf("RanAt location = %v, want UTC", result.RanAt.Location())
	}
	if time.Since(result.RanAt) > time.Minute {
		t.Errorf("RanAt looks stale: %v", result.RanAt)
	}
}
