// Package processor orchestrates the batch pipeline: clean, classify,
// aggregate, filter leads. It runs deterministically to completion on a
// fixed input snapshot; all I/O happens before or after, never inside.
package processor

import (
	"context"
	"time"

	"github.com/RichGutz/Scraper.Neoauto/internal/aggregator"
	"github.com/RichGutz/Scraper.Neoauto/internal/cleaner"
	"github.com/RichGutz/Scraper.Neoauto/internal/domain"
	"github.com/RichGutz/Scraper.Neoauto/internal/leads"
	"github.com/RichGutz/Scraper.Neoauto/internal/logger"
	"github.com/RichGutz/Scraper.Neoauto/internal/telemetry"
	"go.opentelemetry.io/otel/trace"
)

// Options tune one pipeline run.
type Options struct {
	// LeadWindow trims lead candidates to observations within this duration
	// of the newest timestamp (24h daily run, 48h weekly run). The year
	// floor and owner policy live on the lead filter itself.
	LeadWindow time.Duration
}

// RunResult is everything one pipeline run produces.
type RunResult struct {
	Listings []domain.Listing       `json:"-"`
	Metrics  []domain.MarketMetric  `json:"metrics"`
	Leads    []domain.AttractiveLead `json:"leads"`
	Summary  cleaner.Summary         `json:"summary"`
	RanAt    time.Time               `json:"ran_at"`
}

// Pipeline wires the core stages together over one immutable rule table.
type Pipeline struct {
	cleaner    *cleaner.Cleaner
	batch      *BatchClassifier
	aggregator *aggregator.Aggregator
	filter     *leads.Filter
	telemetry  *telemetry.Provider
	logger     logger.Logger
}

// NewPipeline creates a Pipeline from already-constructed stages.
func NewPipeline(
	cl *cleaner.Cleaner,
	batch *BatchClassifier,
	agg *aggregator.Aggregator,
	filter *leads.Filter,
	tp *telemetry.Provider,
	log logger.Logger,
) *Pipeline {
	if log == nil {
		log = logger.NewNop()
	}
	return &Pipeline{
		cleaner:    cl,
		batch:      batch,
		aggregator: agg,
		filter:     filter,
		telemetry:  tp,
		logger:     log,
	}
}

// Run executes the full pipeline on a snapshot of raw observations. Empty
// input, or input that empties out at any stage, yields an empty result,
// never an error. Each stage produces a fresh collection; nothing is shared
// mutably across stages.
func (p *Pipeline) Run(ctx context.Context, raw []domain.RawListing, opts Options) (*RunResult, error) {
	runStart := time.Now()

	if p.telemetry != nil {
		var span trace.Span
		ctx, span = p.telemetry.Tracer.Start(ctx, "pipeline.run")
		defer span.End()

		p.telemetry.Metrics.ListingsIngested.Add(float64(len(raw)))
		p.telemetry.Metrics.BatchSize.Observe(float64(len(raw)))
	}

	// Clean
	stageStart := time.Now()
	listings, summary := p.cleaner.Clean(raw)
	p.observeStage("clean", stageStart)
	if p.telemetry != nil {
		m := p.telemetry.Metrics
		m.ListingsDropped.WithLabelValues("duplicate").Add(float64(summary.Duplicates))
		m.ListingsDropped.WithLabelValues("missing_fields").Add(float64(summary.MissingFields))
		m.ListingsDropped.WithLabelValues("bad_timestamp").Add(float64(summary.BadTimestamps))
	}

	// Classify
	stageStart = time.Now()
	p.batch.Classify(ctx, listings)
	listings = dropUnclassifiable(listings)
	cleaner.AttachAppearanceCounts(listings)
	p.observeStage("classify", stageStart)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Aggregate
	stageStart = time.Now()
	metrics := p.aggregator.Aggregate(listings)
	p.observeStage("aggregate", stageStart)

	// Leads
	stageStart = time.Now()
	recent := leads.RecentWindow(listings, opts.LeadWindow)
	attractive := p.filter.FilterAttractive(recent, metrics)
	p.observeStage("leads", stageStart)

	if p.telemetry != nil {
		p.telemetry.Metrics.ModelsAggregated.Set(float64(len(metrics)))
		p.telemetry.Metrics.AttractiveLeads.Set(float64(len(attractive)))
		p.telemetry.Metrics.RunDuration.Observe(time.Since(runStart).Seconds())
	}

	p.logger.Info("pipeline run complete",
		logger.Int("raw", len(raw)),
		logger.Int("cleaned", len(listings)),
		logger.Int("models", len(metrics)),
		logger.Int("leads", len(attractive)),
		logger.Duration("duration", time.Since(runStart)),
	)

	return &RunResult{
		Listings: listings,
		Metrics:  metrics,
		Leads:    attractive,
		Summary:  summary,
		RanAt:    runStart.UTC(),
	}, nil
}

// dropUnclassifiable enforces the indispensable-field invariant after
// classification. The classifier always produces a model base, so this is a
// guard against future regressions rather than a working filter.
func dropUnclassifiable(listings []domain.Listing) []domain.Listing {
	out := listings[:0]
	for _, l := range listings {
		if l.ModelBase == "" || l.Slug == "" {
			continue
		}
		out = append(out, l)
	}
	return out
}

func (p *Pipeline) observeStage(stage string, start time.Time) {
	if p.telemetry != nil {
		p.telemetry.Metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	}
}
