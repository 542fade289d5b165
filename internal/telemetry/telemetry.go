// Package telemetry provides Prometheus metrics and OpenTelemetry tracing
// for the market analyzer pipeline.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "market-analyzer"

// Metrics holds all pipeline Prometheus metrics.
type Metrics struct {
	// Ingestion and cleaning
	ListingsIngested prometheus.Counter
	ListingsDropped  *prometheus.CounterVec // reason: duplicate, missing_fields, bad_timestamp
	BatchSize        prometheus.Histogram

	// Classification
	ListingsClassified prometheus.Counter
	RuleMatches        prometheus.Counter
	Fallbacks          prometheus.Counter
	UnknownModels      prometheus.Counter

	// Pipeline stages
	StageDuration *prometheus.HistogramVec // stage: clean, classify, aggregate, leads
	RunDuration   prometheus.Histogram

	// Outputs
	ModelsAggregated prometheus.Gauge
	AttractiveLeads  prometheus.Gauge
}

// Provider wraps the tracer and metrics handed through the pipeline.
type Provider struct {
	Tracer  trace.Tracer
	Metrics *Metrics
}

// NewProvider initializes telemetry with Prometheus metrics.
func NewProvider() *Provider {
	return &Provider{
		Tracer:  otel.Tracer(serviceName),
		Metrics: initMetrics(),
	}
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func (p *Provider) Handler() http.Handler {
	return promhttp.Handler()
}

func initMetrics() *Metrics {
	m := &Metrics{}

	m.ListingsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "analyzer_listings_ingested_total",
		Help: "Raw listing observations ingested",
	})
	m.ListingsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "analyzer_listings_dropped_total",
		Help: "Listings dropped during cleaning, by reason",
	}, []string{"reason"})
	m.BatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "analyzer_batch_size",
		Help:    "Listings per pipeline run",
		Buckets: []float64{10, 50, 100, 500, 1000, 5000, 10000, 50000},
	})

	m.ListingsClassified = promauto.NewCounter(prometheus.CounterOpts{
		Name: "analyzer_listings_classified_total",
		Help: "Listings assigned a canonical model base",
	})
	m.RuleMatches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "analyzer_rule_matches_total",
		Help: "Classifications resolved by a normalization rule",
	})
	m.Fallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "analyzer_classification_fallbacks_total",
		Help: "Classifications that fell back to verbatim passthrough",
	})
	m.UnknownModels = promauto.NewCounter(prometheus.CounterOpts{
		Name: "analyzer_unknown_models_total",
		Help: "Listings whose model resolved to the Unknown sentinel",
	})

	m.StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "analyzer_stage_duration_seconds",
		Help:    "Duration of each pipeline stage",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
	}, []string{"stage"})
	m.RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "analyzer_run_duration_seconds",
		Help:    "End-to-end duration of a pipeline run",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
	})

	m.ModelsAggregated = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "analyzer_models_aggregated",
		Help: "Distinct model slugs in the latest metrics table",
	})
	m.AttractiveLeads = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "analyzer_attractive_leads",
		Help: "Attractive leads found by the latest run",
	})

	return m
}
