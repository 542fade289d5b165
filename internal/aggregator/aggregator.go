// Package aggregator computes per-model market statistics from the cleaned,
// classified listing set. The whole table is recomputed on every run; there
// is no incremental path.
package aggregator

import (
	"math"
	"sort"

	"github.com/RichGutz/Scraper.Neoauto/internal/domain"
	"github.com/RichGutz/Scraper.Neoauto/internal/logger"
)

// Aggregator groups listings by canonical model and derives MarketMetrics.
type Aggregator struct {
	logger logger.Logger
}

// New creates an Aggregator.
func New(log logger.Logger) *Aggregator {
	if log == nil {
		log = logger.NewNop()
	}
	return &Aggregator{logger: log}
}

type group struct {
	make_     string
	modelBase string
	slug      string
	prices    []float64
	years     []int
	urlRows   map[string]int // rows per URL within the group
}

// Aggregate computes one MarketMetric per distinct (make, model base, slug)
// triple. Distinct model base spellings stay distinct even when they
// slugify identically. Row counts and price statistics run over all
// observations; unique_listings counts distinct URLs, so a listing observed
// five times still counts once. The fast-selling ratio is the fraction of
// the group's distinct URLs observed exactly once across the historical
// window. Groups with a single listing yield degenerate but valid metrics
// (median = mean = min = max).
func (a *Aggregator) Aggregate(listings []domain.Listing) []domain.MarketMetric {
	if len(listings) == 0 {
		return []domain.MarketMetric{}
	}

	groups := make(map[string]*group)
	for i := range listings {
		l := &listings[i]
		key := l.Make + "\x00" + l.ModelBase + "\x00" + l.Slug
		g, ok := groups[key]
		if !ok {
			g = &group{
				make_:     l.Make,
				modelBase: l.ModelBase,
				slug:      l.Slug,
				urlRows:   make(map[string]int),
			}
			groups[key] = g
		}
		g.prices = append(g.prices, l.Price)
		g.years = append(g.years, l.Year)
		g.urlRows[l.URL]++
	}

	metrics := make([]domain.MarketMetric, 0, len(groups))
	for _, g := range groups {
		metrics = append(metrics, domain.MarketMetric{
			Make:             g.make_,
			ModelBase:        g.modelBase,
			Slug:             g.slug,
			UniqueListings:   len(g.urlRows),
			MedianPrice:      median(g.prices),
			MeanPrice:        mean(g.prices),
			MinPrice:         minOf(g.prices),
			MaxPrice:         maxOf(g.prices),
			MeanYear:         meanYears(g.years),
			FastSellingRatio: fastSellingRatio(g.urlRows),
		})
	}

	// Deterministic report order: busiest models first.
	sort.Slice(metrics, func(i, j int) bool {
		if metrics[i].UniqueListings != metrics[j].UniqueListings {
			return metrics[i].UniqueListings > metrics[j].UniqueListings
		}
		if metrics[i].Slug != metrics[j].Slug {
			return metrics[i].Slug < metrics[j].Slug
		}
		return metrics[i].ModelBase < metrics[j].ModelBase
	})

	a.logger.Info("market metrics computed",
		logger.Int("listings", len(listings)),
		logger.Int("models", len(metrics)),
	)
	return metrics
}

// fastSellingRatio is (# URLs with exactly one observation) / (# distinct
// URLs). NaN when the group holds no URLs; never a division by zero.
func fastSellingRatio(urlRows map[string]int) float64 {
	if len(urlRows) == 0 {
		return math.NaN()
	}
	once := 0
	for _, rows := range urlRows {
		if rows == 1 {
			once++
		}
	}
	return float64(once) / float64(len(urlRows))
}

func median(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func meanYears(years []int) float64 {
	if len(years) == 0 {
		return math.NaN()
	}
	var sum int
	for _, y := range years {
		sum += y
	}
	return float64(sum) / float64(len(years))
}

func minOf(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
