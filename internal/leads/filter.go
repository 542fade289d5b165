// Package leads isolates recent listings priced attractively below their
// model's market aggregate. Output is a per-run report artifact, not a
// stored entity.
package leads

import (
	"math"
	"sort"
	"time"

	"github.com/RichGutz/Scraper.Neoauto/internal/domain"
	"github.com/RichGutz/Scraper.Neoauto/internal/logger"
)

// DefaultMinYear is the historical floor for lead candidates.
const DefaultMinYear = 2010

// Options tune the lead filter. Zero values fall back to the defaults used
// by the daily run.
type Options struct {
	// MinYear drops listings older than this model year.
	MinYear int
	// IncludeMultiOwner admits multi-owner listings. The default keeps only
	// single-owner listings, matching the daily report.
	IncludeMultiOwner bool
}

// Filter finds attractive leads.
type Filter struct {
	opts   Options
	logger logger.Logger
}

// NewFilter creates a lead filter.
func NewFilter(opts Options, log logger.Logger) *Filter {
	if opts.MinYear == 0 {
		opts.MinYear = DefaultMinYear
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Filter{opts: opts, logger: log}
}

// RecentWindow trims listings to observations within d of the newest
// observed timestamp. The caller picks the window (24h for the daily run,
// 48h for the weekly one). Empty input returns empty output.
func RecentWindow(listings []domain.Listing, d time.Duration) []domain.Listing {
	if len(listings) == 0 {
		return []domain.Listing{}
	}

	var newest time.Time
	for i := range listings {
		if listings[i].ObservedAt.After(newest) {
			newest = listings[i].ObservedAt
		}
	}
	cutoff := newest.Add(-d)

	out := make([]domain.Listing, 0, len(listings))
	for i := range listings {
		if !listings[i].ObservedAt.Before(cutoff) {
			out = append(out, listings[i])
		}
	}
	return out
}

// FilterAttractive narrows recent listings step by step: year floor, the
// single-owner flag, a left join to market metrics on (Make, ModelBase), and
// finally the attractiveness test price < mean_price. Every step may
// eliminate everything; an empty result is normal. Leads are annotated with
// opportunity_ratio = (price - mean_price) / mean_price and returned most
// attractive (most negative) first.
func (f *Filter) FilterAttractive(recent []domain.Listing, metrics []domain.MarketMetric) []domain.AttractiveLead {
	byModel := make(map[string]domain.MarketMetric, len(metrics))
	for _, m := range metrics {
		byModel[m.Make+"\x00"+m.ModelBase] = m
	}

	out := make([]domain.AttractiveLead, 0)
	yearFiltered, ownerFiltered := 0, 0

	for i := range recent {
		l := recent[i]
		if l.Year < f.opts.MinYear {
			continue
		}
		yearFiltered++

		if !f.opts.IncludeMultiOwner && !l.SingleOwner {
			continue
		}
		ownerFiltered++

		metric, ok := byModel[l.Make+"\x00"+l.ModelBase]
		if !ok || math.IsNaN(metric.MeanPrice) || metric.MeanPrice == 0 {
			continue
		}
		if l.Price >= metric.MeanPrice {
			continue
		}

		out = append(out, domain.AttractiveLead{
			Listing:          l,
			MeanPrice:        metric.MeanPrice,
			MeanYear:         metric.MeanYear,
			OpportunityRatio: (l.Price - metric.MeanPrice) / metric.MeanPrice,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].OpportunityRatio < out[j].OpportunityRatio
	})

	f.logger.Info("lead filtering complete",
		logger.Int("recent", len(recent)),
		logger.Int("after_year_floor", yearFiltered),
		logger.Int("after_owner_flag", ownerFiltered),
		logger.Int("attractive", len(out)),
	)
	return out
}
