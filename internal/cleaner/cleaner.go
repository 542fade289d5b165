// Package cleaner turns raw feed observations into typed, deduplicated
// listings. Dirty rows are dropped and counted, never logged one by one; an
// empty result is a normal outcome, not an error.
package cleaner

import (
	"strconv"
	"strings"
	"time"

	"github.com/RichGutz/Scraper.Neoauto/internal/domain"
	"github.com/RichGutz/Scraper.Neoauto/internal/logger"
)

// Summary counts what each cleaning step removed from one batch.
type Summary struct {
	Input         int `json:"input"`
	Duplicates    int `json:"duplicates"`
	MissingFields int `json:"missing_fields"`
	BadTimestamps int `json:"bad_timestamps"`
	Kept          int `json:"kept"`
}

// Cleaner validates and coerces raw listings.
type Cleaner struct {
	logger logger.Logger
}

// New creates a Cleaner.
func New(log logger.Logger) *Cleaner {
	if log == nil {
		log = logger.NewNop()
	}
	return &Cleaner{logger: log}
}

// timestampLayouts are tried in order when parsing observation times.
// The feed historically emitted both RFC 3339 and bare "2006-01-02 15:04:05".
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Clean deduplicates by (url, datetime), coerces price and year, parses
// timestamps, and drops rows missing any indispensable field. Re-observation
// of the same URL at a different time is expected and survives; only exact
// double-ingestion is removed. Classification fields (make canonical, model
// base, slug) are filled later by the classifier.
func (c *Cleaner) Clean(raw []domain.RawListing) ([]domain.Listing, Summary) {
	summary := Summary{Input: len(raw)}
	seen := make(map[string]struct{}, len(raw))
	out := make([]domain.Listing, 0, len(raw))

	for _, r := range raw {
		key := r.URL + "\x00" + r.DateTime
		if _, dup := seen[key]; dup {
			summary.Duplicates++
			continue
		}
		seen[key] = struct{}{}

		price, priceOK := parsePrice(r.Price)
		year, yearOK := parseYear(r.Year)

		if r.URL == "" || r.DateTime == "" || r.Make == "" || r.Model == "" || !priceOK || !yearOK {
			summary.MissingFields++
			continue
		}

		observedAt, ok := parseTimestamp(r.DateTime)
		if !ok {
			summary.BadTimestamps++
			continue
		}

		out = append(out, domain.Listing{
			URL:         r.URL,
			ObservedAt:  observedAt,
			Make:        r.Make,
			Model:       r.Model,
			Price:       price,
			Year:        year,
			Kilometers:  r.Kilometers,
			District:    r.District,
			SingleOwner: ParseOwnerFlag(r.SingleOwner),
		})
	}

	summary.Kept = len(out)
	c.logger.Info("cleaning complete",
		logger.Int("input", summary.Input),
		logger.Int("duplicates", summary.Duplicates),
		logger.Int("missing_fields", summary.MissingFields),
		logger.Int("bad_timestamps", summary.BadTimestamps),
		logger.Int("kept", summary.Kept),
	)
	return out, summary
}

// AttachAppearanceCounts computes, for every URL, how many distinct
// (url, datetime) observations the historical dataset holds, and writes that
// count back onto each listing of the URL. Rows are already deduplicated, so
// the count is the number of surviving rows per URL. The count is the
// market-velocity signal: 1 means the advertisement vanished before being
// re-observed.
func AttachAppearanceCounts(listings []domain.Listing) {
	counts := make(map[string]int, len(listings))
	for i := range listings {
		counts[listings[i].URL]++
	}
	for i := range listings {
		listings[i].AppearanceCount = counts[listings[i].URL]
	}
}

// ParseOwnerFlag coerces the single-owner column, which arrives as a real
// boolean from some sources and as free text from others.
func ParseOwnerFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "1", "yes", "si", "sí":
		return true
	default:
		return false
	}
}

func parsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	s = strings.TrimPrefix(s, "$")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func parseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	// Numeric feeds sometimes serialize years as floats ("2015.0").
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return int(v), true
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
