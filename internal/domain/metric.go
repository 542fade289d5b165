package domain

// MarketMetric is one row of per-model market statistics, keyed by slug.
// The whole set is recomputed from scratch on every run.
type MarketMetric struct {
	Make           string  `db:"make"            json:"make"`
	ModelBase      string  `db:"model_base"      json:"model_base"`
	Slug           string  `db:"slug"            json:"slug"`
	UniqueListings int     `db:"unique_listings" json:"unique_listings"`
	MedianPrice    float64 `db:"median_price"    json:"median_price"`
	MeanPrice      float64 `db:"mean_price"      json:"mean_price"`
	MinPrice       float64 `db:"min_price"       json:"min_price"`
	MaxPrice       float64 `db:"max_price"       json:"max_price"`
	MeanYear       float64 `db:"mean_year"       json:"mean_year"`

	// FastSellingRatio is the fraction of the model's distinct URLs observed
	// exactly once historically, in [0,1]. NaN when the group has no URLs.
	FastSellingRatio float64 `db:"fast_selling_ratio" json:"fast_selling_ratio"`
}

// AttractiveLead is a recent listing priced below its model's historical
// mean. It is a per-run report artifact, not a long-lived entity.
type AttractiveLead struct {
	Listing

	MeanPrice float64 `db:"mean_price" json:"mean_price"`
	MeanYear  float64 `db:"mean_year"  json:"mean_year"`

	// OpportunityRatio is (price - mean_price) / mean_price; always <= 0,
	// more negative meaning further below market.
	OpportunityRatio float64 `db:"opportunity_ratio" json:"opportunity_ratio"`
}
