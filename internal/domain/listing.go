package domain

import "time"

// Unknown is the display sentinel for makes and models that arrive empty or
// as one of the empty-like feed values.
const Unknown = "Unknown"

// RawListing is one scraped advertisement observation exactly as it arrives
// from the feed: every field is still free text. Field names follow the
// canonical snake_case schema produced by the record mapper.
type RawListing struct {
	URL         string `json:"url"`
	DateTime    string `json:"date_time"`
	Make        string `json:"make"`
	Model       string `json:"model"`
	Price       string `json:"price"`
	Year        string `json:"year"`
	Kilometers  string `json:"kilometers"`
	District    string `json:"district"`
	SingleOwner string `json:"single_owner"`
}

// Listing is a cleaned, classified observation. A listing is valid only when
// URL, ObservedAt, Make, Model, ModelBase, Price and Year are all present;
// rows failing that are dropped during cleaning, not imputed.
type Listing struct {
	URL         string    `db:"url"          json:"url"`
	ObservedAt  time.Time `db:"observed_at"  json:"observed_at"`
	Make        string    `db:"make"         json:"make"`       // canonical, title-cased
	Model       string    `db:"model"        json:"model"`      // standardized display model
	ModelBase   string    `db:"model_base"   json:"model_base"` // canonical grouping
	Slug        string    `db:"slug"         json:"slug"`
	Price       float64   `db:"price"        json:"price"`
	Year        int       `db:"year"         json:"year"`
	Kilometers  string    `db:"kilometers"   json:"kilometers"`
	District    string    `db:"district"     json:"district"`
	SingleOwner bool      `db:"single_owner" json:"single_owner"`

	// AppearanceCount is how many distinct (URL, ObservedAt) observations
	// share this listing's URL across the whole historical dataset. A value
	// of 1 means the advertisement was never re-observed.
	AppearanceCount int `db:"appearance_count" json:"appearance_count"`
}

// ClassifiedModel is the canonical identity the classifier derives for one
// raw (make, model) pair. Slug is deterministic for a given make and model
// base and is the stable join key across aggregation and reporting.
type ClassifiedModel struct {
	Make      string `json:"make"`
	Model     string `json:"model"`
	ModelBase string `json:"model_base"`
	Slug      string `json:"slug"`

	// RuleMatched is true when a normalization rule resolved the model base,
	// false for the passthrough fallback. Diagnostic only.
	RuleMatched bool `json:"-"`
}
