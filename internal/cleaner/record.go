package cleaner

import (
	"strings"

	"github.com/RichGutz/Scraper.Neoauto/internal/domain"
	"github.com/RichGutz/Scraper.Neoauto/internal/textnorm"
)

// ColumnMap names the listing-source columns for each canonical field.
// Lookups run against snake_cased header names, so "DateTime", "date-time"
// and "date_time" all resolve the same way.
type ColumnMap struct {
	URL         string
	DateTime    string
	Make        string
	Model       string
	Price       string
	Year        string
	Kilometers  string
	District    string
	SingleOwner string
}

// DefaultColumnMap matches the historical feed schema, including the
// unico_dueno single-owner flag.
func DefaultColumnMap() ColumnMap {
	return ColumnMap{
		URL:         "url",
		DateTime:    "date_time",
		Make:        "make",
		Model:       "model",
		Price:       "price",
		Year:        "year",
		Kilometers:  "kilometers",
		District:    "district",
		SingleOwner: "unico_dueno",
	}
}

// MapRecords converts caller-schema records into RawListings using the
// column map. Unknown columns are ignored; missing ones yield empty fields
// that the cleaning pass will judge.
func MapRecords(records []map[string]string, cm ColumnMap) []domain.RawListing {
	out := make([]domain.RawListing, 0, len(records))
	for _, rec := range records {
		norm := make(map[string]string, len(rec))
		for k, v := range rec {
			norm[textnorm.ToSnakeCase(strings.TrimSpace(k))] = v
		}

		field := func(name string) string {
			return strings.TrimSpace(norm[textnorm.ToSnakeCase(name)])
		}

		out = append(out, domain.RawListing{
			URL:         field(cm.URL),
			DateTime:    field(cm.DateTime),
			Make:        field(cm.Make),
			Model:       field(cm.Model),
			Price:       field(cm.Price),
			Year:        field(cm.Year),
			Kilometers:  field(cm.Kilometers),
			District:    field(cm.District),
			SingleOwner: field(cm.SingleOwner),
		})
	}
	return out
}
