package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/time/rate"

	"github.com/RichGutz/Scraper.Neoauto/internal/domain"
	"github.com/RichGutz/Scraper.Neoauto/internal/logger"
)

const (
	// DefaultPageSize is how many raw rows one page fetch returns.
	DefaultPageSize = 1000
	// fetchRateInterval spaces page fetches so a full-history pull does not
	// monopolize the shared database.
	fetchRateInterval = 100 * time.Millisecond
)

// ListingsRepository reads raw listing observations. Everything comes back
// as free text; cleaning and typing happen in the pipeline, not in SQL.
type ListingsRepository struct {
	db       *sqlx.DB
	limiter  *rate.Limiter
	pageSize int
	logger   logger.Logger
}

// NewListingsRepository creates a listings repository.
func NewListingsRepository(db *sqlx.DB, pageSize int, log logger.Logger) *ListingsRepository {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &ListingsRepository{
		db:       db,
		limiter:  rate.NewLimiter(rate.Every(fetchRateInterval), 1),
		pageSize: pageSize,
		logger:   log,
	}
}

// rawRow scans the raw listings table, tolerating nulls in every column.
type rawRow struct {
	URL         sql.NullString `db:"url"`
	DateTime    sql.NullString `db:"date_time"`
	Make        sql.NullString `db:"make"`
	Model       sql.NullString `db:"model"`
	Price       sql.NullString `db:"price"`
	Year        sql.NullString `db:"year"`
	Kilometers  sql.NullString `db:"kilometers"`
	District    sql.NullString `db:"district"`
	SingleOwner sql.NullString `db:"unico_dueno"`
}

func (r rawRow) toDomain() domain.RawListing {
	return domain.RawListing{
		URL:         r.URL.String,
		DateTime:    r.DateTime.String,
		Make:        r.Make.String,
		Model:       r.Model.String,
		Price:       r.Price.String,
		Year:        r.Year.String,
		Kilometers:  r.Kilometers.String,
		District:    r.District.String,
		SingleOwner: r.SingleOwner.String,
	}
}

// FetchSince pages through every observation on or after the given instant,
// newest first. Page fetches are rate limited; the whole pull is snapshot
// semantics as far as the pipeline cares (re-running on the same data
// reproduces the same output).
func (r *ListingsRepository) FetchSince(ctx context.Context, since time.Time) ([]domain.RawListing, error) {
	query := `
		SELECT url, date_time, make, model, price, year, kilometers, district, unico_dueno
		FROM listings_raw
		WHERE date_time >= $1
		ORDER BY date_time DESC
		LIMIT $2 OFFSET $3
	`

	var all []domain.RawListing
	offset := 0
	for {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		var page []rawRow
		if err := r.db.SelectContext(ctx, &page, query, since, r.pageSize, offset); err != nil {
			return nil, fmt.Errorf("failed to fetch listings page at offset %d: %w", offset, err)
		}

		for _, row := range page {
			all = append(all, row.toDomain())
		}

		if len(page) < r.pageSize {
			break
		}
		offset += r.pageSize
	}

	r.logger.Info("raw listings fetched",
		logger.Int("rows", len(all)),
		logger.Time("since", since),
	)
	return all, nil
}
