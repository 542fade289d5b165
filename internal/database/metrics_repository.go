package database

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/RichGutz/Scraper.Neoauto/internal/domain"
)

// MetricsRepository persists the per-model market metrics table. Metrics are
// recomputed wholesale each run, so writes replace the previous table in one
// transaction.
type MetricsRepository struct {
	db *sqlx.DB
}

// NewMetricsRepository creates a metrics repository.
func NewMetricsRepository(db *sqlx.DB) *MetricsRepository {
	return &MetricsRepository{db: db}
}

// ReplaceAll swaps the stored metrics for the freshly computed set. An
// undefined fast-selling ratio (NaN) is stored as NULL.
func (r *MetricsRepository) ReplaceAll(ctx context.Context, metrics []domain.MarketMetric, computedAt time.Time) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin metrics transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err = tx.ExecContext(ctx, `DELETE FROM market_metrics`); err != nil {
		return fmt.Errorf("clear market metrics: %w", err)
	}

	query := `
		INSERT INTO market_metrics
			(make, model_base, slug, unique_listings, median_price, mean_price,
			 min_price, max_price, mean_year, fast_selling_ratio, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	for _, m := range metrics {
		fsr := sql.NullFloat64{Float64: m.FastSellingRatio, Valid: !math.IsNaN(m.FastSellingRatio)}
		if _, err = tx.ExecContext(ctx, query,
			m.Make, m.ModelBase, m.Slug, m.UniqueListings, m.MedianPrice, m.MeanPrice,
			m.MinPrice, m.MaxPrice, m.MeanYear, fsr, computedAt,
		); err != nil {
			return fmt.Errorf("insert metric for %s: %w", m.Slug, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit metrics transaction: %w", err)
	}
	return nil
}

// Latest returns the stored metrics table.
func (r *MetricsRepository) Latest(ctx context.Context) ([]domain.MarketMetric, error) {
	type metricRow struct {
		domain.MarketMetric
		FSR sql.NullFloat64 `db:"fast_selling_ratio"`
	}

	query := `
		SELECT make, model_base, slug, unique_listings, median_price, mean_price,
		       min_price, max_price, mean_year, fast_selling_ratio
		FROM market_metrics
		ORDER BY unique_listings DESC, slug ASC
	`

	var rows []metricRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to load market metrics: %w", err)
	}

	out := make([]domain.MarketMetric, 0, len(rows))
	for _, row := range rows {
		m := row.MarketMetric
		if row.FSR.Valid {
			m.FastSellingRatio = row.FSR.Float64
		} else {
			m.FastSellingRatio = math.NaN()
		}
		out = append(out, m)
	}
	return out, nil
}
