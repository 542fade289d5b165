package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/RichGutz/Scraper.Neoauto/internal/domain"
)

// LeadsRepository stores the attractive leads each run produces. Leads are
// report artifacts; rows are keyed by run so downstream senders can pull
// exactly one day's batch.
type LeadsRepository struct {
	db *sqlx.DB
}

// NewLeadsRepository creates a leads repository.
func NewLeadsRepository(db *sqlx.DB) *LeadsRepository {
	return &LeadsRepository{db: db}
}

// InsertRun stores one run's leads under its run timestamp.
func (r *LeadsRepository) InsertRun(ctx context.Context, runAt time.Time, leads []domain.AttractiveLead) error {
	if len(leads) == 0 {
		return nil
	}

	query := `
		INSERT INTO attractive_leads
			(run_at, url, observed_at, make, model, model_base, slug, price, year,
			 kilometers, district, single_owner, appearance_count, mean_price, mean_year, opportunity_ratio)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin leads transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	for _, l := range leads {
		if _, err = tx.ExecContext(ctx, query,
			runAt, l.URL, l.ObservedAt, l.Make, l.Model, l.ModelBase, l.Slug, l.Price, l.Year,
			l.Kilometers, l.District, l.SingleOwner, l.AppearanceCount, l.MeanPrice, l.MeanYear, l.OpportunityRatio,
		); err != nil {
			return fmt.Errorf("insert lead %s: %w", l.URL, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit leads transaction: %w", err)
	}
	return nil
}

// LatestRun returns the leads of the most recent run, most attractive first.
func (r *LeadsRepository) LatestRun(ctx context.Context) ([]domain.AttractiveLead, error) {
	query := `
		SELECT url, observed_at, make, model, model_base, slug, price, year,
		       kilometers, district, single_owner, appearance_count, mean_price, mean_year, opportunity_ratio
		FROM attractive_leads
		WHERE run_at = (SELECT MAX(run_at) FROM attractive_leads)
		ORDER BY opportunity_ratio ASC
	`

	var leads []domain.AttractiveLead
	if err := r.db.SelectContext(ctx, &leads, query); err != nil {
		return nil, fmt.Errorf("failed to load leads: %w", err)
	}
	return leads, nil
}
