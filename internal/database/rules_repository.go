package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/RichGutz/Scraper.Neoauto/internal/domain"
)

// RulesRepository handles database operations for normalization rules.
type RulesRepository struct {
	db *sqlx.DB
}

// NewRulesRepository creates a new rules repository.
func NewRulesRepository(db *sqlx.DB) *RulesRepository {
	return &RulesRepository{db: db}
}

// ListEnabled retrieves every enabled rule. Ordering is left to the rule
// table, which re-sorts by priority and pattern length on load.
func (r *RulesRepository) ListEnabled(ctx context.Context) ([]domain.NormalizationRule, error) {
	var rules []domain.NormalizationRule
	query := `
		SELECT id, make_match, pattern, match_type, target_model_base, priority, enabled,
		       created_at, updated_at
		FROM normalization_rules
		WHERE enabled = true
	`

	if err := r.db.SelectContext(ctx, &rules, query); err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	return rules, nil
}

// GetByID retrieves a rule by its ID.
func (r *RulesRepository) GetByID(ctx context.Context, id int) (*domain.NormalizationRule, error) {
	var rule domain.NormalizationRule
	query := `
		SELECT id, make_match, pattern, match_type, target_model_base, priority, enabled,
		       created_at, updated_at
		FROM normalization_rules
		WHERE id = $1
	`

	if err := r.db.GetContext(ctx, &rule, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("rule not found: %d", id)
		}
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}
	return &rule, nil
}

// Create inserts a new rule.
func (r *RulesRepository) Create(ctx context.Context, rule *domain.NormalizationRule) error {
	query := `
		INSERT INTO normalization_rules (make_match, pattern, match_type, target_model_base, priority, enabled)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx, query,
		rule.MakeMatch, rule.Pattern, rule.Match, rule.TargetModelBase, rule.Priority, rule.Enabled,
	).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create rule: %w", err)
	}
	return nil
}
