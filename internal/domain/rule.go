package domain

import (
	"strings"
	"time"
)

// MatchType selects the comparison a normalization rule applies to a model
// string. It is a closed set; rows carrying any other value are skipped at
// load time so an invalid match type can never surface mid-classification.
type MatchType string

const (
	MatchExact      MatchType = "exact"
	MatchStartsWith MatchType = "startswith"
	MatchContains   MatchType = "contains"
)

// ParseMatchType maps a raw string onto a MatchType. The second return is
// false for anything outside the closed set.
func ParseMatchType(s string) (MatchType, bool) {
	switch MatchType(strings.ToLower(strings.TrimSpace(s))) {
	case MatchExact:
		return MatchExact, true
	case MatchStartsWith:
		return MatchStartsWith, true
	case MatchContains:
		return MatchContains, true
	default:
		return "", false
	}
}

// NormalizationRule maps a raw model pattern onto a canonical model base for
// a single make. Rules are immutable once loaded.
type NormalizationRule struct {
	ID              int       `db:"id"                json:"id"`
	MakeMatch       string    `db:"make_match"        json:"make_match"`        // lowercased canonical make
	Pattern         string    `db:"pattern"           json:"pattern"`           // lowercased
	Match           MatchType `db:"match_type"        json:"match_type"`
	TargetModelBase string    `db:"target_model_base" json:"target_model_base"` // canonical display value, casing preserved
	Priority        int       `db:"priority"          json:"priority"`          // higher evaluated first
	Enabled         bool      `db:"enabled"           json:"enabled"`
	CreatedAt       time.Time `db:"created_at"        json:"created_at,omitzero"`
	UpdatedAt       time.Time `db:"updated_at"        json:"updated_at,omitzero"`
}

// Matches reports whether the rule applies to an already-normalized
// (lowercased, trimmed) model string.
func (r NormalizationRule) Matches(modelNorm string) bool {
	switch r.Match {
	case MatchExact:
		return modelNorm == r.Pattern
	case MatchStartsWith:
		return strings.HasPrefix(modelNorm, r.Pattern)
	case MatchContains:
		return strings.Contains(modelNorm, r.Pattern)
	default:
		return false
	}
}
