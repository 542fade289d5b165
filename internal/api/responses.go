package api

import (
	"math"
	"time"

	"github.com/RichGutz/Scraper.Neoauto/internal/domain"
)

// MetricResponse is a market metric row shaped for JSON. The fast-selling
// ratio is a pointer because the stored value can be NaN, which JSON cannot
// encode; undefined ratios serialize as null.
type MetricResponse struct {
	Make             string   `json:"make"`
	ModelBase        string   `json:"model_base"`
	Slug             string   `json:"slug"`
	UniqueListings   int      `json:"unique_listings"`
	MedianPrice      float64  `json:"median_price"`
	MeanPrice        float64  `json:"mean_price"`
	MinPrice         float64  `json:"min_price"`
	MaxPrice         float64  `json:"max_price"`
	MeanYear         float64  `json:"mean_year"`
	FastSellingRatio *float64 `json:"fast_selling_ratio"`
}

// MetricsListResponse is the metrics collection with metadata.
type MetricsListResponse struct {
	Metrics []MetricResponse `json:"metrics"`
	Total   int              `json:"total"`
}

// LeadResponse is an attractive lead shaped for JSON.
type LeadResponse struct {
	URL              string    `json:"url"`
	ObservedAt       time.Time `json:"observed_at"`
	Make             string    `json:"make"`
	Model            string    `json:"model"`
	ModelBase        string    `json:"model_base"`
	Slug             string    `json:"slug"`
	Price            float64   `json:"price"`
	Year             int       `json:"year"`
	Kilometers       string    `json:"kilometers"`
	District         string    `json:"district"`
	SingleOwner      bool      `json:"single_owner"`
	MeanPrice        float64   `json:"mean_price"`
	OpportunityRatio float64   `json:"opportunity_ratio"`
}

// LeadsListResponse is the lead collection with metadata.
type LeadsListResponse struct {
	Leads []LeadResponse `json:"leads"`
	Total int            `json:"total"`
}

// RuleResponse is a normalization rule shaped for JSON.
type RuleResponse struct {
	ID        int    `json:"id,omitempty"`
	MakeMatch string `json:"make_rule_match"`
	Pattern   string `json:"model_pattern"`
	MatchType string `json:"match_type"`
	Target    string `json:"model_base_target"`
	Priority  int    `json:"priority"`
	Enabled   bool   `json:"enabled"`
}

// RulesListResponse is the rule collection with metadata.
type RulesListResponse struct {
	Rules []RuleResponse `json:"rules"`
	Total int            `json:"total"`
}

// CreateRuleRequest is the payload for creating a rule.
type CreateRuleRequest struct {
	MakeMatch string `json:"make_rule_match"   binding:"required"`
	Pattern   string `json:"model_pattern"     binding:"required"`
	MatchType string `json:"match_type"        binding:"required"`
	Target    string `json:"model_base_target" binding:"required"`
	Priority  int    `json:"priority"`
}

func toMetricResponse(m domain.MarketMetric) MetricResponse {
	resp := MetricResponse{
		Make:           m.Make,
		ModelBase:      m.ModelBase,
		Slug:           m.Slug,
		UniqueListings: m.UniqueListings,
		MedianPrice:    m.MedianPrice,
		MeanPrice:      m.MeanPrice,
		MinPrice:       m.MinPrice,
		MaxPrice:       m.MaxPrice,
		MeanYear:       m.MeanYear,
	}
	if !math.IsNaN(m.FastSellingRatio) {
		ratio := m.FastSellingRatio
		resp.FastSellingRatio = &ratio
	}
	return resp
}

func toLeadResponse(l domain.AttractiveLead) LeadResponse {
	return LeadResponse{
		URL:              l.URL,
		ObservedAt:       l.ObservedAt,
		Make:             l.Make,
		Model:            l.Model,
		ModelBase:        l.ModelBase,
		Slug:             l.Slug,
		Price:            l.Price,
		Year:             l.Year,
		Kilometers:       l.Kilometers,
		District:         l.District,
		SingleOwner:      l.SingleOwner,
		MeanPrice:        l.MeanPrice,
		OpportunityRatio: l.OpportunityRatio,
	}
}

func toRuleResponse(r domain.NormalizationRule) RuleResponse {
	return RuleResponse{
		ID:        r.ID,
		MakeMatch: r.MakeMatch,
		Pattern:   r.Pattern,
		MatchType: string(r.Match),
		Target:    r.TargetModelBase,
		Priority:  r.Priority,
		Enabled:   r.Enabled,
	}
}
