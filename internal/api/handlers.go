package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RichGutz/Scraper.Neoauto/internal/classifier"
	"github.com/RichGutz/Scraper.Neoauto/internal/domain"
	"github.com/RichGutz/Scraper.Neoauto/internal/logger"
	"github.com/RichGutz/Scraper.Neoauto/internal/rules"
)

// MetricsStore reads persisted market metrics.
type MetricsStore interface {
	Latest(ctx context.Context) ([]domain.MarketMetric, error)
}

// LeadsStore reads the persisted leads of the most recent run.
type LeadsStore interface {
	LatestRun(ctx context.Context) ([]domain.AttractiveLead, error)
}

// RuleStore writes normalization rules. Nil when rules come from CSV.
type RuleStore interface {
	Create(ctx context.Context, rule *domain.NormalizationRule) error
}

// Handler handles HTTP requests for the analyzer API.
type Handler struct {
	classifier *classifier.ModelClassifier
	table      *rules.Table
	metrics    MetricsStore
	leads      LeadsStore
	ruleStore  RuleStore
	logger     logger.Logger
}

// NewHandler creates a new API handler. ruleStore may be nil when rules are
// loaded from CSV; rule creation then returns 503.
func NewHandler(
	modelClassifier *classifier.ModelClassifier,
	table *rules.Table,
	metrics MetricsStore,
	leads LeadsStore,
	ruleStore RuleStore,
	log logger.Logger,
) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{
		classifier: modelClassifier,
		table:      table,
		metrics:    metrics,
		leads:      leads,
		ruleStore:  ruleStore,
		logger:     log,
	}
}

// ClassifyRequest is a single make/model classification request.
type ClassifyRequest struct {
	Make  string `json:"make"  binding:"required"`
	Model string `json:"model" binding:"required"`
}

// BatchClassifyRequest is a batch of classification requests.
type BatchClassifyRequest struct {
	Items []ClassifyRequest `json:"items" binding:"required,min=1,max=100"`
}

// ClassifyResponse is the classified identity for one listing.
type ClassifyResponse struct {
	Make      string `json:"make"`
	ModelBase string `json:"model_base"`
	Slug      string `json:"slug"`
}

// BatchClassifyResponse is the batch classification result.
type BatchClassifyResponse struct {
	Results []ClassifyResponse `json:"results"`
	Total   int                `json:"total"`
}

// Classify handles POST /api/v1/classify.
func (h *Handler) Classify(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid classification request", logger.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := h.classifier.Identity(req.Make, req.Model)
	c.JSON(http.StatusOK, ClassifyResponse{
		Make:      id.Make,
		ModelBase: id.ModelBase,
		Slug:      id.Slug,
	})
}

// ClassifyBatch handles POST /api/v1/classify/batch.
func (h *Handler) ClassifyBatch(c *gin.Context) {
	var req BatchClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid batch classification request", logger.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results := make([]ClassifyResponse, 0, len(req.Items))
	for _, item := range req.Items {
		id := h.classifier.Identity(item.Make, item.Model)
		results = append(results, ClassifyResponse{
			Make:      id.Make,
			ModelBase: id.ModelBase,
			Slug:      id.Slug,
		})
	}

	c.JSON(http.StatusOK, BatchClassifyResponse{
		Results: results,
		Total:   len(results),
	})
}

// GetMetrics handles GET /api/v1/metrics.
func (h *Handler) GetMetrics(c *gin.Context) {
	metrics, err := h.metrics.Latest(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to load market metrics", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load metrics"})
		return
	}

	resp := MetricsListResponse{
		Metrics: make([]MetricResponse, 0, len(metrics)),
		Total:   len(metrics),
	}
	for _, m := range metrics {
		resp.Metrics = append(resp.Metrics, toMetricResponse(m))
	}
	c.JSON(http.StatusOK, resp)
}

// GetLeads handles GET /api/v1/leads.
func (h *Handler) GetLeads(c *gin.Context) {
	leads, err := h.leads.LatestRun(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to load leads", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load leads"})
		return
	}

	resp := LeadsListResponse{
		Leads: make([]LeadResponse, 0, len(leads)),
		Total: len(leads),
	}
	for _, l := range leads {
		resp.Leads = append(resp.Leads, toLeadResponse(l))
	}
	c.JSON(http.StatusOK, resp)
}

// ListRules handles GET /api/v1/rules. Rules come from the in-memory table,
// so the listing reflects the order classification actually applies them in.
func (h *Handler) ListRules(c *gin.Context) {
	all := h.table.All()
	resp := RulesListResponse{
		Rules: make([]RuleResponse, 0, len(all)),
		Total: len(all),
	}
	for _, r := range all {
		resp.Rules = append(resp.Rules, toRuleResponse(r))
	}
	c.JSON(http.StatusOK, resp)
}

// CreateRule handles POST /api/v1/rules. The new rule is persisted but takes
// effect on the next rule reload, not immediately.
func (h *Handler) CreateRule(c *gin.Context) {
	if h.ruleStore == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "rule storage not configured"})
		return
	}

	var req CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid create rule request", logger.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	match, ok := domain.ParseMatchType(req.MatchType)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "match_type must be exact, startswith, or contains"})
		return
	}

	rule := &domain.NormalizationRule{
		MakeMatch:       req.MakeMatch,
		Pattern:         req.Pattern,
		Match:           match,
		TargetModelBase: req.Target,
		Priority:        req.Priority,
		Enabled:         true,
	}
	if err := h.ruleStore.Create(c.Request.Context(), rule); err != nil {
		h.logger.Error("Failed to create rule", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create rule"})
		return
	}

	h.logger.Info("Rule created",
		logger.Int("rule_id", rule.ID),
		logger.String("make", rule.MakeMatch),
		logger.String("target", rule.TargetModelBase),
	)
	c.JSON(http.StatusCreated, toRuleResponse(*rule))
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// ReadyCheck handles GET /ready. The service is ready once a rule table is
// loaded, even an empty one.
func (h *Handler) ReadyCheck(c *gin.Context) {
	if h.table == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"rules":  h.table.Len(),
	})
}
