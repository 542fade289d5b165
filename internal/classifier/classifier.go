// Package classifier maps raw (make, model) pairs from the listing feed onto
// canonical (Make, ModelBase, slug) identities using the normalization rule
// table. Classification is best-effort by design: inputs no rule covers fall
// back to passthrough and remain individually visible downstream.
package classifier

import (
	"strings"

	"github.com/RichGutz/Scraper.Neoauto/internal/domain"
	"github.com/RichGutz/Scraper.Neoauto/internal/logger"
	"github.com/RichGutz/Scraper.Neoauto/internal/rules"
	"github.com/RichGutz/Scraper.Neoauto/internal/textnorm"
)

// ModelClassifier derives canonical model identities. It owns an immutable
// rule table for its lifetime and is safe for concurrent use; Classify is a
// pure function of its inputs and the table.
type ModelClassifier struct {
	table  *rules.Table
	logger logger.Logger
}

// New creates a classifier over the given rule table. A nil table behaves as
// an empty one: every input falls back to passthrough.
func New(table *rules.Table, log logger.Logger) *ModelClassifier {
	if table == nil {
		table = rules.Empty()
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &ModelClassifier{table: table, logger: log}
}

// Classify maps a model string to its canonical model base under the given
// canonical make. Rules for the make are walked in pre-sorted order (priority
// desc, then pattern length desc) and the first match wins. When nothing
// matches, the trimmed, title-cased model becomes its own singleton category.
func (c *ModelClassifier) Classify(modelRaw, makeCanonical string) string {
	base, _ := c.classify(modelRaw, makeCanonical)
	return base
}

// classify also reports whether a rule resolved the input, so callers can
// distinguish rule hits from passthrough fallbacks.
func (c *ModelClassifier) classify(modelRaw, makeCanonical string) (string, bool) {
	if isEmptyLike(modelRaw) {
		return domain.Unknown, false
	}

	modelNorm := textnorm.NormalizeForMatching(modelRaw)

	for _, rule := range c.table.RulesForMake(makeCanonical) {
		if rule.Matches(modelNorm) {
			c.logger.Debug("rule matched",
				logger.String("make", makeCanonical),
				logger.String("model", modelRaw),
				logger.String("pattern", rule.Pattern),
				logger.String("match_type", string(rule.Match)),
				logger.String("model_base", rule.TargetModelBase),
				logger.Int("priority", rule.Priority),
			)
			return rule.TargetModelBase, true
		}
	}

	return textnorm.TitleCase(strings.TrimSpace(modelRaw)), false
}

// Identity derives the full canonical identity for one raw (make, model)
// pair: canonical display make, standardized display model, model base and
// the slug joining them. The slug is deterministic for a given
// (make, model base) so it serves as the stable aggregation key.
func (c *ModelClassifier) Identity(makeRaw, modelRaw string) domain.ClassifiedModel {
	ruleKey, makeDisplay := CanonicalMake(makeRaw)
	model := StandardizeModel(modelRaw)
	base, matched := c.classify(model, ruleKey)

	return domain.ClassifiedModel{
		Make:        makeDisplay,
		Model:       model,
		ModelBase:   base,
		Slug:        textnorm.Slugify(makeDisplay + " " + base),
		RuleMatched: matched,
	}
}
