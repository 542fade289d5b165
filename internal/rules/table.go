// Package rules holds the normalization rule table: the priority-ordered
// lookup the classifier walks to map raw model strings onto canonical model
// bases.
package rules

import (
	"sort"

	"github.com/RichGutz/Scraper.Neoauto/internal/domain"
	"github.com/RichGutz/Scraper.Neoauto/internal/textnorm"
)

// Table is an immutable, pre-sorted set of normalization rules. Build one
// with New (or LoadCSV) at process start and share it freely; it is safe for
// concurrent readers.
type Table struct {
	rules   []domain.NormalizationRule
	byMake  map[string][]domain.NormalizationRule
	skipped int
}

// New builds a Table from raw rule rows. Make and pattern are normalized for
// matching (lowercased, trimmed, accents stripped); the target model base
// keeps its original casing since it is the canonical display value. Rows
// with an empty pattern, an unknown match type, or disabled are skipped and
// counted. Rules are ordered by priority descending, then pattern length
// descending, so longer more specific patterns win ties and "corolla cross"
// is tried before "corolla".
func New(rows []domain.NormalizationRule) *Table {
	t := &Table{byMake: make(map[string][]domain.NormalizationRule)}

	for _, r := range rows {
		if !r.Enabled {
			t.skipped++
			continue
		}
		match, ok := domain.ParseMatchType(string(r.Match))
		if !ok {
			t.skipped++
			continue
		}
		r.Match = match
		r.MakeMatch = textnorm.NormalizeForMatching(r.MakeMatch)
		r.Pattern = textnorm.NormalizeForMatching(r.Pattern)
		if r.Pattern == "" || r.MakeMatch == "" {
			t.skipped++
			continue
		}
		t.rules = append(t.rules, r)
	}

	sort.SliceStable(t.rules, func(i, j int) bool {
		if t.rules[i].Priority != t.rules[j].Priority {
			return t.rules[i].Priority > t.rules[j].Priority
		}
		return len(t.rules[i].Pattern) > len(t.rules[j].Pattern)
	})

	for _, r := range t.rules {
		t.byMake[r.MakeMatch] = append(t.byMake[r.MakeMatch], r)
	}

	return t
}

// Empty returns a table with no rules. Classification degrades to verbatim
// passthrough, which is the safe mode when the rule source is unavailable.
func Empty() *Table {
	return New(nil)
}

// Len reports the number of loaded rules.
func (t *Table) Len() int { return len(t.rules) }

// Empty reports whether the table holds no rules.
func (t *Table) Empty() bool { return len(t.rules) == 0 }

// Skipped reports how many source rows were rejected during load.
func (t *Table) Skipped() int { return t.skipped }

// All returns every rule in evaluation order.
func (t *Table) All() []domain.NormalizationRule { return t.rules }

// RulesForMake returns the pre-sorted subset of rules registered for a
// canonical make, preserving global evaluation order. Matching is
// make-scoped: a pattern registered for one make never applies under
// another.
func (t *Table) RulesForMake(makeCanonical string) []domain.NormalizationRule {
	return t.byMake[textnorm.NormalizeForMatching(makeCanonical)]
}
