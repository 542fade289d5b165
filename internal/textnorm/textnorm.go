// Package textnorm canonicalizes the free-text identifiers that flow through
// the pipeline: column names, brand and model strings, and slugs.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SlugPlaceholder is returned by Slugify when the input reduces to nothing.
// A slug is a join key, so it must never be empty.
const SlugPlaceholder = "sin-slug"

var (
	upperRunRe   = regexp.MustCompile(`([A-Z]+)([A-Z][a-z])`)
	lowerUpperRe = regexp.MustCompile(`([a-z\d])([A-Z])`)
	nonSlugRe    = regexp.MustCompile(`[^\w\s-]`)
	dashRunRe    = regexp.MustCompile(`[\s-]+`)
)

var titleCaser = cases.Title(language.Und)

// ToSnakeCase converts CamelCase, kebab-case and space-separated identifiers
// to snake_case. Used to normalize feed column names onto the canonical
// schema. Pure and deterministic.
func ToSnakeCase(name string) string {
	if name == "" {
		return name
	}
	s := upperRunRe.ReplaceAllString(name, "${1}_${2}")
	s = lowerUpperRe.ReplaceAllString(s, "${1}_${2}")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ToLower(s)
}

// Slugify derives a URL-safe lowercase identifier: accents and punctuation
// are stripped (interior hyphens survive), whitespace runs collapse to a
// single hyphen, leading and trailing hyphens are trimmed. The result is
// never empty; all-punctuation input yields SlugPlaceholder.
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = RemoveAccents(s)
	s = nonSlugRe.ReplaceAllString(s, "")
	s = dashRunRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return SlugPlaceholder
	}
	return s
}

// NormalizeForMatching prepares text for rule-pattern matching: NFD
// normalization with accents stripped, lowercased, trimmed. Unlike Slugify
// it preserves interior spacing so substring patterns keep word boundaries.
func NormalizeForMatching(text string) string {
	return RemoveAccents(strings.ToLower(strings.TrimSpace(text)))
}

// RemoveAccents strips combining marks after NFD decomposition.
func RemoveAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// TitleCase title-cases each word, matching the display convention for
// canonical makes and fallback model bases.
func TitleCase(s string) string {
	return titleCaser.String(s)
}

// IsAllUpperAlpha reports whether s consists only of uppercase letters.
// ALL-CAPS model names from the feed get re-cased for display.
func IsAllUpperAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}
