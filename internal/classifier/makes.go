package classifier

import (
	"strings"

	"github.com/RichGutz/Scraper.Neoauto/internal/domain"
	"github.com/RichGutz/Scraper.Neoauto/internal/textnorm"
)

// makeSynonyms folds the spellings the feed actually produces onto one
// canonical lowercase make. Unmapped makes pass through lowercased.
var makeSynonyms = map[string]string{
	"mercedes benz": "mercedes",
	"mercedes-benz": "mercedes",
	"mercedes":      "mercedes",
	"vw":            "volkswagen",
	"volkswagen":    "volkswagen",
	"toyota":        "toyota",
	"bmw":           "bmw",
	"nissan":        "nissan",
	"hyundai":       "hyundai",
	"subaru":        "subaru",
	"mazda":         "mazda",
	"ford":          "ford",
	"kia":           "kia",
	"jeep":          "jeep",
	"audi":          "audi",
	"honda":         "honda",
	"chevrolet":     "chevrolet",
	"mitsubishi":    "mitsubishi",
	"suzuki":        "suzuki",
	"volvo":         "volvo",
}

// emptyLike holds feed values that mean "no data" once lowercased.
var emptyLike = map[string]struct{}{
	"":              {},
	"nan":           {},
	"none":          {},
	"null":          {},
	"desconocido":   {},
	"unknown":       {},
	"otros":         {},
	"otros modelos": {},
}

func isEmptyLike(s string) bool {
	_, ok := emptyLike[textnorm.NormalizeForMatching(s)]
	return ok
}

// CanonicalMake resolves a raw make string to its rule-lookup key and its
// display form. The key is the lowercased synonym-mapped make (rules are
// registered against it); display is the title-cased key. This runs before
// model classification since rules are scoped by canonical make.
func CanonicalMake(raw string) (ruleKey, display string) {
	key := textnorm.NormalizeForMatching(raw)
	if mapped, ok := makeSynonyms[key]; ok {
		key = mapped
	}
	if _, ok := emptyLike[key]; ok {
		return "", domain.Unknown
	}
	return key, textnorm.TitleCase(key)
}

// StandardizeModel normalizes a raw model string for display: trims, folds
// empty-like values to Unknown, re-cases ALL-CAPS alphabetic names, and
// applies the known spelling fixups.
func StandardizeModel(raw string) string {
	model := strings.TrimSpace(raw)
	if isEmptyLike(model) {
		return domain.Unknown
	}
	if textnorm.IsAllUpperAlpha(model) {
		model = textnorm.TitleCase(model)
	}
	model = applyModelFixups(model)
	if strings.TrimSpace(model) == "" {
		return domain.Unknown
	}
	return model
}
