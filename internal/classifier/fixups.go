package classifier

import "regexp"

// Display fixups for spellings the feed habitually mangles. These run after
// casing normalization and before rule matching sees the display model.
var (
	crvRe    = regexp.MustCompile(`(?i)(^|\s)CR\s?V\s*$`)
	xtrailRe = regexp.MustCompile(`(?i)^X\sTrail$`)
	allNewRe = regexp.MustCompile(`(?i)All\sNew`)
)

func applyModelFixups(model string) string {
	model = crvRe.ReplaceAllString(model, "${1}CR-V")
	model = xtrailRe.ReplaceAllString(model, "X-Trail")
	model = allNewRe.ReplaceAllString(model, "All-New")
	return model
}
