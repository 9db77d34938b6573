package catalog

import (
	"github.com/stemsi/ailit-assessment/internal/model"
)

// TextKey is the closed set of result text entries a catalogue may define.
type TextKey string

const (
	TextLevel0          TextKey = "0"
	TextLevel1          TextKey = "1"
	TextLevel1Downgrade TextKey = "1_downgrade"
	TextLevel2          TextKey = "2"
	TextLevel2Downgrade TextKey = "2_downgrade"
	TextLevel3          TextKey = "3"
)

// FallbackText is served when a catalogue defines neither the requested
// entry nor a level 0 entry.
var FallbackText = model.ResultText{
	Title:       "Level 0",
	Description: "No result text is available for this outcome.",
}

// parseTextKey maps a YAML key onto the closed set; unknown keys are rejected.
func parseTextKey(s string) (TextKey, bool) {
	switch k := TextKey(s); k {
	case TextLevel0, TextLevel1, TextLevel1Downgrade, TextLevel2, TextLevel2Downgrade, TextLevel3:
		return k, true
	}
	return "", false
}

// textKeys returns the entries to try for an outcome, most specific first.
func textKeys(level model.Level, downgraded bool) []TextKey {
	switch level {
	case model.Level0:
		return []TextKey{TextLevel0}
	case model.Level1:
		if downgraded {
			return []TextKey{TextLevel1Downgrade, TextLevel1}
		}
		return []TextKey{TextLevel1}
	case model.Level2:
		if downgraded {
			return []TextKey{TextLevel2Downgrade, TextLevel2}
		}
		return []TextKey{TextLevel2}
	case model.Level3:
		return []TextKey{TextLevel3}
	default:
		return nil
	}
}

// ResultText returns the copy for a classified outcome. A downgraded outcome
// prefers its "<level>_downgrade" entry, then the plain level entry. Anything
// still unresolved falls back to the level 0 entry, then to FallbackText.
func (c *Catalog) ResultText(level model.Level, downgraded bool) model.ResultText {
	for _, k := range textKeys(level, downgraded) {
		if t, ok := c.texts[k]; ok {
			return t
		}
	}
	if t, ok := c.texts[TextLevel0]; ok {
		return t
	}
	return FallbackText
}

// SelfAssessmentTitle names a declared self-assessment level using the plain
// level entry, or "Level n" when the catalogue has none.
func (c *Catalog) SelfAssessmentTitle(level int) string {
	l := model.Level(level)
	for _, k := range textKeys(l, false) {
		if t, ok := c.texts[k]; ok {
			return t.Title
		}
	}
	return "Level " + l.String()
}
