package policy

import (
	"strings"
	"unicode/utf8"

	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/model"
	"github.com/microcosm-cc/bluemonday"
)

// ActionContent carries the content attributes an action-specific quality
// gate inspects. Fields irrelevant to a given action type are ignored.
type ActionContent struct {
	Body            string
	MediaCount      int
	DurationSeconds int
}

var sanitizer = bluemonday.StrictPolicy()

// EffectiveLength measures body length in characters after stripping
// markup, so HTML padding cannot pass the quality gate. Counted in runes:
// most post bodies are Vietnamese, where byte length overstates content.
func EffectiveLength(body string) int {
	return utf8.RuneCountInString(strings.TrimSpace(sanitizer.Sanitize(body)))
}

// PassesQualityGate applies the action-specific content gate.
// Post: minimum effective length plus at least one image or video.
// Comment: minimum effective length.
// Livestream: minimum duration.
// Location is not a factor since v3.1. Other actions have no gate.
func (c *Config) PassesQualityGate(action model.ActionType, content ActionContent) bool {
	switch action {
	case model.ActionPost:
		return EffectiveLength(content.Body) >= c.MinPostChars && content.MediaCount >= 1
	case model.ActionComment:
		return EffectiveLength(content.Body) >= c.MinCommentChars
	case model.ActionLivestream:
		return content.DurationSeconds >= c.MinLivestreamSeconds
	default:
		return true
	}
}

// QualifiesForBonus reports whether a post is eligible for a manual bonus
// request: it must have body content and at least one image.
func (c *Config) QualifiesForBonus(body string, mediaCount int) bool {
	return EffectiveLength(body) > 0 && mediaCount >= 1
}
