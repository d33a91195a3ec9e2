package policy

import (
	"strings"
	"testing"
	"time"

	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestEffectiveLength_StripsMarkupPadding(t *testing.T) {
	assert.Equal(t, 5, EffectiveLength("hello"))
	assert.Equal(t, 5, EffectiveLength("  hello  "))
	assert.Equal(t, 5, EffectiveLength("<b>hello</b>"))
	assert.Equal(t, 0, EffectiveLength("<div><img src='x'></div>"))
	assert.Equal(t, 0, EffectiveLength("   "))
}

func TestEffectiveLength_CountsCharactersNotBytes(t *testing.T) {
	// Vietnamese letters are multibyte in UTF-8; length is characters.
	assert.Equal(t, 4, EffectiveLength("việt"))
	assert.Equal(t, 50, EffectiveLength(strings.Repeat("ă", 50)))
	assert.Equal(t, 50, EffectiveLength("<p>"+strings.Repeat("ă", 50)+"</p>"))
}

func TestPassesQualityGate_Post(t *testing.T) {
	cfg := DefaultConfig()
	long := strings.Repeat("a", cfg.MinPostChars)

	assert.True(t, cfg.PassesQualityGate(model.ActionPost, ActionContent{Body: long, MediaCount: 1}))
	assert.False(t, cfg.PassesQualityGate(model.ActionPost, ActionContent{Body: long[:50], MediaCount: 1}), "too short")
	assert.False(t, cfg.PassesQualityGate(model.ActionPost, ActionContent{Body: long}), "no media")

	// HTML tags do not count toward the minimum length.
	padded := "<p>" + strings.Repeat("<br>", 100) + long[:50] + "</p>"
	assert.False(t, cfg.PassesQualityGate(model.ActionPost, ActionContent{Body: padded, MediaCount: 1}))

	// A 50-character Vietnamese post is below the 100-character minimum
	// even though it is over 100 bytes.
	viShort := strings.Repeat("ă", cfg.MinPostChars/2)
	assert.False(t, cfg.PassesQualityGate(model.ActionPost, ActionContent{Body: viShort, MediaCount: 1}))
	viLong := strings.Repeat("ă", cfg.MinPostChars)
	assert.True(t, cfg.PassesQualityGate(model.ActionPost, ActionContent{Body: viLong, MediaCount: 1}))
}

func TestPassesQualityGate_Comment(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.PassesQualityGate(model.ActionComment, ActionContent{Body: "great harvest today"}))
	assert.False(t, cfg.PassesQualityGate(model.ActionComment, ActionContent{Body: "nice"}))
}

func TestPassesQualityGate_Livestream(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.PassesQualityGate(model.ActionLivestream, ActionContent{DurationSeconds: 600}))
	assert.False(t, cfg.PassesQualityGate(model.ActionLivestream, ActionContent{DurationSeconds: 599}))
}

func TestPassesQualityGate_UngatedActions(t *testing.T) {
	cfg := DefaultConfig()
	for _, action := range []model.ActionType{model.ActionLike, model.ActionShare, model.ActionFriendship, model.ActionWelcome, model.ActionWalletConnect, model.ActionReferral} {
		assert.True(t, cfg.PassesQualityGate(action, ActionContent{}), "%s has no content gate", action)
	}
}

func TestQualifiesForBonus(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.QualifiesForBonus("harvest photos", 1))
	assert.False(t, cfg.QualifiesForBonus("harvest photos", 0), "an image is required")
	assert.False(t, cfg.QualifiesForBonus("", 2), "body content is required")
	assert.False(t, cfg.QualifiesForBonus("<img src='x'>", 2), "markup alone is not content")
}

func TestBonusAmount(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, int64(5), cfg.BonusAmount())
}

func TestPermanentExpiryIsFarFuture(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)
	expiry := cfg.PermanentExpiry(now)
	assert.Equal(t, now.AddDate(100, 0, 0), expiry)
}
