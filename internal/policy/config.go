package policy

import (
	"time"

	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/model"
)

// Config consolidates every reward and anti-abuse constant into one versioned
// object so policy revisions are data changes, not code changes scattered
// across call sites.
type Config struct {
	Version string

	// Reward amounts in CAMLY base units, keyed by action type.
	Amounts map[model.ActionType]int64

	// Per-action daily caps on the number of rewarded actions. Actions
	// without an entry are uncapped (they are still bound by the
	// at-most-once constraint and the global cap).
	DailyCaps map[model.ActionType]int64

	// GlobalDailyCap limits the total amount an account may earn per UTC
	// day. The welcome bonus is exempt.
	GlobalDailyCap int64

	// Quality gate thresholds.
	MinPostChars         int
	MinCommentChars      int
	MinLivestreamSeconds int

	// Violation state machine windows.
	FirstSuspension   time.Duration
	SecondSuspension  time.Duration
	PermanentBanLevel int

	// InactivityWindow is how long a suspended account must stay dormant
	// before the sweeper promotes the suspension to a permanent ban.
	InactivityWindow time.Duration

	// GoodHeartDays is the violation-free streak required for the badge.
	GoodHeartDays int

	// GracePeriod after registration during which violations are recorded
	// but do not escalate.
	GracePeriod time.Duration

	// BonusPercent of the base post reward credited on an approved
	// bonus request.
	BonusPercent int64

	// PermanentBanYears encodes permanence as a far-future expiry. Kept
	// for compatibility with clients that read ban_expires_at; the
	// PermanentBan flag on the account is authoritative.
	PermanentBanYears int
}

// DefaultConfig is policy v3.1. Location no longer counts toward post
// quality as of this version.
func DefaultConfig() *Config {
	return &Config{
		Version: "v3.1",
		Amounts: map[model.ActionType]int64{
			model.ActionPost:          10,
			model.ActionLike:          1,
			model.ActionComment:       2,
			model.ActionShare:         3,
			model.ActionFriendship:    5,
			model.ActionLivestream:    20,
			model.ActionWelcome:       100,
			model.ActionWalletConnect: 50,
			model.ActionReferral:      30,
		},
		DailyCaps: map[model.ActionType]int64{
			model.ActionPost:       3,
			model.ActionLike:       100,
			model.ActionComment:    20,
			model.ActionShare:      10,
			model.ActionFriendship: 10,
			model.ActionLivestream: 2,
			model.ActionReferral:   10,
		},
		GlobalDailyCap: 500,

		MinPostChars:         100,
		MinCommentChars:      10,
		MinLivestreamSeconds: 600,

		FirstSuspension:   7 * 24 * time.Hour,
		SecondSuspension:  30 * 24 * time.Hour,
		PermanentBanLevel: 3,

		InactivityWindow: 7 * 24 * time.Hour,
		GoodHeartDays:    30,
		GracePeriod:      24 * time.Hour,

		BonusPercent:      50,
		PermanentBanYears: 100,
	}
}

// Amount returns the reward table entry for an action type, 0 if unknown.
func (c *Config) Amount(action model.ActionType) int64 {
	return c.Amounts[action]
}

// DailyCap returns the per-action cap and whether one is configured.
func (c *Config) DailyCap(action model.ActionType) (int64, bool) {
	cap, ok := c.DailyCaps[action]
	return cap, ok
}

// BonusAmount is the credit for an approved bonus request.
func (c *Config) BonusAmount() int64 {
	return c.Amounts[model.ActionPost] * c.BonusPercent / 100
}

// PermanentExpiry returns the far-future sentinel used to encode a
// permanent ban in ban_expires_at.
func (c *Config) PermanentExpiry(now time.Time) time.Time {
	return now.AddDate(c.PermanentBanYears, 0, 0)
}
