package model

import (
	"time"

	"github.com/google/uuid"
)

type ActionType string

const (
	ActionPost          ActionType = "post"
	ActionLike          ActionType = "like"
	ActionComment       ActionType = "comment"
	ActionShare         ActionType = "share"
	ActionFriendship    ActionType = "friendship"
	ActionLivestream    ActionType = "livestream"
	ActionWelcome       ActionType = "welcome"
	ActionWalletConnect ActionType = "wallet_connect"
	ActionReferral      ActionType = "referral"
	ActionBonus         ActionType = "bonus"
)

// RewardAction is one rewarded interaction. Append-only audit trail.
type RewardAction struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	ActorID    uuid.UUID  `gorm:"type:uuid;index:idx_actor_date,priority:1;index:idx_reward_once,unique,priority:1;not null" json:"actor_id"`
	Actor      Account    `gorm:"foreignKey:ActorID" json:"-"`
	ActionType ActionType `gorm:"size:50;index:idx_reward_once,unique,priority:2;not null" json:"action_type"`
	TargetID   uuid.UUID  `gorm:"type:uuid;index:idx_reward_once,unique,priority:3;not null" json:"target_id"`
	Amount     int64      `gorm:"not null" json:"amount"`
	CreatedAt  time.Time  `gorm:"index:idx_actor_date,priority:2" json:"created_at"`
}

// UniqueIndex: idx_reward_once on (actor_id, action_type, target_id).
// The database constraint is the authoritative at-most-once guard; the
// application-level existence check only short-circuits the common case.
