package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Account is one platform user plus their reward ledger and ban state.
// Amounts are CAMLY base units, integer only.
type Account struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	RoleID       *uint     `json:"role_id"`
	Role         Role      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"role"`

	PendingReward    int64 `gorm:"not null;default:0" json:"pending_reward"`
	ConfirmedBalance int64 `gorm:"not null;default:0" json:"confirmed_balance"`

	// ViolationLevel: 0 clean, 1 warned, 2 suspended, >=3 permanently banned.
	ViolationLevel int  `gorm:"not null;default:0" json:"violation_level"`
	Banned         bool `gorm:"not null;default:false" json:"banned"`

	// PermanentBan is authoritative. BanExpiresAt additionally carries the
	// far-future sentinel for clients that only read the expiry.
	PermanentBan bool       `gorm:"not null;default:false" json:"permanent_ban"`
	BanStartedAt *time.Time `gorm:"index" json:"ban_started_at,omitempty"`
	BanExpiresAt *time.Time `json:"ban_expires_at,omitempty"`

	// IsGoodHeart is granted after a sustained violation-free streak and
	// revoked immediately on any ban.
	IsGoodHeart bool `gorm:"not null;default:false" json:"is_good_heart"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// SuspendedAt reports whether rewards are paused at the given instant.
// A suspension blocks earning only; the account can still use the platform.
func (a *Account) SuspendedAt(t time.Time) bool {
	if a.ViolationLevel != 2 || a.BanExpiresAt == nil {
		return false
	}
	return t.Before(*a.BanExpiresAt)
}
