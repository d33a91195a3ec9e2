package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BonusStatus string

const (
	BonusPending  BonusStatus = "pending"
	BonusApproved BonusStatus = "approved"
	BonusRejected BonusStatus = "rejected"
)

// BonusRequest is a user-submitted claim that a post deserves the manual
// quality bonus. At most one request per (post, user); terminal states are
// immutable.
type BonusRequest struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PostID uuid.UUID `gorm:"type:uuid;index:idx_bonus_once,unique,priority:1;not null" json:"post_id"`
	Post   Post      `gorm:"foreignKey:PostID" json:"-"`
	UserID uuid.UUID `gorm:"type:uuid;index:idx_bonus_once,unique,priority:2;not null" json:"user_id"`
	User   Account   `gorm:"foreignKey:UserID" json:"-"`

	Status     BonusStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	ResolvedBy *uuid.UUID  `gorm:"type:uuid" json:"resolved_by,omitempty"`
	ResolvedAt *time.Time  `json:"resolved_at,omitempty"`
	CreatedAt  time.Time   `gorm:"autoCreateTime" json:"created_at"`
}

func (b *BonusRequest) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
