package model

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`     // User who receives the notification
	EntityID   uuid.UUID `gorm:"type:uuid" json:"entity_id"`            // Related reward target, request or account
	EntityType string    `gorm:"type:varchar(50)" json:"entity_type"`   // 'reward', 'violation', 'bonus_request', 'account'
	Type       string    `gorm:"type:varchar(50);not null" json:"type"` // 'reward_granted', 'violation_recorded', 'suspension', 'ban', 'bonus_approved', 'bonus_rejected', 'good_heart'
	Message    string    `gorm:"type:text" json:"message"`
	Amount     int64     `json:"amount,omitempty"`
	IsRead     bool      `gorm:"default:false" json:"is_read"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	User *Account `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
