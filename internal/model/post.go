package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post holds the content attributes the policy engine needs for quality
// gating and bonus requests. Rendering and media storage live elsewhere.
type Post struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	User       Account   `gorm:"foreignKey:UserID" json:"-"`
	Body       string    `gorm:"type:text" json:"body"`
	MediaCount int       `gorm:"not null;default:0" json:"media_count"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
