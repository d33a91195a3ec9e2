package model

import (
	"time"

	"github.com/google/uuid"
)

type ActivityKind string

const (
	ActivityPost          ActivityKind = "post"
	ActivityComment       ActivityKind = "comment"
	ActivityLike          ActivityKind = "like"
	ActivityShare         ActivityKind = "share"
	ActivityProfileUpdate ActivityKind = "profile_update"
)

// ActivityLog feeds the inactivity sweeper: any qualifying activity after a
// suspension starts keeps the account off the permanent-ban path.
type ActivityLog struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	UserID    uuid.UUID    `gorm:"type:uuid;index:idx_activity_user,priority:1;not null" json:"user_id"`
	Kind      ActivityKind `gorm:"size:30;not null" json:"kind"`
	CreatedAt time.Time    `gorm:"index:idx_activity_user,priority:2" json:"created_at"`
}
