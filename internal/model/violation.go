package model

import (
	"time"

	"github.com/google/uuid"
)

type Severity string

const (
	SeverityMinor  Severity = "minor"
	SeveritySevere Severity = "severe"
)

// ViolationRecord is one flagged abuse event. Detection heuristics live
// outside this service; records arrive from the abuse detector.
type ViolationRecord struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index:idx_violation_user,priority:1;not null" json:"user_id"`
	User   Account   `gorm:"foreignKey:UserID" json:"-"`

	// ViolationCount is the account's violation level at the time this
	// record was created.
	ViolationCount int      `gorm:"not null" json:"violation_count"`
	Reason         string   `gorm:"type:text;not null" json:"reason"`
	Severity       Severity `gorm:"size:20;not null;default:'minor'" json:"severity"`

	CreatedAt time.Time  `gorm:"index:idx_violation_user,priority:2" json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"` // nil for warnings and permanent bans
}
