package repository

import (
	"context"
	"time"

	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityRepository interface {
	Record(ctx context.Context, entry *model.ActivityLog) error
	HasActivitySince(ctx context.Context, userID uuid.UUID, since time.Time) (bool, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Record(ctx context.Context, entry *model.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// HasActivitySince reports whether any qualifying activity was recorded
// strictly after the given instant.
func (r *activityRepository) HasActivitySince(ctx context.Context, userID uuid.UUID, since time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ActivityLog{}).
		Where("user_id = ? AND created_at > ?", userID, since).
		Count(&count).Error
	return count > 0, err
}
