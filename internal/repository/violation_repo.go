package repository

import (
	"context"
	"errors"
	"time"

	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ViolationRepository interface {
	Append(ctx context.Context, record *model.ViolationRecord) error
	LatestForUser(ctx context.Context, userID uuid.UUID) (*model.ViolationRecord, error)
	CountForUserSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error)
}

type violationRepository struct {
	db *gorm.DB
}

func NewViolationRepository(db *gorm.DB) ViolationRepository {
	return &violationRepository{db: db}
}

func (r *violationRepository) Append(ctx context.Context, record *model.ViolationRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *violationRepository) LatestForUser(ctx context.Context, userID uuid.UUID) (*model.ViolationRecord, error) {
	var record model.ViolationRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *violationRepository) CountForUserSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ViolationRecord{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&count).Error
	return count, err
}
