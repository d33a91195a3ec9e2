package repository

import (
	"context"
	"errors"

	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BonusRequestRepository interface {
	Create(ctx context.Context, request *model.BonusRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.BonusRequest, error)
	FindByPostAndUser(ctx context.Context, postID, userID uuid.UUID) (*model.BonusRequest, error)
	Resolve(ctx context.Context, id uuid.UUID, status model.BonusStatus, resolvedBy uuid.UUID) error
	ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.BonusRequest, error)
	ListPending(ctx context.Context, limit, offset int) ([]model.BonusRequest, error)
}

type bonusRequestRepository struct {
	db *gorm.DB
}

func NewBonusRequestRepository(db *gorm.DB) BonusRequestRepository {
	return &bonusRequestRepository{db: db}
}

func (r *bonusRequestRepository) Create(ctx context.Context, request *model.BonusRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *bonusRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.BonusRequest, error) {
	var request model.BonusRequest
	err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *bonusRequestRepository) FindByPostAndUser(ctx context.Context, postID, userID uuid.UUID) (*model.BonusRequest, error) {
	var request model.BonusRequest
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// Resolve flips a pending request into a terminal state. The status guard in
// the WHERE clause keeps terminal states immutable under concurrent admins.
func (r *bonusRequestRepository) Resolve(ctx context.Context, id uuid.UUID, status model.BonusStatus, resolvedBy uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.BonusRequest{}).
		Where("id = ? AND status = ?", id, model.BonusPending).
		Updates(map[string]interface{}{
			"status":      status,
			"resolved_by": resolvedBy,
			"resolved_at": gorm.Expr("CURRENT_TIMESTAMP"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *bonusRequestRepository) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.BonusRequest, error) {
	var requests []model.BonusRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&requests).Error
	return requests, err
}

func (r *bonusRequestRepository) ListPending(ctx context.Context, limit, offset int) ([]model.BonusRequest, error) {
	var requests []model.BonusRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", model.BonusPending).
		Order("created_at asc").
		Limit(limit).
		Offset(offset).
		Find(&requests).Error
	return requests, err
}
