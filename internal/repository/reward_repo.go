package repository

import (
	"context"
	"time"

	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RewardActionRepository interface {
	Exists(ctx context.Context, actorID uuid.UUID, actionType model.ActionType, targetID uuid.UUID) (bool, error)
	InsertIfAbsent(ctx context.Context, action *model.RewardAction) (bool, error)
	CountForDay(ctx context.Context, actorID uuid.UUID, actionType model.ActionType, day time.Time) (int64, error)
	SumAmountForDay(ctx context.Context, actorID uuid.UUID, day time.Time) (int64, error)
	HistoryForActor(ctx context.Context, actorID uuid.UUID, limit, offset int) ([]model.RewardAction, error)
	SumAmountForActor(ctx context.Context, actorID uuid.UUID) (int64, error)
}

type rewardActionRepository struct {
	db *gorm.DB
}

func NewRewardActionRepository(db *gorm.DB) RewardActionRepository {
	return &rewardActionRepository{db: db}
}

func (r *rewardActionRepository) Exists(ctx context.Context, actorID uuid.UUID, actionType model.ActionType, targetID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.RewardAction{}).
		Where("actor_id = ? AND action_type = ? AND target_id = ?", actorID, actionType, targetID).
		Count(&count).Error
	return count > 0, err
}

// InsertIfAbsent appends the action unless the (actor, action, target) row
// already exists. The unique index is the authoritative guard: two racing
// requests resolve here, not in the application check.
func (r *rewardActionRepository) InsertIfAbsent(ctx context.Context, action *model.RewardAction) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "actor_id"}, {Name: "action_type"}, {Name: "target_id"}},
		DoNothing: true,
	}).Create(action)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *rewardActionRepository) CountForDay(ctx context.Context, actorID uuid.UUID, actionType model.ActionType, day time.Time) (int64, error) {
	start, end := utcDayBounds(day)
	var count int64
	err := r.db.WithContext(ctx).Model(&model.RewardAction{}).
		Where("actor_id = ? AND action_type = ? AND created_at >= ? AND created_at < ?", actorID, actionType, start, end).
		Count(&count).Error
	return count, err
}

func (r *rewardActionRepository) SumAmountForDay(ctx context.Context, actorID uuid.UUID, day time.Time) (int64, error) {
	start, end := utcDayBounds(day)
	var sum int64
	err := r.db.WithContext(ctx).Model(&model.RewardAction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("actor_id = ? AND created_at >= ? AND created_at < ?", actorID, start, end).
		Scan(&sum).Error
	return sum, err
}

func (r *rewardActionRepository) HistoryForActor(ctx context.Context, actorID uuid.UUID, limit, offset int) ([]model.RewardAction, error) {
	var actions []model.RewardAction
	err := r.db.WithContext(ctx).
		Where("actor_id = ?", actorID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&actions).Error
	return actions, err
}

// SumAmountForActor recomputes the pending balance from the audit trail.
// Recovery strategy when a grant appended the action but the balance
// increment failed: reconcile, don't roll back.
func (r *rewardActionRepository) SumAmountForActor(ctx context.Context, actorID uuid.UUID) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).Model(&model.RewardAction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("actor_id = ?", actorID).
		Scan(&sum).Error
	return sum, err
}

// Counters reset implicitly at the UTC day boundary; there is no reset event.
func utcDayBounds(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour)
}
