package repository

import (
	"context"
	"time"

	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
	FindByUsername(ctx context.Context, username string) (*model.Account, error)
	FindRoleByName(ctx context.Context, name string) (*model.Role, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	AtomicIncrement(ctx context.Context, id uuid.UUID, field string, delta int64) error
	FindSuspendedStartedBefore(ctx context.Context, cutoff time.Time) ([]model.Account, error)
	FindGoodHeartCandidates(ctx context.Context, createdBefore time.Time) ([]model.Account, error)
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).Preload("Role").First(&account, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).Preload("Role").First(&account, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) FindByUsername(ctx context.Context, username string) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).Preload("Role").First(&account, "username = ?", username).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) FindRoleByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).First(&role, "name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *accountRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Account{}).Where("id = ?", id).Updates(fields).Error
}

// AtomicIncrement applies a single-statement increment so concurrent reward
// grants to the same account cannot lose updates.
func (r *accountRepository) AtomicIncrement(ctx context.Context, id uuid.UUID, field string, delta int64) error {
	return r.db.WithContext(ctx).Model(&model.Account{}).Where("id = ?", id).
		Update(field, gorm.Expr(field+" + ?", delta)).Error
}

func (r *accountRepository) FindSuspendedStartedBefore(ctx context.Context, cutoff time.Time) ([]model.Account, error) {
	var accounts []model.Account
	err := r.db.WithContext(ctx).
		Where("violation_level = ? AND permanent_ban = ? AND ban_started_at IS NOT NULL AND ban_started_at <= ?", 2, false, cutoff).
		Find(&accounts).Error
	return accounts, err
}

func (r *accountRepository) FindGoodHeartCandidates(ctx context.Context, createdBefore time.Time) ([]model.Account, error) {
	var accounts []model.Account
	err := r.db.WithContext(ctx).
		Where("violation_level = ? AND banned = ? AND is_good_heart = ? AND created_at <= ?", 0, false, false, createdBefore).
		Find(&accounts).Error
	return accounts, err
}
