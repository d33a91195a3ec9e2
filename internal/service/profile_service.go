package service

import (
	"context"
	"log"

	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/model"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/repository"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

type ProfileService interface {
	Get(ctx context.Context, accountID uuid.UUID) (*model.Account, error)
	UpdateUsername(ctx context.Context, accountID uuid.UUID, username string) (*model.Account, error)
}

type profileService struct {
	accountRepo  repository.AccountRepository
	activityRepo repository.ActivityRepository
	clock        clockwork.Clock
}

func NewProfileService(accountRepo repository.AccountRepository, activityRepo repository.ActivityRepository, clock clockwork.Clock) ProfileService {
	return &profileService{
		accountRepo:  accountRepo,
		activityRepo: activityRepo,
		clock:        clock,
	}
}

func (s *profileService) Get(ctx context.Context, accountID uuid.UUID) (*model.Account, error) {
	return s.accountRepo.FindByID(ctx, accountID)
}

// UpdateUsername also counts as qualifying activity for the inactivity
// sweeper.
func (s *profileService) UpdateUsername(ctx context.Context, accountID uuid.UUID, username string) (*model.Account, error) {
	if err := s.accountRepo.UpdateFields(ctx, accountID, map[string]interface{}{"username": username}); err != nil {
		return nil, err
	}

	if err := s.activityRepo.Record(ctx, &model.ActivityLog{
		UserID:    accountID,
		Kind:      model.ActivityProfileUpdate,
		CreatedAt: s.clock.Now(),
	}); err != nil {
		log.Printf("Failed to record profile activity for user %s: %v", accountID, err)
	}

	return s.accountRepo.FindByID(ctx, accountID)
}
