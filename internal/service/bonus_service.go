package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/events"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/model"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/policy"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/repository"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/pkg/apperror"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"
)

type BonusService interface {
	Submit(ctx context.Context, postID, userID uuid.UUID) (*model.BonusRequest, bool, error)
	Resolve(ctx context.Context, requestID, adminID uuid.UUID, approve bool) (*model.BonusRequest, error)
	ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.BonusRequest, error)
	ListPending(ctx context.Context, limit, offset int) ([]model.BonusRequest, error)
}

type bonusService struct {
	cfg           *policy.Config
	bonusRepo     repository.BonusRequestRepository
	postRepo      repository.PostRepository
	rewardService RewardService
	bus           *events.Bus
	clock         clockwork.Clock
}

func NewBonusService(cfg *policy.Config, bonusRepo repository.BonusRequestRepository, postRepo repository.PostRepository, rewardService RewardService, bus *events.Bus, clock clockwork.Clock) BonusService {
	return &bonusService{
		cfg:           cfg,
		bonusRepo:     bonusRepo,
		postRepo:      postRepo,
		rewardService: rewardService,
		bus:           bus,
		clock:         clock,
	}
}

// Submit files a bonus request for a qualifying post. A repeat submission
// returns the existing request and its current status instead of creating a
// duplicate. The bool reports whether a new request was created.
func (s *bonusService) Submit(ctx context.Context, postID, userID uuid.UUID) (*model.BonusRequest, bool, error) {
	existing, err := s.bonusRepo.FindByPostAndUser(ctx, postID, userID)
	if err != nil {
		return nil, false, fmt.Errorf("lookup bonus request: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, apperror.ErrNotFound
		}
		return nil, false, fmt.Errorf("load post: %w", err)
	}
	if post.UserID != userID {
		return nil, false, apperror.ErrForbidden
	}

	if !s.cfg.QualifiesForBonus(post.Body, post.MediaCount) {
		return nil, false, apperror.New(400, "post does not qualify for a bonus: it needs body content and at least one image", apperror.ErrInvalidInput)
	}

	request := &model.BonusRequest{
		PostID:    postID,
		UserID:    userID,
		Status:    model.BonusPending,
		CreatedAt: s.clock.Now(),
	}
	if err := s.bonusRepo.Create(ctx, request); err != nil {
		// A concurrent submission may have won the unique-index race.
		if existing, lookupErr := s.bonusRepo.FindByPostAndUser(ctx, postID, userID); lookupErr == nil && existing != nil {
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("create bonus request: %w", err)
	}

	return request, true, nil
}

// Resolve moves a pending request to its terminal state. Approval credits
// the bonus through the reward ledger, keyed on the request ID so a retried
// approval cannot double-pay.
func (s *bonusService) Resolve(ctx context.Context, requestID, adminID uuid.UUID, approve bool) (*model.BonusRequest, error) {
	request, err := s.bonusRepo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, fmt.Errorf("load bonus request: %w", err)
	}
	if request.Status != model.BonusPending {
		return nil, apperror.ErrAlreadyResolved
	}

	status := model.BonusRejected
	if approve {
		status = model.BonusApproved
	}

	if err := s.bonusRepo.Resolve(ctx, requestID, status, adminID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrAlreadyResolved
		}
		return nil, fmt.Errorf("resolve bonus request: %w", err)
	}

	now := s.clock.Now()
	request.Status = status
	request.ResolvedBy = &adminID
	request.ResolvedAt = &now

	if approve {
		amount := s.cfg.BonusAmount()
		if _, err := s.rewardService.CreditBonus(ctx, request.UserID, request.ID, amount); err != nil {
			return nil, err
		}
		s.bus.Publish(events.Event{
			Kind:       events.KindBonusApproved,
			AccountID:  request.UserID,
			ActionType: model.ActionBonus,
			EntityID:   request.ID,
			Amount:     amount,
			Message:    fmt.Sprintf("🎉 Your bonus request was approved: +%d CAMLY", amount),
			OccurredAt: now,
		})
	} else {
		s.bus.Publish(events.Event{
			Kind:       events.KindBonusRejected,
			AccountID:  request.UserID,
			EntityID:   request.ID,
			Message:    "Your bonus request was not approved this time. Richer posts with images have the best chance!",
			OccurredAt: now,
		})
	}

	return request, nil
}

func (s *bonusService) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.BonusRequest, error) {
	return s.bonusRepo.ListForUser(ctx, userID, limit, offset)
}

func (s *bonusService) ListPending(ctx context.Context, limit, offset int) ([]model.BonusRequest, error) {
	return s.bonusRepo.ListPending(ctx, limit, offset)
}
