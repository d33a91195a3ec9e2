package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/dto"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/events"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/model"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/policy"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/repository"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/pkg/apperror"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

type RewardService interface {
	EvaluateAction(ctx context.Context, actorID uuid.UUID, actionType model.ActionType, targetID uuid.UUID, content policy.ActionContent, occurredAt time.Time) (policy.Decision, error)
	CreditBonus(ctx context.Context, accountID, requestID uuid.UUID, amount int64) (bool, error)
	History(ctx context.Context, actorID uuid.UUID, limit, offset int) ([]model.RewardAction, error)
	DailySummary(ctx context.Context, actorID uuid.UUID, day time.Time) (*dto.DailySummary, error)
	ReconcilePending(ctx context.Context, accountID uuid.UUID) (int64, error)
}

type rewardService struct {
	cfg          *policy.Config
	accountRepo  repository.AccountRepository
	rewardRepo   repository.RewardActionRepository
	activityRepo repository.ActivityRepository
	bus          *events.Bus
	guard        ActionGuard
	clock        clockwork.Clock
}

func NewRewardService(cfg *policy.Config, accountRepo repository.AccountRepository, rewardRepo repository.RewardActionRepository, activityRepo repository.ActivityRepository, bus *events.Bus, guard ActionGuard, clock clockwork.Clock) RewardService {
	return &rewardService{
		cfg:          cfg,
		accountRepo:  accountRepo,
		rewardRepo:   rewardRepo,
		activityRepo: activityRepo,
		bus:          bus,
		guard:        guard,
		clock:        clock,
	}
}

// activityKindFor maps rewardable actions to sweeper-qualifying activity.
func activityKindFor(action model.ActionType) (model.ActivityKind, bool) {
	switch action {
	case model.ActionPost:
		return model.ActivityPost, true
	case model.ActionComment:
		return model.ActivityComment, true
	case model.ActionLike:
		return model.ActivityLike, true
	case model.ActionShare:
		return model.ActivityShare, true
	default:
		return "", false
	}
}

// EvaluateAction decides whether one action earns a reward. Rejections come
// back as a Decision, never an error; an error means no decision was made
// and the caller may retry the whole evaluation safely.
func (s *rewardService) EvaluateAction(ctx context.Context, actorID uuid.UUID, actionType model.ActionType, targetID uuid.UUID, content policy.ActionContent, occurredAt time.Time) (policy.Decision, error) {
	if occurredAt.IsZero() {
		occurredAt = s.clock.Now()
	}
	// Account-level actions (welcome, wallet connect) key on the account
	// itself so the at-most-once constraint still applies.
	if targetID == uuid.Nil {
		targetID = actorID
	}

	amount := s.cfg.Amount(actionType)
	if amount <= 0 {
		return policy.Decision{}, apperror.ErrInvalidInput
	}

	account, err := s.accountRepo.FindByID(ctx, actorID)
	if err != nil {
		return policy.Decision{}, fmt.Errorf("load account: %w", err)
	}

	if account.Banned {
		return policy.Reject(policy.ReasonBanned, account.PendingReward), nil
	}

	// The underlying action still happens while rewards are paused, so it
	// counts as activity either way.
	if kind, ok := activityKindFor(actionType); ok {
		if err := s.activityRepo.Record(ctx, &model.ActivityLog{UserID: account.ID, Kind: kind, CreatedAt: occurredAt}); err != nil {
			log.Printf("Failed to record activity for user %s: %v", account.ID, err)
		}
	}

	if account.SuspendedAt(occurredAt) {
		return policy.Reject(policy.ReasonSuspended, account.PendingReward), nil
	}

	// Cheap double-tap short-circuit; Redis being down never blocks the
	// decision.
	guardHeld := false
	wasSet, err := s.guard.Acquire(ctx, actorID, string(actionType), targetID.String())
	if err != nil {
		log.Printf("Action guard unavailable for user %s: %v", actorID, err)
	} else if !wasSet {
		return policy.Reject(policy.ReasonAlreadyRewarded, account.PendingReward), nil
	} else {
		guardHeld = true
	}

	// Only a grant leaves the guard to expire on its own: a refusal or a
	// store error must not poison the retry with a stale AlreadyRewarded.
	granted := false
	defer func() {
		if guardHeld && !granted {
			if relErr := s.guard.Release(ctx, actorID, string(actionType), targetID.String()); relErr != nil {
				log.Printf("Failed to release action guard for user %s: %v", actorID, relErr)
			}
		}
	}()

	exists, err := s.rewardRepo.Exists(ctx, actorID, actionType, targetID)
	if err != nil {
		return policy.Decision{}, fmt.Errorf("check reward history: %w", err)
	}
	if exists {
		return policy.Reject(policy.ReasonAlreadyRewarded, account.PendingReward), nil
	}

	if cap, ok := s.cfg.DailyCap(actionType); ok {
		count, err := s.rewardRepo.CountForDay(ctx, actorID, actionType, occurredAt)
		if err != nil {
			return policy.Decision{}, fmt.Errorf("count daily actions: %w", err)
		}
		if count >= cap {
			return policy.Reject(policy.ReasonDailyCapReached, account.PendingReward), nil
		}
	}

	// The welcome bonus is exempt from the global daily cap.
	if actionType != model.ActionWelcome {
		total, err := s.rewardRepo.SumAmountForDay(ctx, actorID, occurredAt)
		if err != nil {
			return policy.Decision{}, fmt.Errorf("sum daily rewards: %w", err)
		}
		if total >= s.cfg.GlobalDailyCap {
			return policy.Reject(policy.ReasonGlobalCapReached, account.PendingReward), nil
		}
	}

	if !s.cfg.PassesQualityGate(actionType, content) {
		return policy.Reject(policy.ReasonQualityGateFailed, account.PendingReward), nil
	}

	inserted, err := s.rewardRepo.InsertIfAbsent(ctx, &model.RewardAction{
		ActorID:    actorID,
		ActionType: actionType,
		TargetID:   targetID,
		Amount:     amount,
		CreatedAt:  occurredAt,
	})
	if err != nil {
		return policy.Decision{}, fmt.Errorf("append reward action: %w", err)
	}
	if !inserted {
		// A concurrent request won the unique-index race.
		return policy.Reject(policy.ReasonAlreadyRewarded, account.PendingReward), nil
	}

	if err := s.accountRepo.AtomicIncrement(ctx, actorID, "pending_reward", amount); err != nil {
		// The action row is already appended: recoverable by reconciling
		// pending_reward from the audit trail, not by rolling back.
		log.Printf("⚠️ Balance increment failed for user %s after reward append, needs reconcile: %v", actorID, err)
	}

	granted = true

	pendingTotal := account.PendingReward + amount
	s.bus.Publish(events.Event{
		Kind:       events.KindRewardGranted,
		AccountID:  actorID,
		ActionType: actionType,
		EntityID:   targetID,
		Amount:     amount,
		Message:    fmt.Sprintf("You earned %d CAMLY for %s", amount, actionType),
		OccurredAt: occurredAt,
	})

	return policy.Grant(amount, pendingTotal), nil
}

// CreditBonus moves an approved bonus through the same ledger. Keyed on the
// request ID, so re-crediting the same request is a no-op.
func (s *rewardService) CreditBonus(ctx context.Context, accountID, requestID uuid.UUID, amount int64) (bool, error) {
	inserted, err := s.rewardRepo.InsertIfAbsent(ctx, &model.RewardAction{
		ActorID:    accountID,
		ActionType: model.ActionBonus,
		TargetID:   requestID,
		Amount:     amount,
		CreatedAt:  s.clock.Now(),
	})
	if err != nil {
		return false, fmt.Errorf("append bonus action: %w", err)
	}
	if !inserted {
		return false, nil
	}

	if err := s.accountRepo.AtomicIncrement(ctx, accountID, "pending_reward", amount); err != nil {
		log.Printf("⚠️ Bonus increment failed for user %s, needs reconcile: %v", accountID, err)
	}
	return true, nil
}

func (s *rewardService) History(ctx context.Context, actorID uuid.UUID, limit, offset int) ([]model.RewardAction, error) {
	return s.rewardRepo.HistoryForActor(ctx, actorID, limit, offset)
}

func (s *rewardService) DailySummary(ctx context.Context, actorID uuid.UUID, day time.Time) (*dto.DailySummary, error) {
	if day.IsZero() {
		day = s.clock.Now()
	}

	summary := &dto.DailySummary{
		Day:            day.UTC().Format("2006-01-02"),
		PerAction:      make(map[string]dto.ActionTypeSummary),
		GlobalDailyCap: s.cfg.GlobalDailyCap,
		PolicyVersion:  s.cfg.Version,
	}

	for action, cap := range s.cfg.DailyCaps {
		count, err := s.rewardRepo.CountForDay(ctx, actorID, action, day)
		if err != nil {
			return nil, err
		}
		summary.PerAction[string(action)] = dto.ActionTypeSummary{Count: count, Cap: cap}
	}

	total, err := s.rewardRepo.SumAmountForDay(ctx, actorID, day)
	if err != nil {
		return nil, err
	}
	summary.TotalAmount = total

	return summary, nil
}

// ReconcilePending recomputes the pending balance as the sum of the reward
// audit trail and writes it back. Used after a failed balance increment.
func (s *rewardService) ReconcilePending(ctx context.Context, accountID uuid.UUID) (int64, error) {
	sum, err := s.rewardRepo.SumAmountForActor(ctx, accountID)
	if err != nil {
		return 0, err
	}
	if err := s.accountRepo.UpdateFields(ctx, accountID, map[string]interface{}{"pending_reward": sum}); err != nil {
		return 0, err
	}
	return sum, nil
}
