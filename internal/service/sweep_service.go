package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/events"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/policy"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/repository"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// SweepResult lists what a sweep pass did.
type SweepResult struct {
	Promoted       []uuid.UUID `json:"promoted"`
	StillSuspended []uuid.UUID `json:"still_suspended"`
}

type SweepService interface {
	SweepInactiveBans(ctx context.Context, now time.Time) (*SweepResult, error)
	RefreshGoodHeart(ctx context.Context, now time.Time) (int, error)
}

type sweepService struct {
	cfg           *policy.Config
	accountRepo   repository.AccountRepository
	activityRepo  repository.ActivityRepository
	violationRepo repository.ViolationRepository
	bus           *events.Bus
	clock         clockwork.Clock
}

func NewSweepService(cfg *policy.Config, accountRepo repository.AccountRepository, activityRepo repository.ActivityRepository, violationRepo repository.ViolationRepository, bus *events.Bus, clock clockwork.Clock) SweepService {
	return &sweepService{
		cfg:           cfg,
		accountRepo:   accountRepo,
		activityRepo:  activityRepo,
		violationRepo: violationRepo,
		bus:           bus,
		clock:         clock,
	}
}

// SweepInactiveBans promotes dormant temporary suspensions to permanent
// bans. Safe to run repeatedly: it only ever tightens ban state, and
// already-permanent accounts are not candidates. Per-account failures are
// logged and skipped; the account stays suspended until the next pass.
func (s *sweepService) SweepInactiveBans(ctx context.Context, now time.Time) (*SweepResult, error) {
	if now.IsZero() {
		now = s.clock.Now()
	}

	cutoff := now.Add(-s.cfg.InactivityWindow)
	candidates, err := s.accountRepo.FindSuspendedStartedBefore(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list suspended accounts: %w", err)
	}

	result := &SweepResult{}
	for _, account := range candidates {
		active, err := s.activityRepo.HasActivitySince(ctx, account.ID, *account.BanStartedAt)
		if err != nil {
			log.Printf("Sweep: activity probe failed for %s, skipping: %v", account.ID, err)
			result.StillSuspended = append(result.StillSuspended, account.ID)
			continue
		}
		if active {
			// The suspension lapses naturally at its original expiry.
			result.StillSuspended = append(result.StillSuspended, account.ID)
			continue
		}

		sentinel := s.cfg.PermanentExpiry(now)
		level := account.ViolationLevel
		if level < s.cfg.PermanentBanLevel {
			level = s.cfg.PermanentBanLevel
		}
		if err := s.accountRepo.UpdateFields(ctx, account.ID, map[string]interface{}{
			"violation_level": level,
			"banned":          true,
			"permanent_ban":   true,
			"ban_expires_at":  sentinel,
			"is_good_heart":   false,
		}); err != nil {
			log.Printf("Sweep: promotion failed for %s, skipping: %v", account.ID, err)
			result.StillSuspended = append(result.StillSuspended, account.ID)
			continue
		}

		result.Promoted = append(result.Promoted, account.ID)
		s.bus.Publish(events.Event{
			Kind:       events.KindBanApplied,
			AccountID:  account.ID,
			EntityID:   account.ID,
			Message:    "Your suspension became a permanent ban after a week of inactivity",
			OccurredAt: now,
		})
	}

	return result, nil
}

// RefreshGoodHeart grants the badge to accounts that stayed clean for the
// configured streak. Returns how many badges were granted.
func (s *sweepService) RefreshGoodHeart(ctx context.Context, now time.Time) (int, error) {
	if now.IsZero() {
		now = s.clock.Now()
	}

	streakStart := now.AddDate(0, 0, -s.cfg.GoodHeartDays)
	candidates, err := s.accountRepo.FindGoodHeartCandidates(ctx, streakStart)
	if err != nil {
		return 0, fmt.Errorf("list candidates: %w", err)
	}

	granted := 0
	for _, account := range candidates {
		count, err := s.violationRepo.CountForUserSince(ctx, account.ID, streakStart)
		if err != nil {
			log.Printf("Good Heart: violation lookup failed for %s, skipping: %v", account.ID, err)
			continue
		}
		if count > 0 {
			continue
		}

		if err := s.accountRepo.UpdateFields(ctx, account.ID, map[string]interface{}{"is_good_heart": true}); err != nil {
			log.Printf("Good Heart: update failed for %s, skipping: %v", account.ID, err)
			continue
		}

		granted++
		s.bus.Publish(events.Event{
			Kind:       events.KindGoodHeartGranted,
			AccountID:  account.ID,
			EntityID:   account.ID,
			Message:    fmt.Sprintf("💚 You earned the Good Heart badge after %d clean days!", s.cfg.GoodHeartDays),
			OccurredAt: now,
		})
	}

	return granted, nil
}
