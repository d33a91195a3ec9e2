package service

import (
	"context"
	"fmt"
	"time"

	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/events"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/model"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/policy"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/repository"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// IncidentDeduper decides whether a reported violation is a re-report of an
// incident already on record. Detectors are expected not to double-report,
// but that contract is not enforceable here, so dedup is pluggable.
type IncidentDeduper interface {
	IsDuplicate(ctx context.Context, accountID uuid.UUID, reason string, occurredAt time.Time) (bool, error)
}

// NoDedup trusts the detector completely.
type NoDedup struct{}

func (NoDedup) IsDuplicate(ctx context.Context, accountID uuid.UUID, reason string, occurredAt time.Time) (bool, error) {
	return false, nil
}

// WindowDedup treats a same-reason report within the window of the latest
// record as the same incident.
type WindowDedup struct {
	Repo   repository.ViolationRepository
	Window time.Duration
}

func (d WindowDedup) IsDuplicate(ctx context.Context, accountID uuid.UUID, reason string, occurredAt time.Time) (bool, error) {
	latest, err := d.Repo.LatestForUser(ctx, accountID)
	if err != nil {
		return false, err
	}
	if latest == nil || latest.Reason != reason {
		return false, nil
	}
	return occurredAt.Sub(latest.CreatedAt) < d.Window, nil
}

type ViolationService interface {
	RecordViolation(ctx context.Context, accountID uuid.UUID, reason string, severity model.Severity, occurredAt time.Time) (*model.Account, error)
}

type violationService struct {
	cfg           *policy.Config
	accountRepo   repository.AccountRepository
	violationRepo repository.ViolationRepository
	deduper       IncidentDeduper
	bus           *events.Bus
	clock         clockwork.Clock
}

func NewViolationService(cfg *policy.Config, accountRepo repository.AccountRepository, violationRepo repository.ViolationRepository, deduper IncidentDeduper, bus *events.Bus, clock clockwork.Clock) ViolationService {
	if deduper == nil {
		deduper = NoDedup{}
	}
	return &violationService{
		cfg:           cfg,
		accountRepo:   accountRepo,
		violationRepo: violationRepo,
		deduper:       deduper,
		bus:           bus,
		clock:         clock,
	}
}

// RecordViolation applies one violation event to the account's escalation
// state machine:
//
//	0 -> 1  warning only, rewards continue
//	1 -> 2  rewards suspended for the first window
//	at 2, within an active suspension (or severe at any level)
//	        -> permanent ban, Good Heart stripped
//	at 2, suspension lapsed
//	        -> re-suspend for the longer window, level stays 2
func (s *violationService) RecordViolation(ctx context.Context, accountID uuid.UUID, reason string, severity model.Severity, occurredAt time.Time) (*model.Account, error) {
	if occurredAt.IsZero() {
		occurredAt = s.clock.Now()
	}

	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}

	dup, err := s.deduper.IsDuplicate(ctx, accountID, reason, occurredAt)
	if err != nil {
		return nil, fmt.Errorf("dedup check: %w", err)
	}
	if dup {
		return account, nil
	}

	// Young accounts get the record without escalation, unless severe.
	inGrace := occurredAt.Sub(account.CreatedAt) < s.cfg.GracePeriod && severity != model.SeveritySevere

	record := &model.ViolationRecord{
		UserID:    accountID,
		Reason:    reason,
		Severity:  severity,
		CreatedAt: occurredAt,
	}

	switch {
	case account.PermanentBan:
		// Already at the terminal state; keep the audit record.
		record.ViolationCount = account.ViolationLevel

	case inGrace:
		record.ViolationCount = account.ViolationLevel

	case severity == model.SeveritySevere:
		s.applyPermanentBan(account, occurredAt)
		record.ViolationCount = account.ViolationLevel

	case account.ViolationLevel == 0:
		account.ViolationLevel = 1
		account.IsGoodHeart = false
		record.ViolationCount = 1

	case account.ViolationLevel == 1:
		expiry := occurredAt.Add(s.cfg.FirstSuspension)
		account.ViolationLevel = 2
		account.IsGoodHeart = false
		account.BanStartedAt = &occurredAt
		account.BanExpiresAt = &expiry
		record.ViolationCount = 2
		record.ExpiresAt = &expiry

	default: // level >= 2
		if account.SuspendedAt(occurredAt) {
			// Violation inside an active suspension window.
			s.applyPermanentBan(account, occurredAt)
			record.ViolationCount = account.ViolationLevel
		} else {
			expiry := occurredAt.Add(s.cfg.SecondSuspension)
			account.BanStartedAt = &occurredAt
			account.BanExpiresAt = &expiry
			record.ViolationCount = account.ViolationLevel
			record.ExpiresAt = &expiry
		}
	}

	if err := s.violationRepo.Append(ctx, record); err != nil {
		return nil, fmt.Errorf("append violation record: %w", err)
	}

	if err := s.accountRepo.UpdateFields(ctx, accountID, map[string]interface{}{
		"violation_level": account.ViolationLevel,
		"banned":          account.Banned,
		"permanent_ban":   account.PermanentBan,
		"ban_started_at":  account.BanStartedAt,
		"ban_expires_at":  account.BanExpiresAt,
		"is_good_heart":   account.IsGoodHeart,
	}); err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}

	s.publishOutcome(account, reason, occurredAt)

	return account, nil
}

func (s *violationService) applyPermanentBan(account *model.Account, now time.Time) {
	if account.ViolationLevel < s.cfg.PermanentBanLevel {
		account.ViolationLevel = s.cfg.PermanentBanLevel
	} else {
		account.ViolationLevel++
	}
	sentinel := s.cfg.PermanentExpiry(now)
	account.Banned = true
	account.PermanentBan = true
	account.BanStartedAt = &now
	account.BanExpiresAt = &sentinel
	account.IsGoodHeart = false
}

func (s *violationService) publishOutcome(account *model.Account, reason string, occurredAt time.Time) {
	evt := events.Event{
		AccountID:  account.ID,
		EntityID:   account.ID,
		OccurredAt: occurredAt,
	}
	switch {
	case account.Banned:
		evt.Kind = events.KindBanApplied
		evt.Message = "Your account has been permanently banned: " + reason
	case account.SuspendedAt(occurredAt):
		evt.Kind = events.KindSuspensionApplied
		evt.Message = fmt.Sprintf("Rewards are paused until %s: %s", account.BanExpiresAt.Format(time.RFC3339), reason)
	default:
		evt.Kind = events.KindViolationRecorded
		evt.Message = "A violation was recorded on your account: " + reason
	}
	s.bus.Publish(evt)
}
