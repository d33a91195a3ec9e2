// Package jobs runs the background policy sweeps on a cron schedule.
package jobs

import (
	"context"
	"log"
	"time"

	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/service"
	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cron         *cron.Cron
	sweepService service.SweepService
}

func NewScheduler(sweepService service.SweepService) *Scheduler {
	// Caps and streaks are defined on UTC days, so the schedule is too.
	c := cron.New(cron.WithLocation(time.UTC))

	return &Scheduler{
		cron:         c,
		sweepService: sweepService,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	// Hourly inactivity sweep; promotion is idempotent so re-runs are safe.
	s.cron.AddFunc("10 * * * *", func() {
		log.Println("🧹 Running inactivity ban sweep...")
		result, err := s.sweepService.SweepInactiveBans(ctx, time.Time{})
		if err != nil {
			log.Printf("❌ Inactivity sweep failed: %v", err)
			return
		}
		log.Printf("✅ Inactivity sweep done: %d promoted, %d still suspended", len(result.Promoted), len(result.StillSuspended))
	})

	// Daily Good Heart refresh just after the UTC day boundary.
	s.cron.AddFunc("30 0 * * *", func() {
		log.Println("💚 Running Good Heart refresh...")
		granted, err := s.sweepService.RefreshGoodHeart(ctx, time.Time{})
		if err != nil {
			log.Printf("❌ Good Heart refresh failed: %v", err)
			return
		}
		log.Printf("✅ Good Heart refresh done: %d badges granted", granted)
	})

	s.cron.Start()
	log.Println("Scheduler started (UTC)")
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Scheduler stopped")
}
