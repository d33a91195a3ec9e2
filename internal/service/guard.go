package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ActionGuard is a short-lived lock per (user, action, target). It
// short-circuits UI double-taps and duplicate webhook delivery before they
// reach Postgres; the unique index on reward_actions remains the
// authoritative guard. An acquired guard must be released when the
// evaluation ends in anything other than a grant, so a refused or failed
// attempt stays retryable.
type ActionGuard interface {
	Acquire(ctx context.Context, userID uuid.UUID, action, target string) (bool, error)
	Release(ctx context.Context, userID uuid.UUID, action, target string) error
}

// NewActionGuard returns a redis-backed guard, or a pass-through guard when
// redis is not configured.
func NewActionGuard(rdb *redis.Client, ttl time.Duration) ActionGuard {
	if rdb == nil {
		return noopGuard{}
	}
	return &redisGuard{rdb: rdb, ttl: ttl}
}

type noopGuard struct{}

func (noopGuard) Acquire(ctx context.Context, userID uuid.UUID, action, target string) (bool, error) {
	return true, nil
}

func (noopGuard) Release(ctx context.Context, userID uuid.UUID, action, target string) error {
	return nil
}

type redisGuard struct {
	rdb *redis.Client
	ttl time.Duration
}

func guardKey(userID uuid.UUID, action, target string) string {
	return fmt.Sprintf("action_guard:user:%s:%s:%s", userID.String(), action, target)
}

func (g *redisGuard) Acquire(ctx context.Context, userID uuid.UUID, action, target string) (bool, error) {
	wasSet, err := g.rdb.SetNX(ctx, guardKey(userID, action, target), "locked", g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check action guard in redis: %w", err)
	}
	return wasSet, nil
}

func (g *redisGuard) Release(ctx context.Context, userID uuid.UUID, action, target string) error {
	return g.rdb.Del(ctx, guardKey(userID, action, target)).Err()
}
