package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory stand-ins for the Postgres-backed repositories. They honor the
// same contracts the real stores enforce with constraints: the reward
// unique index, the pending-only bonus resolution, UTC day bucketing.

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*model.Account
	roles    map[string]*model.Role
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{
		accounts: make(map[uuid.UUID]*model.Account),
		roles:    map[string]*model.Role{"member": {ID: 1, Name: "member"}, "admin": {ID: 2, Name: "admin"}},
	}
}

func (r *fakeAccountRepo) put(account *model.Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	r.accounts[account.ID] = account
}

func (r *fakeAccountRepo) Create(ctx context.Context, account *model.Account) error {
	r.put(account)
	return nil
}

func (r *fakeAccountRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *account
	return &copied, nil
}

func (r *fakeAccountRepo) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.accounts {
		if account.Email == email {
			copied := *account
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAccountRepo) FindByUsername(ctx context.Context, username string) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.accounts {
		if account.Username == username {
			copied := *account
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAccountRepo) FindRoleByName(ctx context.Context, name string) (*model.Role, error) {
	role, ok := r.roles[name]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return role, nil
}

func (r *fakeAccountRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for field, value := range fields {
		switch field {
		case "pending_reward":
			account.PendingReward = toInt64(value)
		case "violation_level":
			account.ViolationLevel = int(toInt64(value))
		case "banned":
			account.Banned = value.(bool)
		case "permanent_ban":
			account.PermanentBan = value.(bool)
		case "is_good_heart":
			account.IsGoodHeart = value.(bool)
		case "username":
			account.Username = value.(string)
		case "ban_started_at":
			account.BanStartedAt = toTimePtr(value)
		case "ban_expires_at":
			account.BanExpiresAt = toTimePtr(value)
		default:
			return fmt.Errorf("fakeAccountRepo: unknown field %q", field)
		}
	}
	return nil
}

func (r *fakeAccountRepo) AtomicIncrement(ctx context.Context, id uuid.UUID, field string, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	switch field {
	case "pending_reward":
		account.PendingReward += delta
	case "confirmed_balance":
		account.ConfirmedBalance += delta
	default:
		return fmt.Errorf("fakeAccountRepo: unknown field %q", field)
	}
	return nil
}

func (r *fakeAccountRepo) FindSuspendedStartedBefore(ctx context.Context, cutoff time.Time) ([]model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Account
	for _, account := range r.accounts {
		if account.ViolationLevel == 2 && !account.PermanentBan &&
			account.BanStartedAt != nil && !account.BanStartedAt.After(cutoff) {
			out = append(out, *account)
		}
	}
	return out, nil
}

func (r *fakeAccountRepo) FindGoodHeartCandidates(ctx context.Context, createdBefore time.Time) ([]model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Account
	for _, account := range r.accounts {
		if account.ViolationLevel == 0 && !account.Banned && !account.IsGoodHeart &&
			!account.CreatedAt.After(createdBefore) {
			out = append(out, *account)
		}
	}
	return out, nil
}

func toInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int64:
		return n
	default:
		panic(fmt.Sprintf("unexpected numeric type %T", v))
	}
}

func toTimePtr(v interface{}) *time.Time {
	switch t := v.(type) {
	case nil:
		return nil
	case time.Time:
		copied := t
		return &copied
	case *time.Time:
		return t
	default:
		panic(fmt.Sprintf("unexpected time type %T", v))
	}
}

type fakeGuard struct {
	mu         sync.Mutex
	held       map[string]bool
	acquireErr error
}

func newFakeGuard() *fakeGuard {
	return &fakeGuard{held: make(map[string]bool)}
}

func (g *fakeGuard) key(userID uuid.UUID, action, target string) string {
	return fmt.Sprintf("%s|%s|%s", userID, action, target)
}

func (g *fakeGuard) Acquire(ctx context.Context, userID uuid.UUID, action, target string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.acquireErr != nil {
		return false, g.acquireErr
	}
	key := g.key(userID, action, target)
	if g.held[key] {
		return false, nil
	}
	g.held[key] = true
	return true, nil
}

func (g *fakeGuard) Release(ctx context.Context, userID uuid.UUID, action, target string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.held, g.key(userID, action, target))
	return nil
}

func (g *fakeGuard) holds(userID uuid.UUID, action, target string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.held[g.key(userID, action, target)]
}

type fakeRewardRepo struct {
	mu        sync.Mutex
	actions   []model.RewardAction
	keys      map[string]bool
	existsErr error
}

func newFakeRewardRepo() *fakeRewardRepo {
	return &fakeRewardRepo{keys: make(map[string]bool)}
}

func rewardKey(actorID uuid.UUID, actionType model.ActionType, targetID uuid.UUID) string {
	return fmt.Sprintf("%s|%s|%s", actorID, actionType, targetID)
}

func (r *fakeRewardRepo) Exists(ctx context.Context, actorID uuid.UUID, actionType model.ActionType, targetID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.existsErr != nil {
		return false, r.existsErr
	}
	return r.keys[rewardKey(actorID, actionType, targetID)], nil
}

func (r *fakeRewardRepo) InsertIfAbsent(ctx context.Context, action *model.RewardAction) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := rewardKey(action.ActorID, action.ActionType, action.TargetID)
	if r.keys[key] {
		return false, nil
	}
	r.keys[key] = true
	r.actions = append(r.actions, *action)
	return true, nil
}

func sameUTCDay(a, b time.Time) bool {
	au, bu := a.UTC(), b.UTC()
	return au.Year() == bu.Year() && au.YearDay() == bu.YearDay()
}

func (r *fakeRewardRepo) CountForDay(ctx context.Context, actorID uuid.UUID, actionType model.ActionType, day time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, action := range r.actions {
		if action.ActorID == actorID && action.ActionType == actionType && sameUTCDay(action.CreatedAt, day) {
			count++
		}
	}
	return count, nil
}

func (r *fakeRewardRepo) SumAmountForDay(ctx context.Context, actorID uuid.UUID, day time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum int64
	for _, action := range r.actions {
		if action.ActorID == actorID && sameUTCDay(action.CreatedAt, day) {
			sum += action.Amount
		}
	}
	return sum, nil
}

func (r *fakeRewardRepo) HistoryForActor(ctx context.Context, actorID uuid.UUID, limit, offset int) ([]model.RewardAction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.RewardAction
	for _, action := range r.actions {
		if action.ActorID == actorID {
			out = append(out, action)
		}
	}
	return out, nil
}

func (r *fakeRewardRepo) SumAmountForActor(ctx context.Context, actorID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum int64
	for _, action := range r.actions {
		if action.ActorID == actorID {
			sum += action.Amount
		}
	}
	return sum, nil
}

type fakeActivityRepo struct {
	mu      sync.Mutex
	entries []model.ActivityLog
}

func (r *fakeActivityRepo) Record(ctx context.Context, entry *model.ActivityLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeActivityRepo) HasActivitySince(ctx context.Context, userID uuid.UUID, since time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range r.entries {
		if entry.UserID == userID && entry.CreatedAt.After(since) {
			return true, nil
		}
	}
	return false, nil
}

type fakeViolationRepo struct {
	mu      sync.Mutex
	records []model.ViolationRecord
}

func (r *fakeViolationRepo) Append(ctx context.Context, record *model.ViolationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record.ID = uint(len(r.records) + 1)
	r.records = append(r.records, *record)
	return nil
}

func (r *fakeViolationRepo) LatestForUser(ctx context.Context, userID uuid.UUID) (*model.ViolationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *model.ViolationRecord
	for i := range r.records {
		record := r.records[i]
		if record.UserID != userID {
			continue
		}
		if latest == nil || record.CreatedAt.After(latest.CreatedAt) {
			copied := record
			latest = &copied
		}
	}
	return latest, nil
}

func (r *fakeViolationRepo) CountForUserSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, record := range r.records {
		if record.UserID == userID && !record.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

type fakeBonusRepo struct {
	mu       sync.Mutex
	requests map[uuid.UUID]*model.BonusRequest
}

func newFakeBonusRepo() *fakeBonusRepo {
	return &fakeBonusRepo{requests: make(map[uuid.UUID]*model.BonusRequest)}
}

func (r *fakeBonusRepo) Create(ctx context.Context, request *model.BonusRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.requests {
		if existing.PostID == request.PostID && existing.UserID == request.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	copied := *request
	r.requests[request.ID] = &copied
	return nil
}

func (r *fakeBonusRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.BonusRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *request
	return &copied, nil
}

func (r *fakeBonusRepo) FindByPostAndUser(ctx context.Context, postID, userID uuid.UUID) (*model.BonusRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, request := range r.requests {
		if request.PostID == postID && request.UserID == userID {
			copied := *request
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeBonusRepo) Resolve(ctx context.Context, id uuid.UUID, status model.BonusStatus, resolvedBy uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[id]
	if !ok || request.Status != model.BonusPending {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	request.Status = status
	request.ResolvedBy = &resolvedBy
	request.ResolvedAt = &now
	return nil
}

func (r *fakeBonusRepo) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.BonusRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.BonusRequest
	for _, request := range r.requests {
		if request.UserID == userID {
			out = append(out, *request)
		}
	}
	return out, nil
}

func (r *fakeBonusRepo) ListPending(ctx context.Context, limit, offset int) ([]model.BonusRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.BonusRequest
	for _, request := range r.requests {
		if request.Status == model.BonusPending {
			out = append(out, *request)
		}
	}
	return out, nil
}

type fakePostRepo struct {
	mu    sync.Mutex
	posts map[uuid.UUID]*model.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[uuid.UUID]*model.Post)}
}

func (r *fakePostRepo) Create(ctx context.Context, post *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	copied := *post
	r.posts[post.ID] = &copied
	return nil
}

func (r *fakePostRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *post
	return &copied, nil
}
