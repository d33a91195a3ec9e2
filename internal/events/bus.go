package events

import (
	"log"
	"sync"
	"time"

	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/model"
	"github.com/google/uuid"
)

type Kind string

const (
	KindRewardGranted     Kind = "reward_granted"
	KindViolationRecorded Kind = "violation_recorded"
	KindSuspensionApplied Kind = "suspension"
	KindBanApplied        Kind = "ban"
	KindBonusApproved     Kind = "bonus_approved"
	KindBonusRejected     Kind = "bonus_rejected"
	KindGoodHeartGranted  Kind = "good_heart"
)

// Event is one policy outcome worth telling the user about.
type Event struct {
	Kind       Kind
	AccountID  uuid.UUID
	ActionType model.ActionType
	EntityID   uuid.UUID
	Amount     int64
	Message    string
	OccurredAt time.Time
}

// Bus is an in-process typed publish/subscribe channel between the policy
// engine and the notification layer. Publish never blocks: a subscriber
// that falls behind loses events rather than stalling a reward decision.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]chan Event
	nextID int
	closed bool
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe returns a receive channel and a cancel func. The buffer bounds
// how far a slow consumer may lag before events are dropped.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, buffer)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish fans the event out to all subscribers without blocking.
func (b *Bus) Publish(evt Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- evt:
		default:
			log.Printf("event bus: subscriber full, dropping %s for %s", evt.Kind, evt.AccountID)
		}
	}
}

// Close stops delivery and closes all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
