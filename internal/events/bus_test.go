package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_FansOutToAllSubscribers(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	first, cancelFirst := bus.Subscribe(4)
	defer cancelFirst()
	second, cancelSecond := bus.Subscribe(4)
	defer cancelSecond()

	evt := Event{Kind: KindRewardGranted, AccountID: uuid.New(), Amount: 10, OccurredAt: time.Now()}
	bus.Publish(evt)

	got := <-first
	assert.Equal(t, evt, got)
	got = <-second
	assert.Equal(t, evt, got)
}

func TestBus_PublishNeverBlocksOnSlowSubscriber(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	slow, cancelSlow := bus.Subscribe(1)
	defer cancelSlow()
	healthy, cancelHealthy := bus.Subscribe(4)
	defer cancelHealthy()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 3; i++ {
			bus.Publish(Event{Kind: KindRewardGranted})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}

	// The slow subscriber kept one event, the healthy one kept all three.
	assert.Len(t, slow, 1)
	assert.Len(t, healthy, 3)
}

func TestBus_CancelStopsDelivery(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ch, cancel := bus.Subscribe(4)
	cancel()

	bus.Publish(Event{Kind: KindRewardGranted})

	_, open := <-ch
	assert.False(t, open, "cancelled subscriber channel must be closed")
}

func TestBus_CloseIsTerminal(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe(4)
	defer cancel()

	bus.Close()
	bus.Publish(Event{Kind: KindRewardGranted})

	_, open := <-ch
	require.False(t, open)

	// Idempotent.
	bus.Close()
}
