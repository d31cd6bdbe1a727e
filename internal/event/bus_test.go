package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBusDeliversToAllSubscribers(t *testing.T) {
	t.Parallel()

	bus := NewBus()

	ch1, cancel1 := bus.Subscribe()
	defer cancel1()
	ch2, cancel2 := bus.Subscribe()
	defer cancel2()

	bus.Publish(Event{ID: "e1", Type: TypeNoticePublished, Platform: "admin"})

	for _, ch := range []<-chan Event{ch1, ch2} {
		select {
		case e := <-ch:
			require.Equal(t, "e1", e.ID)
			require.Equal(t, Type(TypeNoticePublished), e.Type)
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}
}

func TestBusUnsubscribeStopsDelivery(t *testing.T) {
	t.Parallel()

	bus := NewBus()

	ch, cancel := bus.Subscribe()
	cancel()

	// Publishing after unsubscribe must not panic; the channel is closed.
	bus.Publish(Event{ID: "e1"})

	_, open := <-ch
	require.False(t, open)
}

func TestBusDropsWhenSubscriberIsFull(t *testing.T) {
	t.Parallel()

	bus := NewBus()

	ch, cancel := bus.Subscribe()
	defer cancel()

	// Fill the buffer and one more; the extra publish must not block.
	for i := 0; i < 101; i++ {
		bus.Publish(Event{ID: "e"})
	}

	received := 0
	for {
		select {
		case <-ch:
			received++
		default:
			require.Equal(t, 100, received)
			return
		}
	}
}
