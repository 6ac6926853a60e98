package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitForEvents polls the collector until it holds want events or the
// deadline passes. Delivery is asynchronous by design.
func waitForEvents(t *testing.T, c *Collector, want int) []Event {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if events := c.Events(); len(events) >= want {
			return events
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d events, got %d", want, len(c.Events()))
	return nil
}

func TestBus_PublishFansOut(t *testing.T) {
	b := NewBus()
	defer b.Close()

	c1 := NewCollector()
	c2 := NewCollector()
	b.Subscribe(c1)
	b.Subscribe(c2)
	assert.Equal(t, 2, b.SubscriberCount())

	b.Publish(EventTrackLike, map[string]any{"track_id": "track-1"})

	e1 := waitForEvents(t, c1, 1)
	e2 := waitForEvents(t, c2, 1)

	assert.Equal(t, EventTrackLike, e1[0].Name)
	assert.Equal(t, "track-1", e1[0].Fields["track_id"])
	assert.Equal(t, e1[0].SequenceNo, e2[0].SequenceNo)
}

func TestBus_SequenceNumbersIncrease(t *testing.T) {
	b := NewBus()
	defer b.Close()

	c := NewCollector()
	b.Subscribe(c)

	b.Publish(EventUserLogin, nil)
	b.Publish(EventUserLogout, nil)
	b.Publish(EventCustom, nil)

	events := waitForEvents(t, c, 3)

	seen := make(map[uint64]bool)
	for _, e := range events {
		assert.False(t, seen[e.SequenceNo], "sequence numbers must be unique")
		seen[e.SequenceNo] = true
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	b := NewBus()
	defer b.Close()

	c := NewCollector()
	id := b.Subscribe(c)
	b.Unsubscribe(id)

	b.Publish(EventUserLogin, nil)

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, c.Events())
	assert.Equal(t, 0, b.SubscriberCount())
}

func TestBus_PublishWithoutSubscribersDoesNotBlock(t *testing.T) {
	b := NewBus()
	defer b.Close()

	done := make(chan struct{})
	go func() {
		b.Publish(EventUserLogin, nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked with no subscribers")
	}
}

func TestFields(t *testing.T) {
	type loginPayload struct {
		UserID    string `mapstructure:"user_id"`
		IsPremium bool   `mapstructure:"is_premium"`
	}

	fields := Fields(loginPayload{UserID: "user-1", IsPremium: true})

	require.Equal(t, "user-1", fields["user_id"])
	require.Equal(t, true, fields["is_premium"])
}
