// Package analytics provides the fire-and-forget analytics event bus.
//
// Both stores publish state-transition events here. Delivery is strictly
// outbound: no return value is consumed, and a slow or failing sink never
// blocks a store mutation.
package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"
)

// Event names published by the identity store.
const (
	EventUserLogin               = "user_login"
	EventUserLogout              = "user_logout"
	EventUserFollow              = "user_follow"
	EventUserUnfollow            = "user_unfollow"
	EventUserProfileUpdate       = "user_profile_update"
	EventTrackLike               = "track_like"
	EventTrackUnlike             = "track_unlike"
	EventPlaylistCreate          = "playlist_create"
	EventPlaylistUpdate          = "playlist_update"
	EventPlaylistDelete          = "playlist_delete"
	EventPlaylistLike            = "playlist_like"
	EventPlaylistUnlike          = "playlist_unlike"
	EventTrackAddToPlaylist      = "track_add_to_playlist"
	EventTrackRemoveFromPlaylist = "track_remove_from_playlist"

	// EventCustom is the free-form event; fields carry category and action.
	EventCustom = "custom_event"
)

// Event is a published analytics event.
type Event struct {
	SequenceNo uint64
	Name       string
	Fields     map[string]any
	Time       time.Time
}

// Sink receives published events.
type Sink interface {
	Deliver(Event) error
}

// subscription represents a subscriber's registration.
type subscription struct {
	id   string
	sink Sink
}

// Bus fans events out to all subscribed sinks.
type Bus struct {
	mu            sync.RWMutex
	subscriptions map[string]*subscription

	sequenceNo   uint64
	sequenceNoMu sync.Mutex

	sendTimeout time.Duration
}

// NewBus creates an analytics bus.
func NewBus() *Bus {
	return &Bus{
		subscriptions: make(map[string]*subscription),
		sendTimeout:   500 * time.Millisecond,
	}
}

// Subscribe registers a sink and returns its subscription id.
func (b *Bus) Subscribe(sink Sink) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.New().String()
	b.subscriptions[id] = &subscription{id: id, sink: sink}
	return id
}

// Unsubscribe removes a subscription.
func (b *Bus) Unsubscribe(subscriptionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subscriptions, subscriptionID)
}

// SubscriberCount returns the number of registered sinks.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscriptions)
}

// Publish assigns a sequence number and delivers the event to every sink.
// Delivery runs in the background; Publish never blocks on a sink.
func (b *Bus) Publish(name string, fields map[string]any) {
	b.sequenceNoMu.Lock()
	b.sequenceNo++
	seq := b.sequenceNo
	b.sequenceNoMu.Unlock()

	event := Event{
		SequenceNo: seq,
		Name:       name,
		Fields:     fields,
		Time:       time.Now(),
	}

	b.mu.RLock()
	subs := make([]*subscription, 0, len(b.subscriptions))
	for _, sub := range b.subscriptions {
		subs = append(subs, sub)
	}
	b.mu.RUnlock()

	for _, sub := range subs {
		go b.deliver(sub, event)
	}
}

// deliver sends the event to one sink with a timeout. Errors are logged
// and otherwise dropped.
func (b *Bus) deliver(sub *subscription, event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), b.sendTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- sub.sink.Deliver(event)
	}()

	select {
	case err := <-done:
		if err != nil {
			zlog.Debug().Err(err).Msgf("analytics: sink %s dropped event %s", sub.id, event.Name)
		}
	case <-ctx.Done():
		zlog.Debug().Msgf("analytics: sink %s timed out on event %s", sub.id, event.Name)
	}
}

// Close removes all subscriptions.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscriptions = make(map[string]*subscription)
}

// Fields converts a struct payload into an event field map.
// Map keys follow the struct's mapstructure tags.
func Fields(payload any) map[string]any {
	out := make(map[string]any)
	if err := mapstructure.Decode(payload, &out); err != nil {
		zlog.Debug().Err(err).Msg("analytics: failed to decode payload")
		return map[string]any{}
	}
	return out
}
