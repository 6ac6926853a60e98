package playlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	p := New("user-1", "Morning Mix", "wake up tunes", "https://img.example/cover.jpg", true)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "user-1", p.OwnerID)
	assert.Equal(t, "Morning Mix", p.Name)
	assert.Equal(t, "wake up tunes", p.Description)
	assert.True(t, p.IsPrivate)
	assert.Empty(t, p.TrackIDs)
	assert.False(t, p.CreatedAt.IsZero())

	other := New("user-1", "Morning Mix", "", "", false)
	assert.NotEqual(t, p.ID, other.ID, "ids must be unique")
}

func TestPlaylist_AddTrack(t *testing.T) {
	tests := []struct {
		name      string
		existing  []string
		add       string
		wantAdded bool
		wantIDs   []string
	}{
		{
			name:      "add to empty playlist",
			existing:  []string{},
			add:       "track-1",
			wantAdded: true,
			wantIDs:   []string{"track-1"},
		},
		{
			name:      "add new track preserves order",
			existing:  []string{"track-1", "track-2"},
			add:       "track-3",
			wantAdded: true,
			wantIDs:   []string{"track-1", "track-2", "track-3"},
		},
		{
			name:      "duplicate is a no-op",
			existing:  []string{"track-1", "track-2"},
			add:       "track-2",
			wantAdded: false,
			wantIDs:   []string{"track-1", "track-2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Playlist{ID: "playlist-1", TrackIDs: append([]string{}, tt.existing...)}

			added := p.AddTrack(tt.add)

			assert.Equal(t, tt.wantAdded, added)
			assert.Equal(t, tt.wantIDs, p.TrackIDs)
		})
	}
}

func TestPlaylist_RemoveTrack(t *testing.T) {
	tests := []struct {
		name        string
		existing    []string
		remove      string
		wantRemoved bool
		wantIDs     []string
	}{
		{
			name:        "remove existing track",
			existing:    []string{"track-1", "track-2", "track-3"},
			remove:      "track-2",
			wantRemoved: true,
			wantIDs:     []string{"track-1", "track-3"},
		},
		{
			name:        "remove missing track",
			existing:    []string{"track-1"},
			remove:      "track-9",
			wantRemoved: false,
			wantIDs:     []string{"track-1"},
		},
		{
			name:        "remove from empty playlist",
			existing:    []string{},
			remove:      "track-1",
			wantRemoved: false,
			wantIDs:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Playlist{ID: "playlist-1", TrackIDs: append([]string{}, tt.existing...)}

			removed := p.RemoveTrack(tt.remove)

			assert.Equal(t, tt.wantRemoved, removed)
			assert.Equal(t, tt.wantIDs, p.TrackIDs)
		})
	}
}

func TestPlaylist_HasTrack(t *testing.T) {
	p := &Playlist{TrackIDs: []string{"track-1", "track-2"}}

	assert.True(t, p.HasTrack("track-1"))
	assert.False(t, p.HasTrack("track-3"))
	assert.Equal(t, 2, p.TrackCount())
}

func TestPlaylist_IsOwnedBy(t *testing.T) {
	p := &Playlist{OwnerID: "user-1"}

	assert.True(t, p.IsOwnedBy("user-1"))
	assert.False(t, p.IsOwnedBy("user-2"))
}
