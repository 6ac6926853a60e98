// Package playlist provides the Playlist domain entity.
package playlist

import (
	"time"

	"github.com/google/uuid"
)

// Playlist represents a user-owned playlist.
// The track list is ordered and dedup-checked: a track id appears at most once.
type Playlist struct {
	ID          string    `json:"id"`                    // Playlist ID (UUID)
	Name        string    `json:"name"`                  // Display name
	Description string    `json:"description,omitempty"` // Optional description
	CoverArt    string    `json:"coverArt,omitempty"`    // Optional cover image URL
	TrackIDs    []string  `json:"trackIds"`              // Ordered track ids, no duplicates
	OwnerID     string    `json:"ownerId"`               // Owning user id
	IsPrivate   bool      `json:"isPrivate"`             // Visibility flag
	CreatedAt   time.Time `json:"createdAt"`             // Creation timestamp
	Likes       int       `json:"likes"`                 // Like counter
	Plays       int       `json:"plays"`                 // Play counter
}

// New creates a playlist owned by ownerID with a freshly minted id.
func New(ownerID, name, description, coverArt string, isPrivate bool) *Playlist {
	return &Playlist{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		CoverArt:    coverArt,
		TrackIDs:    make([]string, 0),
		OwnerID:     ownerID,
		IsPrivate:   isPrivate,
		CreatedAt:   time.Now(),
	}
}

// IsOwnedBy reports whether userID owns the playlist.
func (p *Playlist) IsOwnedBy(userID string) bool {
	return p.OwnerID == userID
}

// HasTrack reports whether the track is in the playlist.
func (p *Playlist) HasTrack(trackID string) bool {
	for _, id := range p.TrackIDs {
		if id == trackID {
			return true
		}
	}
	return false
}

// AddTrack appends a track to the playlist.
// Returns false if the track is already present (no-op).
func (p *Playlist) AddTrack(trackID string) bool {
	if p.HasTrack(trackID) {
		return false
	}
	p.TrackIDs = append(p.TrackIDs, trackID)
	return true
}

// RemoveTrack removes a track from the playlist.
// Returns false if the track was not present.
func (p *Playlist) RemoveTrack(trackID string) bool {
	for i, id := range p.TrackIDs {
		if id == trackID {
			p.TrackIDs = append(p.TrackIDs[:i], p.TrackIDs[i+1:]...)
			return true
		}
	}
	return false
}

// TrackCount returns the number of tracks in the playlist.
func (p *Playlist) TrackCount() int {
	return len(p.TrackIDs)
}
