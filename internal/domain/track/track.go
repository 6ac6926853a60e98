// Package track provides the Track domain entity.
package track

import "time"

// Track represents a catalog track.
// Tracks are read-only reference data supplied by the external catalog;
// the stores never create or mutate them.
type Track struct {
	ID          string        `json:"id"`          // Catalog track ID
	Title       string        `json:"title"`       // Track title
	Artist      string        `json:"artist"`      // Display artist name
	ArtistID    string        `json:"artistId"`    // Catalog artist ID
	CoverArtURL string        `json:"coverArtUrl"` // Cover art URL
	AudioURL    string        `json:"audioUrl"`    // Audio source locator
	Duration    time.Duration `json:"duration"`    // Track duration
	Genre       string        `json:"genre"`       // Primary genre
	Explicit    bool          `json:"explicit"`    // Explicit content flag
	Plays       int           `json:"plays"`       // Play counter
	Likes       int           `json:"likes"`       // Like counter
}

// Seconds returns the track duration in whole seconds.
func (t *Track) Seconds() float64 {
	return t.Duration.Seconds()
}

// DisplayName returns "Artist - Title" for logs and CLIs.
func (t *Track) DisplayName() string {
	if t.Artist == "" {
		return t.Title
	}
	return t.Artist + " - " + t.Title
}
