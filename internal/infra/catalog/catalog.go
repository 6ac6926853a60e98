// Package catalog provides fixture track data standing in for the external
// catalog service. Tracks are read-only reference data.
package catalog

import (
	"math/rand"
	"time"

	"beatdeck/internal/domain/track"
)

// Catalog is a static track lookup.
type Catalog struct {
	tracks []track.Track
	byID   map[string]int
}

// New creates the fixture catalog.
func New() *Catalog {
	c := &Catalog{tracks: fixtureTracks()}
	c.byID = make(map[string]int, len(c.tracks))
	for i, t := range c.tracks {
		c.byID[t.ID] = i
	}
	return c
}

// Lookup returns the track with the given id.
func (c *Catalog) Lookup(id string) (track.Track, bool) {
	i, ok := c.byID[id]
	if !ok {
		return track.Track{}, false
	}
	return c.tracks[i], true
}

// All returns every track in catalog order.
func (c *Catalog) All() []track.Track {
	out := make([]track.Track, len(c.tracks))
	copy(out, c.tracks)
	return out
}

// Size returns the number of tracks in the catalog.
func (c *Catalog) Size() int {
	return len(c.tracks)
}

// Random returns n distinct tracks drawn at random. When n exceeds the
// catalog size every track is returned, in random order.
func (c *Catalog) Random(n int) []track.Track {
	if n <= 0 {
		return nil
	}
	if n > len(c.tracks) {
		n = len(c.tracks)
	}
	out := make([]track.Track, 0, n)
	for _, i := range rand.Perm(len(c.tracks))[:n] {
		out = append(out, c.tracks[i])
	}
	return out
}

func fixtureTracks() []track.Track {
	return []track.Track{
		{
			ID:          "track-1",
			Title:       "Neon Horizon",
			Artist:      "Aurora Fields",
			ArtistID:    "artist-1",
			CoverArtURL: "https://images.example.com/art/track-1.jpg",
			AudioURL:    "https://audio.example.com/track-1.mp3",
			Duration:    3*time.Minute + 24*time.Second,
			Genre:       "Electronic",
			Plays:       45231,
			Likes:       2104,
		},
		{
			ID:          "track-2",
			Title:       "Low Tide",
			Artist:      "Saltwater Keys",
			ArtistID:    "artist-2",
			CoverArtURL: "https://images.example.com/art/track-2.jpg",
			AudioURL:    "https://audio.example.com/track-2.mp3",
			Duration:    4*time.Minute + 2*time.Second,
			Genre:       "Ambient",
			Plays:       18750,
			Likes:       930,
		},
		{
			ID:          "track-3",
			Title:       "Concrete Garden",
			Artist:      "Vela Mode",
			ArtistID:    "artist-3",
			CoverArtURL: "https://images.example.com/art/track-3.jpg",
			AudioURL:    "https://audio.example.com/track-3.mp3",
			Duration:    2*time.Minute + 58*time.Second,
			Genre:       "Indie Pop",
			Explicit:    true,
			Plays:       60233,
			Likes:       4401,
		},
		{
			ID:          "track-4",
			Title:       "Afterglow",
			Artist:      "Aurora Fields",
			ArtistID:    "artist-1",
			CoverArtURL: "https://images.example.com/art/track-4.jpg",
			AudioURL:    "https://audio.example.com/track-4.mp3",
			Duration:    3*time.Minute + 41*time.Second,
			Genre:       "Electronic",
			Plays:       33012,
			Likes:       1562,
		},
		{
			ID:          "track-5",
			Title:       "Paper Planes at Dusk",
			Artist:      "Monday Transit",
			ArtistID:    "artist-4",
			CoverArtURL: "https://images.example.com/art/track-5.jpg",
			AudioURL:    "https://audio.example.com/track-5.mp3",
			Duration:    5*time.Minute + 10*time.Second,
			Genre:       "Post Rock",
			Plays:       9120,
			Likes:       511,
		},
		{
			ID:          "track-6",
			Title:       "Static Bloom",
			Artist:      "Vela Mode",
			ArtistID:    "artist-3",
			CoverArtURL: "https://images.example.com/art/track-6.jpg",
			AudioURL:    "https://audio.example.com/track-6.mp3",
			Duration:    3*time.Minute + 5*time.Second,
			Genre:       "Indie Pop",
			Plays:       27410,
			Likes:       1287,
		},
		{
			ID:          "track-7",
			Title:       "Night Bus",
			Artist:      "Saltwater Keys",
			ArtistID:    "artist-2",
			CoverArtURL: "https://images.example.com/art/track-7.jpg",
			AudioURL:    "https://audio.example.com/track-7.mp3",
			Duration:    4*time.Minute + 33*time.Second,
			Genre:       "Ambient",
			Plays:       15980,
			Likes:       803,
		},
		{
			ID:          "track-8",
			Title:       "Gravity Well",
			Artist:      "Aurora Fields",
			ArtistID:    "artist-1",
			CoverArtURL: "https://images.example.com/art/track-8.jpg",
			AudioURL:    "https://audio.example.com/track-8.mp3",
			Duration:    3*time.Minute + 17*time.Second,
			Genre:       "Electronic",
			Explicit:    false,
			Plays:       50244,
			Likes:       2877,
		},
	}
}
