package track

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTrack_Seconds(t *testing.T) {
	trk := &Track{ID: "track-1", Duration: 3*time.Minute + 20*time.Second}

	assert.Equal(t, 200.0, trk.Seconds())
}

func TestTrack_DisplayName(t *testing.T) {
	tests := []struct {
		name   string
		track  Track
		expect string
	}{
		{
			name:   "artist and title",
			track:  Track{Title: "Midnight City", Artist: "M83"},
			expect: "M83 - Midnight City",
		},
		{
			name:   "title only",
			track:  Track{Title: "Untitled"},
			expect: "Untitled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.track.DisplayName())
		})
	}
}
