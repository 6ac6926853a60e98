package player

import (
	"math/rand"
	"sync"
	"time"

	zlog "github.com/rs/zerolog/log"

	"beatdeck/internal/app/analytics"
	"beatdeck/internal/domain/track"
)

// Config holds playback store configuration.
type Config struct {
	WaveformSamples int // Samples per waveform; 64 when zero
}

const defaultWaveformSamples = 64

// Recorder receives track ids as they start playing.
// The identity store's recently-played list implements this.
type Recorder interface {
	AddToRecentlyPlayed(trackID string)
}

// Store is the playback store: current track, transport position, queue,
// shuffle/repeat modes, and the minimized-view flag.
//
// Every operation is total: invalid input is clamped, never rejected.
// Phase is idle exactly when there is no current track.
type Store struct {
	mu sync.RWMutex

	current     *track.Track
	phase       Phase
	currentTime float64 // Seconds, always in [0, duration]

	queue   []track.Track // Upcoming tracks
	history []track.Track // Previously played tracks, oldest first

	shuffle   bool
	repeat    RepeatMode
	minimized bool
	dragging  bool // Seek-drag transient; reset on track change

	waveform []float64
	samples  int

	rng *rand.Rand

	recorder Recorder
	bus      *analytics.Bus
}

// NewStore creates a playback store. recorder and bus may be nil.
func NewStore(cfg Config, recorder Recorder, bus *analytics.Bus) *Store {
	samples := cfg.WaveformSamples
	if samples <= 0 {
		samples = defaultWaveformSamples
	}
	return &Store{
		phase:    PhaseIdle,
		queue:    make([]track.Track, 0),
		history:  make([]track.Track, 0),
		samples:  samples,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		recorder: recorder,
		bus:      bus,
	}
}

// Play selects trk as the current track and replaces the upcoming queue.
// Position resets to zero and the waveform is regenerated.
func (s *Store) Play(trk track.Track, upcoming ...track.Track) {
	s.mu.Lock()
	s.history = s.history[:0]
	s.queue = append(s.queue[:0], upcoming...)
	s.selectLocked(trk)
	s.mu.Unlock()

	s.publish("play", trk.ID)
}

// Enqueue appends tracks to the upcoming queue.
func (s *Store) Enqueue(tracks ...track.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, tracks...)
}

// TogglePlay flips playing/paused. No-op when idle.
func (s *Store) TogglePlay() {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case PhasePlaying:
		s.phase = PhasePaused
	case PhasePaused:
		s.phase = PhasePlaying
	case PhaseIdle:
		// No current track, nothing to toggle
	}
}

// Pause pauses playback. No-op unless playing.
func (s *Store) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhasePlaying {
		s.phase = PhasePaused
	}
}

// Resume resumes paused playback. No-op unless paused.
func (s *Store) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhasePaused {
		s.phase = PhasePlaying
	}
}

// Stop clears the current track and returns the store to idle.
// The queue and history are kept.
func (s *Store) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toIdleLocked()
}

// SeekTo sets the transport position, clamped into [0, duration].
func (s *Store) SeekTo(seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentTime = clamp(seconds, 0, s.durationLocked())
}

// SetDragging marks the seek-drag transient UI state.
func (s *Store) SetDragging(dragging bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dragging = dragging
}

// Advance moves the position forward by dt seconds (the UI position
// timer). Reaching the end of the track applies repeat and queue
// semantics. No-op unless playing.
func (s *Store) Advance(dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhasePlaying || dt <= 0 {
		return
	}

	duration := s.durationLocked()
	s.currentTime = clamp(s.currentTime+dt, 0, duration)
	if s.currentTime < duration || duration == 0 {
		return
	}

	if s.repeat == RepeatOne {
		s.currentTime = 0
		return
	}
	s.advanceLocked()
}

// PlayNext skips to the next track. With repeat mode one the current
// track restarts instead.
func (s *Store) PlayNext() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return
	}
	if s.repeat == RepeatOne {
		s.currentTime = 0
		s.phase = PhasePlaying
		return
	}
	s.advanceLocked()
}

// PlayPrevious steps back to the most recently played track. With no
// history the current track restarts from zero.
func (s *Store) PlayPrevious() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return
	}
	if len(s.history) == 0 {
		s.currentTime = 0
		return
	}

	prev := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	s.queue = append([]track.Track{*s.current}, s.queue...)
	s.selectLocked(prev)
}

// ToggleShuffle flips shuffle mode.
func (s *Store) ToggleShuffle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shuffle = !s.shuffle
}

// ToggleRepeat cycles the repeat mode: off -> all -> one -> off.
func (s *Store) ToggleRepeat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repeat = s.repeat.Next()
}

// Minimize collapses the player view. Transport state is untouched.
func (s *Store) Minimize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.minimized = true
}

// Expand restores the full player view.
func (s *Store) Expand() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.minimized = false
}

// Phase returns the current player phase.
func (s *Store) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// CurrentTrack returns the current track.
func (s *Store) CurrentTrack() (track.Track, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return track.Track{}, false
	}
	return *s.current, true
}

// CurrentTime returns the transport position in seconds.
func (s *Store) CurrentTime() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentTime
}

// Duration returns the current track duration in seconds, 0 when idle.
func (s *Store) Duration() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.durationLocked()
}

// Queue returns a copy of the upcoming tracks.
func (s *Store) Queue() []track.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]track.Track, len(s.queue))
	copy(out, s.queue)
	return out
}

// History returns a copy of the previously played tracks, oldest first.
func (s *Store) History() []track.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]track.Track, len(s.history))
	copy(out, s.history)
	return out
}

// ShuffleEnabled reports whether shuffle mode is on.
func (s *Store) ShuffleEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shuffle
}

// Repeat returns the repeat mode.
func (s *Store) Repeat() RepeatMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.repeat
}

// IsMinimized reports whether the player view is minimized.
func (s *Store) IsMinimized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.minimized
}

// IsDragging reports the seek-drag transient state.
func (s *Store) IsDragging() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dragging
}

// WaveformData returns a copy of the current track's waveform samples.
func (s *Store) WaveformData() []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]float64, len(s.waveform))
	copy(out, s.waveform)
	return out
}

// selectLocked makes trk the current track: position resets, the seek
// transient clears, and the waveform regenerates when the track identity
// changed. Must be called with lock held.
func (s *Store) selectLocked(trk track.Track) {
	changed := s.current == nil || s.current.ID != trk.ID

	s.current = &trk
	s.phase = PhasePlaying
	s.currentTime = 0
	s.dragging = false

	if changed {
		s.waveform = Waveform(trk.ID, s.samples)
		zlog.Debug().Msgf("player: now playing %s", trk.DisplayName())
		if s.recorder != nil {
			s.recorder.AddToRecentlyPlayed(trk.ID)
		}
	}
}

// advanceLocked moves to the next queued track, honoring shuffle and the
// repeat-all wrap. Must be called with lock held and a current track set.
func (s *Store) advanceLocked() {
	ended := *s.current

	if len(s.queue) == 0 {
		if s.repeat == RepeatAll && len(s.history) > 0 {
			// Wrap: the played history becomes the queue again
			s.queue = append(s.queue, s.history...)
			s.queue = append(s.queue, ended)
			s.history = s.history[:0]

			next := s.queue[0]
			s.queue = s.queue[1:]
			s.selectLocked(next)
			return
		}
		if s.repeat == RepeatAll {
			// Single-track session: wrap is a restart
			s.currentTime = 0
			s.phase = PhasePlaying
			return
		}

		s.history = append(s.history, ended)
		s.toIdleLocked()
		zlog.Debug().Msg("player: queue exhausted")
		return
	}

	i := 0
	if s.shuffle {
		i = s.rng.Intn(len(s.queue))
	}
	next := s.queue[i]
	s.queue = append(s.queue[:i], s.queue[i+1:]...)
	s.history = append(s.history, ended)
	s.selectLocked(next)
}

// toIdleLocked clears the current track. Must be called with lock held.
func (s *Store) toIdleLocked() {
	s.current = nil
	s.phase = PhaseIdle
	s.currentTime = 0
	s.dragging = false
	s.waveform = nil
}

func (s *Store) durationLocked() float64 {
	if s.current == nil {
		return 0
	}
	return s.current.Seconds()
}

// publish emits a playback custom event. Fire-and-forget.
func (s *Store) publish(action, trackID string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(analytics.EventCustom, map[string]any{
		"category": "playback",
		"action":   action,
		"track_id": trackID,
	})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
