// Package player provides the playback store: transport state with
// integrated queue management.
package player

// Phase represents the player phase.
type Phase int

const (
	PhaseIdle    Phase = iota // No current track
	PhasePlaying              // Track is playing
	PhasePaused               // Track is paused
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// RepeatMode represents the queue repeat mode.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota // Stop when the queue is exhausted
	RepeatAll                   // Wrap to the first track when exhausted
	RepeatOne                   // Restart the current track
)

// String returns the string representation of the repeat mode.
func (m RepeatMode) String() string {
	switch m {
	case RepeatOff:
		return "off"
	case RepeatAll:
		return "all"
	case RepeatOne:
		return "one"
	default:
		return "unknown"
	}
}

// Next cycles off -> all -> one -> off.
func (m RepeatMode) Next() RepeatMode {
	switch m {
	case RepeatOff:
		return RepeatAll
	case RepeatAll:
		return RepeatOne
	default:
		return RepeatOff
	}
}
