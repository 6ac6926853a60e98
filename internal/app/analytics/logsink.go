package analytics

import (
	zlog "github.com/rs/zerolog/log"
)

// LogSink writes every event to the structured log at debug level.
type LogSink struct{}

// NewLogSink creates a new LogSink.
func NewLogSink() *LogSink {
	return &LogSink{}
}

// Deliver implements Sink.
func (s *LogSink) Deliver(event Event) error {
	zlog.Debug().
		Uint64("seq", event.SequenceNo).
		Str("event", event.Name).
		Fields(event.Fields).
		Msg("analytics event")
	return nil
}
