package queue

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/blogsphere/api/internal/core/domain"
)

// LogSink writes activity events to the structured log. It is used when no
// MongoDB deployment is configured.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log.With().Str("component", "activity").Logger()}
}

func (s *LogSink) Record(_ context.Context, event domain.ActivityEvent) error {
	s.log.Info().
		Str("kind", string(event.Kind)).
		Str("username", event.Username).
		Int64("identity_id", event.IdentityID).
		Bool("success", event.Success).
		Str("ip", event.IP).
		Time("at", event.At).
		Msg("auth activity")
	return nil
}
