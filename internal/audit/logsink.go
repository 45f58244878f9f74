package audit

import (
	"context"
	"log/slog"
)

// LogSink writes events to the structured log. The development fallback when
// no Kafka brokers are configured.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink wraps a logger.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

// Append logs the event.
func (s *LogSink) Append(ctx context.Context, event Event) error {
	s.logger.InfoContext(ctx, "transition event",
		"kind", event.Kind,
		"entity_id", event.EntityID,
		"actor", event.Actor,
		"from_status", event.FromStatus,
		"to_status", event.ToStatus,
		"request_id", event.RequestID,
	)
	return nil
}
