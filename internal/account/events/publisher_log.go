package events

import (
	"context"
	"log/slog"
)

// LogPublisher writes events to a structured logger.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event Event) error {
	p.logger.InfoContext(ctx, string(event.Type),
		"account_id", event.AccountID.String(),
		"status", event.Status.String(),
		"has_address", event.HasAddress,
		"request_id", event.RequestID,
	)
	return nil
}
