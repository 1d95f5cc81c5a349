package events

import (
	"context"
	"fmt"
	"log/slog"

	"accountd/pkg/platform/circuit"
	"accountd/pkg/platform/sentinel"
)

// BreakerPublisher guards a remote publisher with a circuit breaker. While the
// circuit is open events go to fallback, or are dropped with
// sentinel.ErrUnavailable when fallback is nil.
type BreakerPublisher struct {
	primary  Publisher
	fallback Publisher
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

func NewBreakerPublisher(primary, fallback Publisher, breaker *circuit.Breaker, logger *slog.Logger) *BreakerPublisher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &BreakerPublisher{primary: primary, fallback: fallback, breaker: breaker, logger: logger}
}

func (p *BreakerPublisher) Publish(ctx context.Context, event Event) error {
	if p.breaker.Allow() {
		err := p.primary.Publish(ctx, event)
		if err == nil {
			if _, change := p.breaker.RecordSuccess(); change.Closed {
				p.logger.InfoContext(ctx, "event publisher circuit closed", "breaker", p.breaker.Name())
			}
			return nil
		}
		if _, change := p.breaker.RecordFailure(); change.Opened {
			p.logger.WarnContext(ctx, "event publisher circuit opened", "breaker", p.breaker.Name(), "error", err)
		}
		if p.fallback == nil {
			return err
		}
	}
	if p.fallback == nil {
		return fmt.Errorf("%w: %s circuit open", sentinel.ErrUnavailable, p.breaker.Name())
	}
	return p.fallback.Publish(ctx, event)
}
