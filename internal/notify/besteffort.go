package notify

import (
	"context"
	"errors"
	"log/slog"

	"driveops/pkg/platform/sentinel"
)

// BestEffort wraps a Dispatcher and swallows its failures. The review
// operations that trigger notifications must not fail because delivery did;
// failures are logged and counted, and transient ones are dead-lettered
// for replay once the transport recovers.
type BestEffort struct {
	inner      Dispatcher
	deadLetter DeadLetter
	logger     *slog.Logger
	metrics    *Metrics
}

// Option configures the BestEffort wrapper.
type Option func(*BestEffort)

// WithLogger sets a logger for delivery failures.
func WithLogger(logger *slog.Logger) Option {
	return func(b *BestEffort) {
		b.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(b *BestEffort) {
		b.metrics = m
	}
}

// WithDeadLetter sets the sink for undeliverable messages.
func WithDeadLetter(dl DeadLetter) Option {
	return func(b *BestEffort) {
		b.deadLetter = dl
	}
}

func NewBestEffort(inner Dispatcher, opts ...Option) *BestEffort {
	b := &BestEffort{inner: inner}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Dispatch always returns nil.
func (b *BestEffort) Dispatch(ctx context.Context, msg Message) error {
	err := b.inner.Dispatch(ctx, msg)
	if err == nil {
		b.metrics.IncDispatched()
		return nil
	}

	b.metrics.IncFailed()
	if b.logger != nil {
		b.logger.WarnContext(ctx, "notification delivery failed",
			"driver_id", msg.DriverID,
			"title", msg.Title,
			"error", err,
		)
	}

	// Only transient failures go to the dead letter for replay.
	if b.deadLetter != nil && errors.Is(err, sentinel.ErrUnavailable) {
		if dlErr := b.deadLetter.Store(ctx, msg); dlErr != nil {
			if b.logger != nil {
				b.logger.ErrorContext(ctx, "dead letter store failed",
					"driver_id", msg.DriverID,
					"error", dlErr,
				)
			}
		} else {
			b.metrics.IncDeadLetter()
		}
	}
	return nil
}
