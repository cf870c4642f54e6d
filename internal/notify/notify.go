// Package notify delivers review-outcome notifications to document owners.
//
// Delivery is best effort: a failed notification must never fail the review
// that triggered it. Failed messages go to a dead letter sink for later
// replay instead.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Message is a notification addressed to a driver.
type Message struct {
	DriverID uuid.UUID `json:"driver_id"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	SentAt   time.Time `json:"sent_at"`
}

// Dispatcher sends a notification to its transport.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg Message) error
}

// DeadLetter stores messages that could not be dispatched.
type DeadLetter interface {
	Store(ctx context.Context, msg Message) error
}

// Noop discards every message. Used when notifications are disabled.
type Noop struct{}

func (Noop) Dispatch(context.Context, Message) error { return nil }
