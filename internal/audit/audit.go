// Package audit keeps an append-only trail of admin actions on the review
// surface. Events are captured in-band and persisted by a background worker
// so the review path never blocks on the trail.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Action identifies what an admin did.
type Action string

const (
	ActionApprove     Action = "document.approve"
	ActionReject      Action = "document.reject"
	ActionBulkApprove Action = "document.bulk_approve"
	ActionBulkReject  Action = "document.bulk_reject"
	ActionUpload      Action = "document.upload"
	ActionActivate    Action = "driver.activate"
)

// Event is one admin action. Keep it transport-agnostic so stores and sinks
// can fan out.
type Event struct {
	ID         uuid.UUID
	Timestamp  time.Time
	AdminID    uuid.UUID
	Action     Action
	DocumentID uuid.UUID
	DriverID   uuid.UUID
	Detail     string

	// Device and DeviceFingerprint identify the admin's browser, stamped
	// by the recorder from the request's user agent.
	Device            string
	DeviceFingerprint string
}

// Store is an append-only sink for events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByAdmin(ctx context.Context, adminID uuid.UUID) ([]Event, error)
}
