package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"driveops/internal/admin/device"
	"driveops/pkg/requestcontext"
)

// Recorder accepts events from the request path and hands them to the
// worker through a bounded inbox. When the inbox is full the event is
// dropped with a warning; the trail is an operational aid, not a ledger
// the review path may stall on.
type Recorder struct {
	inbox   chan Event
	devices *device.Service
	logger  *slog.Logger
}

// NewRecorder creates a Recorder with the given inbox capacity. The device
// service enriches events with the acting admin's browser identity; pass a
// disabled service to record events without fingerprints.
func NewRecorder(capacity int, devices *device.Service, logger *slog.Logger) *Recorder {
	if capacity <= 0 {
		capacity = 256
	}
	if devices == nil {
		devices = device.NewService(false)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		inbox:   make(chan Event, capacity),
		devices: devices,
		logger:  logger,
	}
}

// Record enqueues an event, stamping ID, timestamp and device identity
// when absent.
func (r *Recorder) Record(ctx context.Context, event Event) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if ua := requestcontext.UserAgent(ctx); ua != "" && event.Device == "" {
		event.Device = device.ParseUserAgent(ua)
		event.DeviceFingerprint = r.devices.ComputeFingerprint(ua)
	}
	select {
	case r.inbox <- event:
	default:
		r.logger.WarnContext(ctx, "audit inbox full, dropping event",
			"action", event.Action,
			"admin_id", event.AdminID,
		)
	}
}

// Inbox exposes the event channel for the worker.
func (r *Recorder) Inbox() <-chan Event {
	return r.inbox
}

// Worker drains the recorder's inbox into a store, flagging any change in
// an admin's device fingerprint between events.
type Worker struct {
	store    Store
	inbox    <-chan Event
	devices  *device.Service
	logger   *slog.Logger
	lastSeen map[uuid.UUID]string
}

func NewWorker(store Store, inbox <-chan Event, devices *device.Service, logger *slog.Logger) *Worker {
	if devices == nil {
		devices = device.NewService(false)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		store:    store,
		inbox:    inbox,
		devices:  devices,
		logger:   logger,
		lastSeen: make(map[uuid.UUID]string),
	}
}

// Run persists events until the context is cancelled. A failed append is
// logged and the worker keeps going.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			w.checkDevice(ctx, event)
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "audit append failed",
					"action", event.Action,
					"error", err,
				)
			}
		}
	}
}

func (w *Worker) checkDevice(ctx context.Context, event Event) {
	if event.DeviceFingerprint == "" || event.AdminID == uuid.Nil {
		return
	}
	if stored, ok := w.lastSeen[event.AdminID]; ok {
		if _, drift := w.devices.CompareFingerprints(stored, event.DeviceFingerprint); drift {
			w.logger.WarnContext(ctx, "admin device changed",
				"admin_id", event.AdminID,
				"device", event.Device,
			)
		}
	}
	w.lastSeen[event.AdminID] = event.DeviceFingerprint
}
