// Package store persists compliance documents. Driver-owned and
// vehicle-owned documents share a schema but live in separate collections;
// each collection gets its own CategoryStore and the Dual adapter hides the
// split from the approval engine and the eligibility evaluator.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"driveops/internal/compliance/models"
)

// ListFilter narrows a document listing. Zero values mean "no filter".
type ListFilter struct {
	// Status matches the stored status column. Replaced documents are
	// excluded from listings regardless of this filter.
	Status models.Status
	// DriverID restricts to documents operationally owned by a driver;
	// vehicle-owned documents match through their vehicle's driver.
	DriverID uuid.UUID
	// Search is a case-insensitive substring match on the owner display
	// name or the file name.
	Search string
}

// BulkUpdate is the flat status flip applied by bulk operations. It carries
// no replacement cascade: bulk approval deliberately skips retiring prior
// approved documents.
type BulkUpdate struct {
	Status          models.Status
	ReviewedBy      uuid.UUID
	ReviewedAt      time.Time
	RejectionReason string
}

// CategoryStore is one record collection's persistence surface.
//
// Guarded mutations (MarkApproved, MarkReplaced) are conditional on the
// document's current status so that two racing approvals of the same
// owner+type cannot both retire or both win; losers observe
// sentinel.ErrConflict.
type CategoryStore interface {
	Category() models.Category

	Create(ctx context.Context, doc *models.Document) error
	Get(ctx context.Context, id uuid.UUID) (*models.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns visible (non-replaced) documents matching the filter,
	// with owner display fields joined.
	List(ctx context.Context, filter ListFilter) ([]models.Document, error)
	// ListForDriver returns all visible documents a driver is responsible
	// for in this collection.
	ListForDriver(ctx context.Context, driverID uuid.UUID) ([]models.Document, error)

	// FindApproved returns the approved documents for an owner and type,
	// excluding excludeID. Under the one-approved-per-type invariant this
	// is at most one document; more indicates historical drift and all are
	// returned so the cascade can repair it.
	FindApproved(ctx context.Context, ownerID uuid.UUID, docType models.Type, excludeID uuid.UUID) ([]models.Document, error)

	// MarkApproved flips a document to approved, stamping the reviewer and
	// the superseded document reference. Fails with sentinel.ErrConflict if
	// the document has already been replaced.
	MarkApproved(ctx context.Context, id, adminID uuid.UUID, replaces *uuid.UUID, at time.Time) error
	// MarkReplaced retires a previously approved document. Fails with
	// sentinel.ErrConflict unless the document is currently approved.
	MarkReplaced(ctx context.Context, id uuid.UUID, at time.Time) error
	// MarkRejected flips a document to rejected with the given reason.
	MarkRejected(ctx context.Context, id, adminID uuid.UUID, reason string, at time.Time) error

	// UpdateStatusBulk applies a flat status update to every existing
	// document in ids and returns the number of rows actually updated.
	UpdateStatusBulk(ctx context.Context, ids []uuid.UUID, update BulkUpdate) (int, error)
}

// OwnerDirectory resolves owner display data and vehicle ownership for
// collection reads. The drivers domain implements it.
type OwnerDirectory interface {
	DriverName(ctx context.Context, driverID uuid.UUID) (string, error)
	// VehicleOwner resolves the driver responsible for a vehicle.
	VehicleOwner(ctx context.Context, vehicleID uuid.UUID) (uuid.UUID, error)
}
