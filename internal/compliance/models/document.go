package models

import (
	"time"

	"github.com/google/uuid"
)

// Category determines which record collection owns a document and which
// required-document policy applies to it.
type Category string

const (
	CategoryDriver   Category = "driver"
	CategoryVehicle  Category = "vehicle"
	CategoryOperator Category = "operator"
)

// OwnerType identifies the entity a document is attached to.
type OwnerType string

const (
	OwnerTypeDriver  OwnerType = "driver"
	OwnerTypeVehicle OwnerType = "vehicle"
)

// Status is a document's position in the approval lifecycle.
//
// StatusExpired and StatusExpiringSoon are derived display states computed
// from the expiry date relative to "now"; the stored status is not kept in
// sync automatically. StatusReplaced is terminal and hidden: it exists only
// as an audit trail of what preceded the currently approved document and is
// excluded from all listing, counting, and eligibility queries.
type Status string

const (
	StatusPending      Status = "pending"
	StatusApproved     Status = "approved"
	StatusRejected     Status = "rejected"
	StatusExpired      Status = "expired"
	StatusExpiringSoon Status = "expiring_soon"
	StatusReplaced     Status = "replaced"
)

// VisibleStatuses are the externally reported statuses; counts and listings
// never include StatusReplaced.
var VisibleStatuses = []Status{
	StatusPending,
	StatusApproved,
	StatusRejected,
	StatusExpired,
	StatusExpiringSoon,
}

// Visible reports whether a status participates in listings and counts.
func (s Status) Visible() bool {
	return s != StatusReplaced
}

// Document is the central entity of the compliance engine. Driver-owned and
// vehicle-owned documents share this schema but live in separate collections;
// Category records which one.
type Document struct {
	ID       uuid.UUID
	Type     Type
	Category Category

	// OwnerID is the driver or vehicle the document belongs to; OwnerType
	// says which. DriverID is always the operationally responsible driver:
	// equal to OwnerID for driver-owned documents, resolved through the
	// vehicle for vehicle-owned ones.
	OwnerID   uuid.UUID
	OwnerType OwnerType
	DriverID  uuid.UUID

	// OwnerName is a joined display field populated on reads, never persisted.
	OwnerName string

	FileURL  string
	FileName string
	FileSize int64
	MimeType string

	Status     Status
	UploadDate time.Time
	ExpiryDate *time.Time

	// ReviewedBy/ReviewedAt stamp the admin decision, approval or rejection.
	ReviewedBy      *uuid.UUID
	ReviewedAt      *time.Time
	RejectionReason string

	// ReplacesDocumentID back-references the document this one superseded;
	// set only at approval time.
	ReplacesDocumentID *uuid.UUID

	IsRequired bool
}

// HasExpiry reports whether the document carries an expiry date.
func (d Document) HasExpiry() bool {
	return d.ExpiryDate != nil
}
