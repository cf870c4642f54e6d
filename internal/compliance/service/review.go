package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"driveops/internal/audit"
	"driveops/internal/compliance/models"
	"driveops/internal/notify"
	"driveops/pkg/platform/sentinel"
	"driveops/pkg/requestcontext"

	dErrors "driveops/pkg/domain-errors"
)

// Approve marks a document approved and displaces any prior approvals of the
// same type for the same owner. Prior profile photos are deleted outright,
// file included; every other displaced document is kept with status replaced
// so its history stays auditable.
//
// The status transitions are guarded in the store: approving a document that
// was concurrently replaced fails with a conflict, and a document already
// replaced can never return to approved. The later approval wins.
func (s *Service) Approve(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	ctx, span := s.tracer.Start(ctx, "compliance.Approve")
	defer span.End()
	start := time.Now()

	adminID := requestcontext.AdminID(ctx)
	if adminID == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "admin identity is required")
	}
	if id == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "document id is required")
	}

	doc, err := s.docs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "document not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "get document")
	}
	span.SetAttributes(
		attribute.String("document.type", string(doc.Type)),
		attribute.String("document.category", string(doc.Category)),
	)

	collection := s.docs.ForCategory(doc.Category)
	now := requestcontext.Now(ctx)

	prior, err := collection.FindApproved(ctx, doc.OwnerID, doc.Type, doc.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "find prior approvals")
	}

	var replaces *uuid.UUID
	for i := range prior {
		old := prior[i]
		if doc.Type == models.TypeProfilePhoto {
			// Old photos have no review value once superseded. Remove
			// the stored file first so a failed record delete leaves a
			// dangling row, not an orphaned object.
			if key, ok := s.objects.KeyForURL(old.FileURL); ok {
				if err := s.objects.Delete(ctx, key); err != nil {
					s.logger.WarnContext(ctx, "stale profile photo object not removed",
						"document_id", old.ID,
						"error", err,
						"request_id", requestcontext.RequestID(ctx),
					)
				}
			}
			if err := collection.Delete(ctx, old.ID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
				return nil, dErrors.Wrap(err, dErrors.CodeInternal, "delete stale profile photo")
			}
		} else {
			err := collection.MarkReplaced(ctx, old.ID, now)
			if err != nil && !errors.Is(err, sentinel.ErrConflict) && !errors.Is(err, sentinel.ErrNotFound) {
				return nil, dErrors.Wrap(err, dErrors.CodeInternal, "replace prior approval")
			}
		}
		if replaces == nil {
			replacedID := old.ID
			replaces = &replacedID
		}
	}

	if err := collection.MarkApproved(ctx, doc.ID, adminID, replaces, now); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "document not found")
		case errors.Is(err, sentinel.ErrConflict):
			return nil, dErrors.New(dErrors.CodeConflict, "document was replaced by a newer approval")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "approve document")
		}
	}

	if doc.Type == models.TypeProfilePhoto {
		if err := s.drivers.UpdateProfilePhoto(ctx, doc.DriverID, doc.FileURL); err != nil {
			s.logger.WarnContext(ctx, "profile photo not propagated to driver record",
				"driver_id", doc.DriverID,
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
	}

	s.metrics.IncReview("approve", string(doc.Category))
	s.metrics.AddReplacements(len(prior))
	s.metrics.ObserveReviewLatency("approve", time.Since(start))
	s.logger.InfoContext(ctx, "document approved",
		"document_id", doc.ID,
		"document_type", doc.Type,
		"admin_id", adminID,
		"replaced", len(prior),
		"request_id", requestcontext.RequestID(ctx),
	)

	s.recordAudit(ctx, audit.Event{
		Action:     audit.ActionApprove,
		DocumentID: doc.ID,
		DriverID:   doc.DriverID,
		Detail:     string(doc.Type),
	})
	s.notifyOwner(ctx, doc.DriverID, notify.Message{
		DriverID: doc.DriverID,
		Title:    "Document approved",
		Body:     fmt.Sprintf("Your %s has been approved.", doc.Type.Label()),
		SentAt:   now,
	})

	return s.Get(ctx, doc.ID)
}

// Reject marks a document rejected with a reviewer-supplied reason.
func (s *Service) Reject(ctx context.Context, id uuid.UUID, reason string) (*models.Document, error) {
	ctx, span := s.tracer.Start(ctx, "compliance.Reject")
	defer span.End()
	start := time.Now()

	adminID := requestcontext.AdminID(ctx)
	if adminID == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "admin identity is required")
	}
	if id == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "document id is required")
	}
	if reason == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "rejection reason is required")
	}

	doc, err := s.docs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "document not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "get document")
	}

	now := requestcontext.Now(ctx)
	if err := s.docs.ForCategory(doc.Category).MarkRejected(ctx, doc.ID, adminID, reason, now); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "document not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "reject document")
	}

	s.metrics.IncReview("reject", string(doc.Category))
	s.metrics.ObserveReviewLatency("reject", time.Since(start))
	s.logger.InfoContext(ctx, "document rejected",
		"document_id", doc.ID,
		"document_type", doc.Type,
		"admin_id", adminID,
		"request_id", requestcontext.RequestID(ctx),
	)

	s.recordAudit(ctx, audit.Event{
		Action:     audit.ActionReject,
		DocumentID: doc.ID,
		DriverID:   doc.DriverID,
		Detail:     reason,
	})
	s.notifyOwner(ctx, doc.DriverID, notify.Message{
		DriverID: doc.DriverID,
		Title:    "Document rejected",
		Body:     fmt.Sprintf("Your %s was rejected: %s", doc.Type.Label(), reason),
		SentAt:   now,
	})

	return s.Get(ctx, doc.ID)
}

// notifyOwner sends a review-outcome notification. Delivery failures are
// logged and swallowed; the review already happened.
func (s *Service) notifyOwner(ctx context.Context, driverID uuid.UUID, msg notify.Message) {
	if driverID == uuid.Nil {
		return
	}
	if err := s.notifier.Dispatch(ctx, msg); err != nil {
		s.logger.WarnContext(ctx, "owner notification failed",
			"driver_id", driverID,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}
