package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"driveops/internal/audit"
	"driveops/internal/compliance/models"
	"driveops/internal/compliance/store"
	"driveops/pkg/requestcontext"

	dErrors "driveops/pkg/domain-errors"
)

// BulkResult reports a bulk review's partial outcome. Success counts rows
// actually updated; Failed is everything requested that was not.
type BulkResult struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

// BulkApprove flips every given document to approved in one pass per
// collection. No replacement cascade runs here: bulk review is a flat status
// flip over documents the operator already vetted individually.
//
// An ID that matches neither collection simply counts as failed. If one
// collection's update errors, the other's count still stands; only when both
// error does the whole operation fail.
func (s *Service) BulkApprove(ctx context.Context, ids []uuid.UUID) (*BulkResult, error) {
	return s.bulkUpdate(ctx, "approve", ids, store.BulkUpdate{
		Status: models.StatusApproved,
	})
}

// BulkReject flips every given document to rejected with one shared reason.
func (s *Service) BulkReject(ctx context.Context, ids []uuid.UUID, reason string) (*BulkResult, error) {
	if reason == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "rejection reason is required")
	}
	return s.bulkUpdate(ctx, "reject", ids, store.BulkUpdate{
		Status:          models.StatusRejected,
		RejectionReason: reason,
	})
}

func (s *Service) bulkUpdate(ctx context.Context, action string, ids []uuid.UUID, update store.BulkUpdate) (*BulkResult, error) {
	adminID := requestcontext.AdminID(ctx)
	if adminID == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "admin identity is required")
	}
	if len(ids) == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "document ids are required")
	}

	now := requestcontext.Now(ctx)
	update.ReviewedBy = adminID
	update.ReviewedAt = now

	var driverCount, vehicleCount int
	var driverErr, vehicleErr error

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		driverCount, driverErr = s.docs.Driver().UpdateStatusBulk(gctx, ids, update)
		return nil
	})
	g.Go(func() error {
		vehicleCount, vehicleErr = s.docs.Vehicle().UpdateStatusBulk(gctx, ids, update)
		return nil
	})
	_ = g.Wait()

	if driverErr != nil && vehicleErr != nil {
		s.logger.ErrorContext(ctx, "bulk review failed in both collections",
			"action", action,
			"driver_error", driverErr,
			"vehicle_error", vehicleErr,
			"request_id", requestcontext.RequestID(ctx),
		)
		s.metrics.AddBulkFailed(action, len(ids))
		return &BulkResult{Success: 0, Failed: len(ids)}, nil
	}
	if driverErr != nil {
		s.logger.WarnContext(ctx, "bulk review failed in driver collection",
			"action", action,
			"error", driverErr,
			"request_id", requestcontext.RequestID(ctx),
		)
		driverCount = 0
	}
	if vehicleErr != nil {
		s.logger.WarnContext(ctx, "bulk review failed in vehicle collection",
			"action", action,
			"error", vehicleErr,
			"request_id", requestcontext.RequestID(ctx),
		)
		vehicleCount = 0
	}

	result := &BulkResult{
		Success: driverCount + vehicleCount,
		Failed:  len(ids) - driverCount - vehicleCount,
	}
	s.metrics.AddBulkFailed(action, result.Failed)
	bulkAction := audit.ActionBulkApprove
	if action == "reject" {
		bulkAction = audit.ActionBulkReject
	}
	s.recordAudit(ctx, audit.Event{
		Action: bulkAction,
		Detail: fmt.Sprintf("%d of %d updated", result.Success, len(ids)),
	})
	s.logger.InfoContext(ctx, "bulk review completed",
		"action", action,
		"requested", len(ids),
		"success", result.Success,
		"failed", result.Failed,
		"admin_id", adminID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return result, nil
}
