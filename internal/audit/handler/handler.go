// Package handler exposes the audit trail to the ops dashboard. The trail
// is read-only over HTTP; events are written by the domain services.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"driveops/internal/audit"
	"driveops/internal/platform/middleware"
	"driveops/internal/transport/http/shared"
	"driveops/pkg/requestcontext"

	dErrors "driveops/pkg/domain-errors"
)

// Handler serves audit trail queries.
type Handler struct {
	trail        audit.Store
	logger       *slog.Logger
	jwtValidator middleware.JWTValidator
}

// New creates an audit trail Handler.
func New(trail audit.Store, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		trail:        trail,
		logger:       logger,
		jwtValidator: jwtValidator,
	}
}

// Register registers the audit routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Recovery(h.logger))
		r.Use(middleware.RequestID)
		r.Use(middleware.Logger(h.logger))
		r.Use(middleware.Timeout(30 * time.Second))
		r.Use(middleware.ClientMetadata)
		r.Use(middleware.RequireAdmin(h.jwtValidator, h.logger))

		r.Get("/admin/audit-events", h.handleList)
	})
}

// handleList returns one admin's trail, newest first. Without an admin_id
// query parameter it returns the caller's own.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	adminID := requestcontext.AdminID(ctx)
	if raw := r.URL.Query().Get("admin_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid admin_id"))
			return
		}
		adminID = parsed
	}

	events, err := h.trail.ListByAdmin(ctx, adminID)
	if err != nil {
		h.logger.ErrorContext(ctx, "list audit events failed",
			"admin_id", adminID,
			"error", err,
		)
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "list audit events"))
		return
	}

	out := make([]eventResponse, 0, len(events))
	for _, event := range events {
		out = append(out, toEventResponse(event))
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"events": out,
		"total":  len(out),
	})
}

type eventResponse struct {
	ID         uuid.UUID  `json:"id"`
	Timestamp  time.Time  `json:"timestamp"`
	AdminID    uuid.UUID  `json:"admin_id"`
	Action     string     `json:"action"`
	DocumentID *uuid.UUID `json:"document_id,omitempty"`
	DriverID   *uuid.UUID `json:"driver_id,omitempty"`
	Detail     string     `json:"detail,omitempty"`
	Device     string     `json:"device,omitempty"`
}

func toEventResponse(event audit.Event) eventResponse {
	resp := eventResponse{
		ID:        event.ID,
		Timestamp: event.Timestamp,
		AdminID:   event.AdminID,
		Action:    string(event.Action),
		Detail:    event.Detail,
		Device:    event.Device,
	}
	if event.DocumentID != uuid.Nil {
		id := event.DocumentID
		resp.DocumentID = &id
	}
	if event.DriverID != uuid.Nil {
		id := event.DriverID
		resp.DriverID = &id
	}
	return resp
}
