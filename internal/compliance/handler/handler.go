// Package handler exposes the document review endpoints to the operations
// dashboard.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"driveops/internal/compliance/models"
	"driveops/internal/compliance/service"
	"driveops/internal/compliance/store"
	"driveops/internal/platform/middleware"
	"driveops/internal/transport/http/shared"
	"driveops/pkg/requestcontext"

	dErrors "driveops/pkg/domain-errors"
)

// Service defines the document operations the handler needs.
type Service interface {
	Approve(ctx context.Context, id uuid.UUID) (*models.Document, error)
	Reject(ctx context.Context, id uuid.UUID, reason string) (*models.Document, error)
	BulkApprove(ctx context.Context, ids []uuid.UUID) (*service.BulkResult, error)
	BulkReject(ctx context.Context, ids []uuid.UUID, reason string) (*service.BulkResult, error)
	List(ctx context.Context, filter store.ListFilter) ([]models.Document, error)
	Counts(ctx context.Context) (map[models.Status]int, error)
	Upload(ctx context.Context, req service.UploadRequest) (*models.Document, error)
}

// Handler handles document review endpoints.
type Handler struct {
	documents    Service
	logger       *slog.Logger
	jwtValidator middleware.JWTValidator
}

// New creates a document review Handler.
func New(documents Service, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		documents:    documents,
		logger:       logger,
		jwtValidator: jwtValidator,
	}
}

// Register registers the document routes with the chi router. A route group
// keeps the middleware chain scoped to these endpoints without claiming a
// mount point other handlers share.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Recovery(h.logger))
		r.Use(middleware.RequestID)
		r.Use(middleware.RequestTime)
		r.Use(middleware.Logger(h.logger))
		r.Use(middleware.Timeout(30 * time.Second))
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.ClientMetadata)
		r.Use(middleware.RequireAdmin(h.jwtValidator, h.logger))

		r.Get("/admin/documents", h.handleList)
		r.Get("/admin/documents/counts", h.handleCounts)
		r.Post("/admin/documents", h.handleUpload)
		r.Post("/admin/documents/bulk-approve", h.handleBulkApprove)
		r.Post("/admin/documents/bulk-reject", h.handleBulkReject)
		r.Post("/admin/documents/{id}/approve", h.handleApprove)
		r.Post("/admin/documents/{id}/reject", h.handleReject)
	})
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := documentID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	doc, err := h.documents.Approve(ctx, id)
	if err != nil {
		h.logFailure(ctx, "approve document failed", id, err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toDocumentResponse(*doc))
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := documentID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req rejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	doc, err := h.documents.Reject(ctx, id, req.Reason)
	if err != nil {
		h.logFailure(ctx, "reject document failed", id, err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toDocumentResponse(*doc))
}

func (h *Handler) handleBulkApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	ids, err := req.ids()
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	result, err := h.documents.BulkApprove(ctx, ids)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleBulkReject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	ids, err := req.ids()
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	result, err := h.documents.BulkReject(ctx, ids, req.Reason)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := store.ListFilter{
		Status: models.Status(r.URL.Query().Get("status")),
		Search: r.URL.Query().Get("search"),
	}
	if raw := r.URL.Query().Get("driver_id"); raw != "" {
		driverID, err := uuid.Parse(raw)
		if err != nil {
			shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid driver id"))
			return
		}
		filter.DriverID = driverID
	}
	if filter.Status != "" && !filter.Status.Visible() {
		shared.WriteError(w, dErrors.Newf(dErrors.CodeBadRequest, "invalid status %q", filter.Status))
		return
	}

	docs, err := h.documents.List(ctx, filter)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toListResponse(docs))
}

func (h *Handler) handleCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.documents.Counts(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toCountsResponse(counts))
}

// handleUpload accepts a multipart form with the file under "file" and
// metadata fields alongside it.
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid multipart form"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "file is required"))
		return
	}
	defer file.Close()

	req, err := uploadRequestFromForm(r, file, header)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	doc, err := h.documents.Upload(ctx, req)
	if err != nil {
		h.logFailure(ctx, "upload document failed", uuid.Nil, err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, toDocumentResponse(*doc))
}

func (h *Handler) logFailure(ctx context.Context, msg string, id uuid.UUID, err error) {
	if dErrors.Is(err, dErrors.CodeBadRequest) || dErrors.Is(err, dErrors.CodeNotFound) {
		h.logger.WarnContext(ctx, msg,
			"document_id", id,
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
		return
	}
	h.logger.ErrorContext(ctx, msg,
		"document_id", id,
		"error", err.Error(),
		"request_id", requestcontext.RequestID(ctx),
	)
}

func documentID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, "invalid document id")
	}
	return id, nil
}
