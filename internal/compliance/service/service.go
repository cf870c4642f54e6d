// Package service implements document review, the replacement cascade and
// the owner-facing read operations of the compliance module.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"driveops/internal/audit"
	"driveops/internal/compliance/expiry"
	"driveops/internal/compliance/metrics"
	"driveops/internal/compliance/models"
	"driveops/internal/compliance/store"
	"driveops/internal/notify"
	"driveops/internal/objstore"
	"driveops/pkg/platform/sentinel"
	"driveops/pkg/requestcontext"

	dErrors "driveops/pkg/domain-errors"
)

// ProfilePhotoUpdater propagates an approved profile photo to the driver
// record. The drivers store implements it.
type ProfilePhotoUpdater interface {
	UpdateProfilePhoto(ctx context.Context, driverID uuid.UUID, photoURL string) error
}

// Auditor captures admin actions for the audit trail. The audit package's
// Recorder implements it.
type Auditor interface {
	Record(ctx context.Context, event audit.Event)
}

type Service struct {
	docs     *store.Dual
	objects  objstore.Store
	notifier notify.Dispatcher
	drivers  ProfilePhotoUpdater
	auditor  Auditor
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithNotifier sets the owner notification dispatcher.
func WithNotifier(d notify.Dispatcher) Option {
	return func(s *Service) {
		s.notifier = d
	}
}

// WithAuditor sets the admin action trail.
func WithAuditor(a Auditor) Option {
	return func(s *Service) {
		s.auditor = a
	}
}

func New(docs *store.Dual, objects objstore.Store, drivers ProfilePhotoUpdater, opts ...Option) (*Service, error) {
	if docs == nil {
		return nil, errors.New("document store is required")
	}
	if objects == nil {
		return nil, errors.New("object store is required")
	}
	if drivers == nil {
		return nil, errors.New("profile photo updater is required")
	}

	s := &Service{
		docs:     docs,
		objects:  objects,
		drivers:  drivers,
		notifier: notify.Noop{},
		logger:   slog.Default(),
		tracer:   otel.Tracer("driveops/compliance"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// UploadRequest carries a new document file and its metadata.
type UploadRequest struct {
	Type       models.Type
	OwnerID    uuid.UUID
	FileName   string
	MimeType   string
	FileSize   int64
	ExpiryDate *time.Time
	Body       io.Reader
}

// Upload stores the file and creates a pending document record. Unlike
// notifications, a storage failure here is fatal: a record without a file is
// useless to a reviewer.
func (s *Service) Upload(ctx context.Context, req UploadRequest) (*models.Document, error) {
	if !models.KnownType(req.Type) {
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "unknown document type %q", req.Type)
	}
	if req.OwnerID == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "owner id is required")
	}
	if req.FileName == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "file name is required")
	}
	if req.Type.RequiresExpiry() && req.ExpiryDate == nil {
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "%s requires an expiry date", req.Type.Label())
	}
	if req.Body == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "file body is required")
	}

	category := req.Type.CategoryOf()
	id := uuid.New()
	key := fmt.Sprintf("documents/%s/%s/%s%s", category, req.OwnerID, id, path.Ext(req.FileName))

	fileURL, err := s.objects.Put(ctx, key, req.Body, req.MimeType)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "store document file")
	}

	doc := &models.Document{
		ID:         id,
		Type:       req.Type,
		OwnerID:    req.OwnerID,
		OwnerType:  models.OwnerType(category),
		FileURL:    fileURL,
		FileName:   req.FileName,
		FileSize:   req.FileSize,
		MimeType:   req.MimeType,
		Status:     models.StatusPending,
		UploadDate: requestcontext.Now(ctx),
		ExpiryDate: req.ExpiryDate,
		IsRequired: req.Type.Required(),
	}
	if err := s.docs.ForCategory(category).Create(ctx, doc); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "create document record")
	}
	s.recordAudit(ctx, audit.Event{
		Action:     audit.ActionUpload,
		DocumentID: doc.ID,
		DriverID:   doc.DriverID,
		Detail:     string(doc.Type),
	})
	// Re-read so the response carries the joined owner fields.
	return s.Get(ctx, doc.ID)
}

// recordAudit stamps the acting admin and request clock onto the event. No
// auditor configured means no trail.
func (s *Service) recordAudit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	event.AdminID = requestcontext.AdminID(ctx)
	event.Timestamp = requestcontext.Now(ctx)
	s.auditor.Record(ctx, event)
}

// List returns visible documents across both collections, with statuses
// reclassified against the request clock.
func (s *Service) List(ctx context.Context, filter store.ListFilter) ([]models.Document, error) {
	docs, err := s.docs.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list documents")
	}
	return expiry.ClassifyAll(docs, requestcontext.Now(ctx)), nil
}

// Counts tallies visible documents per status. The tally runs over
// reclassified statuses so an expired document counts as expired even when
// the stored row still says approved.
func (s *Service) Counts(ctx context.Context) (map[models.Status]int, error) {
	docs, err := s.List(ctx, store.ListFilter{})
	if err != nil {
		return nil, err
	}

	counts := make(map[models.Status]int, len(models.VisibleStatuses))
	for _, status := range models.VisibleStatuses {
		counts[status] = 0
	}
	for _, doc := range docs {
		if doc.Status.Visible() {
			counts[doc.Status]++
		}
	}
	return counts, nil
}

// Get returns one document by ID, reclassified against the request clock.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	doc, err := s.docs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "document not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "get document")
	}
	classified := expiry.ClassifyDocument(*doc, requestcontext.Now(ctx))
	return &classified, nil
}

// DocumentsForDriver returns every visible document attributable to a
// driver, across their own collection and their vehicles'.
func (s *Service) DocumentsForDriver(ctx context.Context, driverID uuid.UUID) ([]models.Document, error) {
	docs, err := s.docs.ListForDriver(ctx, driverID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list driver documents")
	}
	return docs, nil
}
