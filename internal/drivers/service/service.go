// Package service implements driver account operations, including the
// activation gate driven by required-document compliance.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"driveops/internal/audit"
	"driveops/internal/compliance/eligibility"
	compmodels "driveops/internal/compliance/models"
	"driveops/internal/drivers/models"
	"driveops/internal/drivers/store"
	"driveops/pkg/email"
	"driveops/pkg/platform/sentinel"
	"driveops/pkg/requestcontext"

	dErrors "driveops/pkg/domain-errors"
)

// DocumentSource supplies a driver's documents for eligibility checks. The
// compliance service implements it.
type DocumentSource interface {
	DocumentsForDriver(ctx context.Context, driverID uuid.UUID) ([]compmodels.Document, error)
}

// Auditor captures admin actions for the audit trail.
type Auditor interface {
	Record(ctx context.Context, event audit.Event)
}

type Service struct {
	store     store.Store
	documents DocumentSource
	auditor   Auditor
	logger    *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithAuditor sets the admin action trail.
func WithAuditor(a Auditor) Option {
	return func(s *Service) {
		s.auditor = a
	}
}

func New(st store.Store, documents DocumentSource, opts ...Option) (*Service, error) {
	if st == nil {
		return nil, errors.New("driver store is required")
	}
	if documents == nil {
		return nil, errors.New("document source is required")
	}

	s := &Service{
		store:     st,
		documents: documents,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) CreateDriver(ctx context.Context, driver *models.Driver) error {
	if driver.Email == "" {
		return dErrors.New(dErrors.CodeBadRequest, "driver email is required")
	}
	// Registrations coming from partner imports often carry only an email
	// address; derive a provisional display name from it.
	if driver.FirstName == "" && driver.LastName == "" {
		driver.FirstName, driver.LastName = email.DeriveNameFromEmail(driver.Email)
	}
	if driver.FirstName == "" || driver.LastName == "" {
		return dErrors.New(dErrors.CodeBadRequest, "driver name is required")
	}
	if err := s.store.CreateDriver(ctx, driver); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "create driver")
	}
	return nil
}

func (s *Service) GetDriver(ctx context.Context, id uuid.UUID) (*models.Driver, error) {
	driver, err := s.store.GetDriver(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "driver not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "get driver")
	}
	return driver, nil
}

func (s *Service) ListDrivers(ctx context.Context) ([]models.Driver, error) {
	drivers, err := s.store.ListDrivers(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list drivers")
	}
	return drivers, nil
}

func (s *Service) RegisterVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	if vehicle.DriverID == uuid.Nil {
		return dErrors.New(dErrors.CodeBadRequest, "vehicle driver is required")
	}
	if vehicle.LicencePlate == "" {
		return dErrors.New(dErrors.CodeBadRequest, "licence plate is required")
	}
	if err := s.store.CreateVehicle(ctx, vehicle); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "driver not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "register vehicle")
	}
	return nil
}

// Eligibility evaluates whether a driver's required documents permit
// activation. The evaluation runs against the request clock so a stored
// approved status cannot mask a document that has since expired.
func (s *Service) Eligibility(ctx context.Context, driverID uuid.UUID) (*eligibility.Result, error) {
	if driverID == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "driver id is required")
	}
	if _, err := s.GetDriver(ctx, driverID); err != nil {
		return nil, err
	}

	docs, err := s.documents.DocumentsForDriver(ctx, driverID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load driver documents")
	}

	result := eligibility.Evaluate(docs, requestcontext.Now(ctx))
	return &result, nil
}

// Activate flips a driver to active if their documents allow it. A failed
// gate returns the evaluation so the caller can show what is blocking.
func (s *Service) Activate(ctx context.Context, driverID uuid.UUID) (*eligibility.Result, error) {
	result, err := s.Eligibility(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if !result.CanActivate {
		return result, dErrors.New(dErrors.CodeConflict, result.Reason)
	}

	if err := s.store.UpdateDriverStatus(ctx, driverID, models.StatusActive); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "driver not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "activate driver")
	}

	s.logger.InfoContext(ctx, "driver activated",
		"driver_id", driverID,
		"request_id", requestcontext.RequestID(ctx),
	)
	if s.auditor != nil {
		s.auditor.Record(ctx, audit.Event{
			Timestamp: requestcontext.Now(ctx),
			AdminID:   requestcontext.AdminID(ctx),
			Action:    audit.ActionActivate,
			DriverID:  driverID,
		})
	}
	return result, nil
}
