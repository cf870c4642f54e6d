// Package handler exposes driver management and the activation gate.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"driveops/internal/compliance/eligibility"
	"driveops/internal/drivers/models"
	"driveops/internal/platform/middleware"
	"driveops/internal/transport/http/shared"
	"driveops/pkg/requestcontext"

	dErrors "driveops/pkg/domain-errors"
)

// Service defines the driver operations the handler needs.
type Service interface {
	CreateDriver(ctx context.Context, driver *models.Driver) error
	GetDriver(ctx context.Context, id uuid.UUID) (*models.Driver, error)
	ListDrivers(ctx context.Context) ([]models.Driver, error)
	RegisterVehicle(ctx context.Context, vehicle *models.Vehicle) error
	Eligibility(ctx context.Context, driverID uuid.UUID) (*eligibility.Result, error)
	Activate(ctx context.Context, driverID uuid.UUID) (*eligibility.Result, error)
}

// Handler handles driver endpoints.
type Handler struct {
	drivers      Service
	logger       *slog.Logger
	jwtValidator middleware.JWTValidator
}

// New creates a driver Handler.
func New(drivers Service, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		drivers:      drivers,
		logger:       logger,
		jwtValidator: jwtValidator,
	}
}

// Register registers the driver routes with the chi router. A route group
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

		r.Get("/admin/drivers", h.handleList)
		r.Post("/admin/drivers", h.handleCreate)
		r.Get("/admin/drivers/{id}", h.handleGet)
		r.Post("/admin/drivers/{id}/vehicles", h.handleRegisterVehicle)
		r.Get("/admin/drivers/{id}/eligibility", h.handleEligibility)
		r.Post("/admin/drivers/{id}/activate", h.handleActivate)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	drivers, err := h.drivers.ListDrivers(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"drivers": drivers,
		"total":   len(drivers),
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var driver models.Driver
	if err := json.NewDecoder(r.Body).Decode(&driver); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.drivers.CreateDriver(ctx, &driver); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, driver)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := driverID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	driver, err := h.drivers.GetDriver(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, driver)
}

func (h *Handler) handleRegisterVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := driverID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var vehicle models.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&vehicle); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	vehicle.DriverID = id

	if err := h.drivers.RegisterVehicle(r.Context(), &vehicle); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, vehicle)
}

func (h *Handler) handleEligibility(w http.ResponseWriter, r *http.Request) {
	id, err := driverID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	result, err := h.drivers.Eligibility(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleActivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := driverID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	result, err := h.drivers.Activate(ctx, id)
	if err != nil {
		// A failed activation gate carries the evaluation alongside the
		// conflict so the dashboard can show what is blocking.
		if dErrors.Is(err, dErrors.CodeConflict) && result != nil {
			shared.WriteJSON(w, http.StatusConflict, map[string]any{
				"error":       "activation_blocked",
				"eligibility": result,
			})
			return
		}
		h.logger.WarnContext(ctx, "driver activation failed",
			"driver_id", id,
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"status":      models.StatusActive,
		"eligibility": result,
	})
}

func driverID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, "invalid driver id")
	}
	return id, nil
}
