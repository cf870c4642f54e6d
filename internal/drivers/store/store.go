// Package store persists drivers and their vehicles.
package store

import (
	"context"

	"github.com/google/uuid"

	"driveops/internal/drivers/models"
)

// Store is the driver registry. It also serves as the owner directory for
// the document collections.
type Store interface {
	CreateDriver(ctx context.Context, driver *models.Driver) error
	GetDriver(ctx context.Context, id uuid.UUID) (*models.Driver, error)
	ListDrivers(ctx context.Context) ([]models.Driver, error)
	UpdateDriverStatus(ctx context.Context, id uuid.UUID, status models.Status) error
	UpdateProfilePhoto(ctx context.Context, id uuid.UUID, photoURL string) error

	CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error
	GetVehicle(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
	ListVehiclesForDriver(ctx context.Context, driverID uuid.UUID) ([]models.Vehicle, error)

	// DriverName and VehicleOwner implement the document collections'
	// owner directory.
	DriverName(ctx context.Context, driverID uuid.UUID) (string, error)
	VehicleOwner(ctx context.Context, vehicleID uuid.UUID) (uuid.UUID, error)
}
