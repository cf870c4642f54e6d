package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"driveops/internal/compliance/models"
	"driveops/pkg/platform/sentinel"
)

// Dual fans reads out across the driver-owned and vehicle-owned collections
// and merges the results, so callers work against one logical document set.
// Writes go through ForCategory: every document knows which collection owns
// it.
type Dual struct {
	driver  CategoryStore
	vehicle CategoryStore
}

func NewDual(driver, vehicle CategoryStore) *Dual {
	return &Dual{driver: driver, vehicle: vehicle}
}

// Driver exposes the driver-owned collection for category-scoped operations.
func (d *Dual) Driver() CategoryStore { return d.driver }

// Vehicle exposes the vehicle-owned collection for category-scoped operations.
func (d *Dual) Vehicle() CategoryStore { return d.vehicle }

// ForCategory returns the collection owning a category. Operator documents
// have no collection of their own yet; they are tracked in the driver-owned
// collection alongside the driver's paperwork.
func (d *Dual) ForCategory(category models.Category) CategoryStore {
	if category == models.CategoryVehicle {
		return d.vehicle
	}
	return d.driver
}

// Get looks a document up by ID across both collections.
func (d *Dual) Get(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	doc, err := d.driver.Get(ctx, id)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, err
	}
	return d.vehicle.Get(ctx, id)
}

// List merges both collections' visible documents, newest upload first.
func (d *Dual) List(ctx context.Context, filter ListFilter) ([]models.Document, error) {
	driverDocs, err := d.driver.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	vehicleDocs, err := d.vehicle.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	merged := append(driverDocs, vehicleDocs...)
	sortByUploadDesc(merged)
	return merged, nil
}

// ListForDriver merges every visible document a driver is responsible for:
// their own paperwork plus their vehicles' paperwork.
func (d *Dual) ListForDriver(ctx context.Context, driverID uuid.UUID) ([]models.Document, error) {
	driverDocs, err := d.driver.ListForDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}
	vehicleDocs, err := d.vehicle.ListForDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}

	merged := append(driverDocs, vehicleDocs...)
	sortByUploadDesc(merged)
	return merged, nil
}

