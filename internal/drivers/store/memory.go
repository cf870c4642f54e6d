package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"driveops/internal/drivers/models"
	"driveops/pkg/platform/sentinel"
)

// InMemory is a map-backed Store for tests and local development.
type InMemory struct {
	mu       sync.RWMutex
	drivers  map[uuid.UUID]models.Driver
	vehicles map[uuid.UUID]models.Vehicle
}

func NewInMemory() *InMemory {
	return &InMemory{
		drivers:  make(map[uuid.UUID]models.Driver),
		vehicles: make(map[uuid.UUID]models.Vehicle),
	}
}

func (s *InMemory) CreateDriver(_ context.Context, driver *models.Driver) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if driver.ID == uuid.Nil {
		driver.ID = uuid.New()
	}
	if driver.Status == "" {
		driver.Status = models.StatusPending
	}
	now := time.Now().UTC()
	if driver.CreatedAt.IsZero() {
		driver.CreatedAt = now
	}
	driver.UpdatedAt = now

	s.drivers[driver.ID] = *driver
	return nil
}

func (s *InMemory) GetDriver(_ context.Context, id uuid.UUID) (*models.Driver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	driver, ok := s.drivers[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &driver, nil
}

func (s *InMemory) ListDrivers(_ context.Context) ([]models.Driver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Driver, 0, len(s.drivers))
	for _, driver := range s.drivers {
		out = append(out, driver)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemory) UpdateDriverStatus(_ context.Context, id uuid.UUID, status models.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	driver, ok := s.drivers[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	driver.Status = status
	driver.UpdatedAt = time.Now().UTC()
	s.drivers[id] = driver
	return nil
}

func (s *InMemory) UpdateProfilePhoto(_ context.Context, id uuid.UUID, photoURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	driver, ok := s.drivers[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	driver.ProfilePhotoURL = photoURL
	driver.UpdatedAt = time.Now().UTC()
	s.drivers[id] = driver
	return nil
}

func (s *InMemory) CreateVehicle(_ context.Context, vehicle *models.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if vehicle.ID == uuid.Nil {
		vehicle.ID = uuid.New()
	}
	if vehicle.CreatedAt.IsZero() {
		vehicle.CreatedAt = time.Now().UTC()
	}
	if _, ok := s.drivers[vehicle.DriverID]; !ok {
		return sentinel.ErrNotFound
	}

	s.vehicles[vehicle.ID] = *vehicle
	return nil
}

func (s *InMemory) GetVehicle(_ context.Context, id uuid.UUID) (*models.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vehicle, ok := s.vehicles[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &vehicle, nil
}

func (s *InMemory) ListVehiclesForDriver(_ context.Context, driverID uuid.UUID) ([]models.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Vehicle
	for _, vehicle := range s.vehicles {
		if vehicle.DriverID == driverID {
			out = append(out, vehicle)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemory) DriverName(_ context.Context, driverID uuid.UUID) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	driver, ok := s.drivers[driverID]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	return driver.FullName(), nil
}

func (s *InMemory) VehicleOwner(_ context.Context, vehicleID uuid.UUID) (uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vehicle, ok := s.vehicles[vehicleID]
	if !ok {
		return uuid.Nil, sentinel.ErrNotFound
	}
	return vehicle.DriverID, nil
}
