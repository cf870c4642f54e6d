package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"driveops/internal/drivers/models"
	"driveops/pkg/platform/sentinel"
)

type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const driverColumns = `id, first_name, last_name, email, phone, profile_photo_url, status, created_at, updated_at`

func (s *Postgres) CreateDriver(ctx context.Context, driver *models.Driver) error {
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

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO drivers (`+driverColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, driver.ID, driver.FirstName, driver.LastName, driver.Email, driver.Phone,
		driver.ProfilePhotoURL, string(driver.Status), driver.CreatedAt, driver.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert driver: %w", err)
	}
	return nil
}

func (s *Postgres) GetDriver(ctx context.Context, id uuid.UUID) (*models.Driver, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+driverColumns+` FROM drivers WHERE id = $1`, id)
	driver, err := scanDriver(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get driver: %w", err)
	}
	return driver, nil
}

func (s *Postgres) ListDrivers(ctx context.Context) ([]models.Driver, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+driverColumns+` FROM drivers ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list drivers: %w", err)
	}
	defer rows.Close()

	var out []models.Driver
	for rows.Next() {
		driver, err := scanDriver(rows)
		if err != nil {
			return nil, fmt.Errorf("scan driver row: %w", err)
		}
		out = append(out, *driver)
	}
	return out, rows.Err()
}

func (s *Postgres) UpdateDriverStatus(ctx context.Context, id uuid.UUID, status models.Status) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE drivers SET status = $2, updated_at = now() WHERE id = $1
	`, id, string(status))
	if err != nil {
		return fmt.Errorf("update driver status: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) UpdateProfilePhoto(ctx context.Context, id uuid.UUID, photoURL string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE drivers SET profile_photo_url = $2, updated_at = now() WHERE id = $1
	`, id, photoURL)
	if err != nil {
		return fmt.Errorf("update profile photo: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	if vehicle.ID == uuid.Nil {
		vehicle.ID = uuid.New()
	}
	if vehicle.CreatedAt.IsZero() {
		vehicle.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vehicles (id, driver_id, licence_plate, make, model, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, vehicle.ID, vehicle.DriverID, vehicle.LicencePlate, vehicle.Make, vehicle.Model, vehicle.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert vehicle: %w", err)
	}
	return nil
}

func (s *Postgres) GetVehicle(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := s.db.QueryRowContext(ctx, `
		SELECT id, driver_id, licence_plate, make, model, created_at
		FROM vehicles WHERE id = $1
	`, id).Scan(&vehicle.ID, &vehicle.DriverID, &vehicle.LicencePlate,
		&vehicle.Make, &vehicle.Model, &vehicle.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get vehicle: %w", err)
	}
	return &vehicle, nil
}

func (s *Postgres) ListVehiclesForDriver(ctx context.Context, driverID uuid.UUID) ([]models.Vehicle, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, driver_id, licence_plate, make, model, created_at
		FROM vehicles WHERE driver_id = $1 ORDER BY created_at ASC
	`, driverID)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	var out []models.Vehicle
	for rows.Next() {
		var vehicle models.Vehicle
		if err := rows.Scan(&vehicle.ID, &vehicle.DriverID, &vehicle.LicencePlate,
			&vehicle.Make, &vehicle.Model, &vehicle.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan vehicle row: %w", err)
		}
		out = append(out, vehicle)
	}
	return out, rows.Err()
}

func (s *Postgres) DriverName(ctx context.Context, driverID uuid.UUID) (string, error) {
	var first, last string
	err := s.db.QueryRowContext(ctx, `
		SELECT first_name, last_name FROM drivers WHERE id = $1
	`, driverID).Scan(&first, &last)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", sentinel.ErrNotFound
		}
		return "", fmt.Errorf("driver name: %w", err)
	}
	return strings.TrimSpace(first + " " + last), nil
}

func (s *Postgres) VehicleOwner(ctx context.Context, vehicleID uuid.UUID) (uuid.UUID, error) {
	var driverID uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		SELECT driver_id FROM vehicles WHERE id = $1
	`, vehicleID).Scan(&driverID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, sentinel.ErrNotFound
		}
		return uuid.Nil, fmt.Errorf("vehicle owner: %w", err)
	}
	return driverID, nil
}

type driverScanner interface {
	Scan(dest ...any) error
}

func scanDriver(row driverScanner) (*models.Driver, error) {
	var driver models.Driver
	var status string
	err := row.Scan(&driver.ID, &driver.FirstName, &driver.LastName, &driver.Email,
		&driver.Phone, &driver.ProfilePhotoURL, &status, &driver.CreatedAt, &driver.UpdatedAt)
	if err != nil {
		return nil, err
	}
	driver.Status = models.Status(status)
	return &driver, nil
}
