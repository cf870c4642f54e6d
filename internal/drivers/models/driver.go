package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is a driver's account state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

// Driver is a chauffeur on the platform.
type Driver struct {
	ID              uuid.UUID `json:"id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone,omitempty"`
	ProfilePhotoURL string    `json:"profile_photo_url,omitempty"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// FullName is the driver's display name.
func (d Driver) FullName() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

// Vehicle is a car registered to a driver.
type Vehicle struct {
	ID           uuid.UUID `json:"id"`
	DriverID     uuid.UUID `json:"driver_id"`
	LicencePlate string    `json:"licence_plate"`
	Make         string    `json:"make,omitempty"`
	Model        string    `json:"model,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
