package audit

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// Postgres persists the trail in the audit_events table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Append(ctx context.Context, event Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_events (id, occurred_at, admin_id, action, document_id, driver_id, detail, device, device_fingerprint)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		event.ID,
		event.Timestamp,
		event.AdminID,
		string(event.Action),
		nullUUID(event.DocumentID),
		nullUUID(event.DriverID),
		event.Detail,
		event.Device,
		event.DeviceFingerprint,
	)
	return err
}

func (s *Postgres) ListByAdmin(ctx context.Context, adminID uuid.UUID) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, occurred_at, admin_id, action, document_id, driver_id, detail, device, device_fingerprint
		FROM audit_events
		WHERE admin_id = $1
		ORDER BY occurred_at DESC`,
		adminID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			event      Event
			action     string
			documentID uuid.NullUUID
			driverID   uuid.NullUUID
		)
		if err := rows.Scan(&event.ID, &event.Timestamp, &event.AdminID, &action,
			&documentID, &driverID, &event.Detail, &event.Device, &event.DeviceFingerprint); err != nil {
			return nil, err
		}
		event.Action = Action(action)
		event.DocumentID = documentID.UUID
		event.DriverID = driverID.UUID
		events = append(events, event)
	}
	return events, rows.Err()
}

func nullUUID(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: id != uuid.Nil}
}
