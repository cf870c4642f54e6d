package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS drivers (
	id UUID PRIMARY KEY,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	phone TEXT NOT NULL DEFAULT '',
	profile_photo_url TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'pending',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS vehicles (
	id UUID PRIMARY KEY,
	driver_id UUID NOT NULL REFERENCES drivers(id),
	licence_plate TEXT NOT NULL,
	make TEXT NOT NULL DEFAULT '',
	model TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS driver_documents (
	id UUID PRIMARY KEY,
	document_type TEXT NOT NULL,
	driver_id UUID NOT NULL REFERENCES drivers(id),
	file_url TEXT NOT NULL,
	file_name TEXT NOT NULL,
	file_size BIGINT NOT NULL DEFAULT 0,
	mime_type TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'pending',
	upload_date TIMESTAMPTZ NOT NULL DEFAULT now(),
	expiry_date TIMESTAMPTZ,
	reviewed_by UUID,
	reviewed_at TIMESTAMPTZ,
	rejection_reason TEXT NOT NULL DEFAULT '',
	replaces_document_id UUID,
	is_required BOOLEAN NOT NULL DEFAULT false
);

CREATE TABLE IF NOT EXISTS vehicle_documents (
	id UUID PRIMARY KEY,
	document_type TEXT NOT NULL,
	vehicle_id UUID NOT NULL REFERENCES vehicles(id),
	file_url TEXT NOT NULL,
	file_name TEXT NOT NULL,
	file_size BIGINT NOT NULL DEFAULT 0,
	mime_type TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'pending',
	upload_date TIMESTAMPTZ NOT NULL DEFAULT now(),
	expiry_date TIMESTAMPTZ,
	reviewed_by UUID,
	reviewed_at TIMESTAMPTZ,
	rejection_reason TEXT NOT NULL DEFAULT '',
	replaces_document_id UUID,
	is_required BOOLEAN NOT NULL DEFAULT false
);

CREATE INDEX IF NOT EXISTS idx_driver_documents_driver ON driver_documents (driver_id);
CREATE INDEX IF NOT EXISTS idx_driver_documents_status ON driver_documents (status);
CREATE INDEX IF NOT EXISTS idx_vehicle_documents_vehicle ON vehicle_documents (vehicle_id);
CREATE INDEX IF NOT EXISTS idx_vehicle_documents_status ON vehicle_documents (status);

CREATE TABLE IF NOT EXISTS audit_events (
	id UUID PRIMARY KEY,
	occurred_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	admin_id UUID NOT NULL,
	action TEXT NOT NULL,
	document_id UUID,
	driver_id UUID,
	detail TEXT NOT NULL DEFAULT '',
	device TEXT NOT NULL DEFAULT '',
	device_fingerprint TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_audit_events_admin ON audit_events (admin_id, occurred_at DESC);
`

// Migrate applies the schema. Statements are idempotent so repeated startup
// runs are safe.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
