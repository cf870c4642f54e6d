package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"driveops/internal/compliance/models"
	"driveops/pkg/platform/sentinel"
)

// Postgres persists one document collection in PostgreSQL. The same
// implementation serves both collections; construction picks the table and
// the owner join.
type Postgres struct {
	db       *sql.DB
	category models.Category
	table    string
	// selectBase projects document columns plus the joined owner display
	// name and the resolved driver ID.
	selectBase string
}

// NewPostgresDriver constructs the driver-owned collection store.
func NewPostgresDriver(db *sql.DB) *Postgres {
	return &Postgres{
		db:       db,
		category: models.CategoryDriver,
		table:    "driver_documents",
		selectBase: `
			SELECT d.id, d.document_type, d.driver_id, d.file_url, d.file_name,
			       d.file_size, d.mime_type, d.status, d.upload_date, d.expiry_date,
			       d.reviewed_by, d.reviewed_at, d.rejection_reason,
			       d.replaces_document_id, d.is_required,
			       TRIM(dr.first_name || ' ' || dr.last_name) AS owner_name,
			       d.driver_id AS resolved_driver_id
			FROM driver_documents d
			JOIN drivers dr ON dr.id = d.driver_id`,
	}
}

// NewPostgresVehicle constructs the vehicle-owned collection store. The owner
// display name and the responsible driver resolve through the vehicle.
func NewPostgresVehicle(db *sql.DB) *Postgres {
	return &Postgres{
		db:       db,
		category: models.CategoryVehicle,
		table:    "vehicle_documents",
		selectBase: `
			SELECT d.id, d.document_type, d.vehicle_id, d.file_url, d.file_name,
			       d.file_size, d.mime_type, d.status, d.upload_date, d.expiry_date,
			       d.reviewed_by, d.reviewed_at, d.rejection_reason,
			       d.replaces_document_id, d.is_required,
			       TRIM(dr.first_name || ' ' || dr.last_name) AS owner_name,
			       ve.driver_id AS resolved_driver_id
			FROM vehicle_documents d
			JOIN vehicles ve ON ve.id = d.vehicle_id
			JOIN drivers dr ON dr.id = ve.driver_id`,
	}
}

func (s *Postgres) Category() models.Category {
	return s.category
}

func (s *Postgres) Create(ctx context.Context, doc *models.Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	doc.Category = s.category

	query := fmt.Sprintf(`
		INSERT INTO %s (id, document_type, %s, file_url, file_name, file_size,
			mime_type, status, upload_date, expiry_date, rejection_reason, is_required)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, s.table, s.ownerColumn())

	_, err := s.db.ExecContext(ctx, query,
		doc.ID, string(doc.Type), doc.OwnerID, doc.FileURL, doc.FileName,
		doc.FileSize, doc.MimeType, string(doc.Status), doc.UploadDate,
		nullTime(doc.ExpiryDate), doc.RejectionReason, doc.IsRequired,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (s *Postgres) Get(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	row := s.db.QueryRowContext(ctx, s.selectBase+` WHERE d.id = $1`, id)
	doc, err := s.scan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

func (s *Postgres) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.table), id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) List(ctx context.Context, filter ListFilter) ([]models.Document, error) {
	conditions := []string{`d.status <> 'replaced'`}
	var args []any

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conditions = append(conditions, fmt.Sprintf("d.status = $%d", len(args)))
	}
	if filter.DriverID != uuid.Nil {
		args = append(args, filter.DriverID)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", s.resolvedDriverColumn(), len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf(
			"(TRIM(dr.first_name || ' ' || dr.last_name) ILIKE $%d OR d.file_name ILIKE $%d)",
			len(args), len(args)))
	}

	query := s.selectBase +
		" WHERE " + strings.Join(conditions, " AND ") +
		" ORDER BY d.upload_date DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	return s.scanAll(rows)
}

func (s *Postgres) ListForDriver(ctx context.Context, driverID uuid.UUID) ([]models.Document, error) {
	return s.List(ctx, ListFilter{DriverID: driverID})
}

func (s *Postgres) FindApproved(ctx context.Context, ownerID uuid.UUID, docType models.Type, excludeID uuid.UUID) ([]models.Document, error) {
	query := s.selectBase + fmt.Sprintf(`
		WHERE d.%s = $1 AND d.document_type = $2 AND d.status = 'approved' AND d.id <> $3
		ORDER BY d.upload_date ASC`, s.ownerColumn())

	rows, err := s.db.QueryContext(ctx, query, ownerID, string(docType), excludeID)
	if err != nil {
		return nil, fmt.Errorf("find approved documents: %w", err)
	}
	defer rows.Close()
	return s.scanAll(rows)
}

func (s *Postgres) MarkApproved(ctx context.Context, id, adminID uuid.UUID, replaces *uuid.UUID, at time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s SET status = 'approved', reviewed_by = $2, reviewed_at = $3,
			rejection_reason = '', replaces_document_id = $4
		WHERE id = $1 AND status <> 'replaced'
	`, s.table)

	res, err := s.db.ExecContext(ctx, query, id, adminID, at, nullUUID(replaces))
	if err != nil {
		return fmt.Errorf("approve document: %w", err)
	}
	return s.guardOutcome(ctx, res, id)
}

func (s *Postgres) MarkReplaced(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s SET status = 'replaced', reviewed_at = $2
		WHERE id = $1 AND status = 'approved'
	`, s.table)

	res, err := s.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("replace document: %w", err)
	}
	return s.guardOutcome(ctx, res, id)
}

func (s *Postgres) MarkRejected(ctx context.Context, id, adminID uuid.UUID, reason string, at time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s SET status = 'rejected', reviewed_by = $2, reviewed_at = $3,
			rejection_reason = $4
		WHERE id = $1
	`, s.table)

	res, err := s.db.ExecContext(ctx, query, id, adminID, at, reason)
	if err != nil {
		return fmt.Errorf("reject document: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) UpdateStatusBulk(ctx context.Context, ids []uuid.UUID, update BulkUpdate) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}

	var query string
	var args []any
	if update.RejectionReason != "" {
		query = fmt.Sprintf(`
			UPDATE %s SET status = $2, reviewed_by = $3, reviewed_at = $4, rejection_reason = $5
			WHERE id = ANY($1)
		`, s.table)
		args = []any{pq.Array(idStrings), string(update.Status), update.ReviewedBy, update.ReviewedAt, update.RejectionReason}
	} else {
		query = fmt.Sprintf(`
			UPDATE %s SET status = $2, reviewed_by = $3, reviewed_at = $4
			WHERE id = ANY($1)
		`, s.table)
		args = []any{pq.Array(idStrings), string(update.Status), update.ReviewedBy, update.ReviewedAt}
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("bulk update documents: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("bulk update rows affected: %w", err)
	}
	return int(affected), nil
}

// guardOutcome distinguishes "row missing" from "guard condition failed"
// after a conditional update touched zero rows.
func (s *Postgres) guardOutcome(ctx context.Context, res sql.Result, id uuid.UUID) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	var exists bool
	err = s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, s.table), id,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check document existence: %w", err)
	}
	if !exists {
		return sentinel.ErrNotFound
	}
	return sentinel.ErrConflict
}

func (s *Postgres) ownerColumn() string {
	if s.category == models.CategoryVehicle {
		return "vehicle_id"
	}
	return "driver_id"
}

func (s *Postgres) resolvedDriverColumn() string {
	if s.category == models.CategoryVehicle {
		return "ve.driver_id"
	}
	return "d.driver_id"
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Postgres) scan(row rowScanner) (*models.Document, error) {
	var (
		doc        models.Document
		docType    string
		status     string
		expiry     sql.NullTime
		reviewedBy uuid.NullUUID
		reviewedAt sql.NullTime
		replaces   uuid.NullUUID
	)

	err := row.Scan(
		&doc.ID, &docType, &doc.OwnerID, &doc.FileURL, &doc.FileName,
		&doc.FileSize, &doc.MimeType, &status, &doc.UploadDate, &expiry,
		&reviewedBy, &reviewedAt, &doc.RejectionReason,
		&replaces, &doc.IsRequired,
		&doc.OwnerName, &doc.DriverID,
	)
	if err != nil {
		return nil, err
	}

	doc.Category = s.category
	doc.Type = models.Type(docType)
	doc.Status = models.Status(status)
	doc.OwnerType = models.OwnerType(s.category)
	if expiry.Valid {
		t := expiry.Time
		doc.ExpiryDate = &t
	}
	if reviewedBy.Valid {
		id := reviewedBy.UUID
		doc.ReviewedBy = &id
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		doc.ReviewedAt = &t
	}
	if replaces.Valid {
		id := replaces.UUID
		doc.ReplacesDocumentID = &id
	}
	return &doc, nil
}

func (s *Postgres) scanAll(rows *sql.Rows) ([]models.Document, error) {
	var docs []models.Document
	for rows.Next() {
		doc, err := s.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document row: %w", err)
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
