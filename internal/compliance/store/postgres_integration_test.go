//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"driveops/internal/compliance/models"
	"driveops/internal/compliance/store"
	driverModels "driveops/internal/drivers/models"
	driverStore "driveops/internal/drivers/store"
	"driveops/internal/platform/postgres"
	"driveops/pkg/platform/sentinel"
	"driveops/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg      *containers.PostgresContainer
	drivers *driverStore.Postgres
	store   *store.Postgres

	ctx    context.Context
	driver driverModels.Driver
	now    time.Time
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.pg = containers.NewPostgresContainer(s.T())
	s.Require().NoError(postgres.Migrate(s.ctx, s.pg.DB))

	s.drivers = driverStore.NewPostgres(s.pg.DB)
	s.store = store.NewPostgresDriver(s.pg.DB)
	s.now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
}

func (s *PostgresStoreSuite) TearDownSuite() {
	_ = s.pg.DB.Close()
	_ = s.pg.Container.Terminate(s.ctx)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateAll(s.ctx, "driver_documents", "vehicle_documents", "vehicles", "drivers"))

	s.driver = driverModels.Driver{FirstName: "Amira", LastName: "Khan", Email: "amira@example.com"}
	s.Require().NoError(s.drivers.CreateDriver(s.ctx, &s.driver))
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) createDoc(docType models.Type, status models.Status) *models.Document {
	doc := &models.Document{
		Type:       docType,
		OwnerID:    s.driver.ID,
		FileName:   string(docType) + ".pdf",
		FileURL:    "https://files.local/documents/" + string(docType),
		Status:     status,
		UploadDate: s.now,
	}
	s.Require().NoError(s.store.Create(s.ctx, doc))
	return doc
}

func (s *PostgresStoreSuite) TestCreateGet() {
	expiry := s.now.AddDate(1, 0, 0)
	doc := &models.Document{
		Type:       models.TypeDrivingLicence,
		OwnerID:    s.driver.ID,
		FileName:   "licence.pdf",
		FileURL:    "https://files.local/documents/licence.pdf",
		FileSize:   1024,
		MimeType:   "application/pdf",
		Status:     models.StatusPending,
		UploadDate: s.now,
		ExpiryDate: &expiry,
	}
	s.Require().NoError(s.store.Create(s.ctx, doc))
	s.NotEqual(uuid.Nil, doc.ID)

	got, err := s.store.Get(s.ctx, doc.ID)
	s.Require().NoError(err)
	s.Equal(models.CategoryDriver, got.Category)
	s.Equal(s.driver.ID, got.DriverID)
	s.Equal("Amira Khan", got.OwnerName)
	s.Require().NotNil(got.ExpiryDate)
	s.True(got.ExpiryDate.Equal(expiry))
}

func (s *PostgresStoreSuite) TestApprovalGuards() {
	s.Run("approves a pending document", func() {
		doc := s.createDoc(models.TypeBankStatement, models.StatusPending)
		adminID := uuid.New()

		s.Require().NoError(s.store.MarkApproved(s.ctx, doc.ID, adminID, nil, s.now))

		got, err := s.store.Get(s.ctx, doc.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusApproved, got.Status)
		s.Equal(adminID, *got.ReviewedBy)
	})

	s.Run("a replaced document cannot be approved again", func() {
		doc := s.createDoc(models.TypeProofOfIdentity, models.StatusApproved)
		s.Require().NoError(s.store.MarkReplaced(s.ctx, doc.ID, s.now))

		err := s.store.MarkApproved(s.ctx, doc.ID, uuid.New(), nil, s.now)
		s.ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("only an approved document can be displaced", func() {
		doc := s.createDoc(models.TypePCOLicence, models.StatusPending)

		err := s.store.MarkReplaced(s.ctx, doc.ID, s.now)
		s.ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("missing document", func() {
		err := s.store.MarkApproved(s.ctx, uuid.New(), uuid.New(), nil, s.now)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *PostgresStoreSuite) TestListFilters() {
	licence := s.createDoc(models.TypeDrivingLicence, models.StatusPending)
	statement := s.createDoc(models.TypeBankStatement, models.StatusApproved)
	replaced := s.createDoc(models.TypePCOLicence, models.StatusApproved)
	s.Require().NoError(s.store.MarkReplaced(s.ctx, replaced.ID, s.now))

	s.Run("replaced documents are hidden", func() {
		docs, err := s.store.List(s.ctx, store.ListFilter{})
		s.Require().NoError(err)
		s.Len(docs, 2)
	})

	s.Run("status filter", func() {
		docs, err := s.store.List(s.ctx, store.ListFilter{Status: models.StatusPending})
		s.Require().NoError(err)
		s.Require().Len(docs, 1)
		s.Equal(licence.ID, docs[0].ID)
	})

	s.Run("search matches the owner name", func() {
		docs, err := s.store.List(s.ctx, store.ListFilter{Search: "khan"})
		s.Require().NoError(err)
		s.Len(docs, 2)
	})

	s.Run("search matches the file name", func() {
		docs, err := s.store.List(s.ctx, store.ListFilter{Search: "bank_statement"})
		s.Require().NoError(err)
		s.Require().Len(docs, 1)
		s.Equal(statement.ID, docs[0].ID)
	})
}

func (s *PostgresStoreSuite) TestFindApproved() {
	first := s.createDoc(models.TypeDrivingLicence, models.StatusApproved)
	second := s.createDoc(models.TypeDrivingLicence, models.StatusApproved)
	second.UploadDate = s.now.Add(time.Hour)
	_, err := s.pg.DB.ExecContext(s.ctx,
		`UPDATE driver_documents SET upload_date = $1 WHERE id = $2`, second.UploadDate, second.ID)
	s.Require().NoError(err)
	target := s.createDoc(models.TypeDrivingLicence, models.StatusPending)

	docs, err := s.store.FindApproved(s.ctx, s.driver.ID, models.TypeDrivingLicence, target.ID)
	s.Require().NoError(err)
	s.Require().Len(docs, 2)
	s.Equal(first.ID, docs[0].ID)
	s.Equal(second.ID, docs[1].ID)
}

func (s *PostgresStoreSuite) TestUpdateStatusBulk() {
	one := s.createDoc(models.TypeDrivingLicence, models.StatusPending)
	two := s.createDoc(models.TypeBankStatement, models.StatusPending)

	count, err := s.store.UpdateStatusBulk(s.ctx,
		[]uuid.UUID{one.ID, two.ID, uuid.New()},
		store.BulkUpdate{Status: models.StatusApproved, ReviewedBy: uuid.New(), ReviewedAt: s.now})
	s.Require().NoError(err)
	s.Equal(2, count)

	got, err := s.store.Get(s.ctx, one.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusApproved, got.Status)
}

func (s *PostgresStoreSuite) TestVehicleDocumentsResolveTheDriver() {
	vehicles := store.NewPostgresVehicle(s.pg.DB)
	vehicle := driverModels.Vehicle{DriverID: s.driver.ID, LicencePlate: "LC70 XYZ", Make: "Toyota", Model: "Prius"}
	s.Require().NoError(s.drivers.CreateVehicle(s.ctx, &vehicle))

	doc := &models.Document{
		Type:       models.TypeMOTCertificate,
		OwnerID:    vehicle.ID,
		FileName:   "mot.pdf",
		FileURL:    "https://files.local/documents/mot.pdf",
		Status:     models.StatusPending,
		UploadDate: s.now,
	}
	s.Require().NoError(vehicles.Create(s.ctx, doc))

	got, err := vehicles.Get(s.ctx, doc.ID)
	s.Require().NoError(err)
	s.Equal(models.CategoryVehicle, got.Category)
	s.Equal(s.driver.ID, got.DriverID)
	s.Equal("Amira Khan", got.OwnerName)

	docs, err := vehicles.ListForDriver(s.ctx, s.driver.ID)
	s.Require().NoError(err)
	s.Len(docs, 1)
}
