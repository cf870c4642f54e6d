package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	compmodels "driveops/internal/compliance/models"
	"driveops/internal/drivers/models"
	"driveops/internal/drivers/store"
	"driveops/pkg/requestcontext"

	dErrors "driveops/pkg/domain-errors"
)

// stubDocuments serves a canned document set per driver.
type stubDocuments struct {
	docs map[uuid.UUID][]compmodels.Document
}

func (s *stubDocuments) DocumentsForDriver(_ context.Context, driverID uuid.UUID) ([]compmodels.Document, error) {
	return s.docs[driverID], nil
}

type DriverServiceSuite struct {
	suite.Suite
	store     *store.InMemory
	documents *stubDocuments
	service   *Service

	driver models.Driver
	now    time.Time
}

func (s *DriverServiceSuite) SetupTest() {
	s.now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	s.store = store.NewInMemory()
	s.documents = &stubDocuments{docs: make(map[uuid.UUID][]compmodels.Document)}

	s.driver = models.Driver{FirstName: "Amira", LastName: "Khan", Email: "amira@example.com"}
	s.Require().NoError(s.store.CreateDriver(context.Background(), &s.driver))

	svc, err := New(s.store, s.documents)
	s.Require().NoError(err)
	s.service = svc
}

// SetupSubTest rebuilds the stores and fixtures so every s.Run block starts
// from a pending driver with no documents.
func (s *DriverServiceSuite) SetupSubTest() {
	s.SetupTest()
}

func TestDriverServiceSuite(t *testing.T) {
	suite.Run(t, new(DriverServiceSuite))
}

func (s *DriverServiceSuite) ctx() context.Context {
	return requestcontext.WithTime(context.Background(), s.now)
}

// completeDocuments returns an approved document for every required type.
func (s *DriverServiceSuite) completeDocuments() []compmodels.Document {
	expiry := s.now.AddDate(1, 0, 0)
	docs := make([]compmodels.Document, 0, len(compmodels.RequiredDriverDocuments))
	for _, docType := range compmodels.RequiredDriverDocuments {
		doc := compmodels.Document{
			ID:       uuid.New(),
			Type:     docType,
			OwnerID:  s.driver.ID,
			DriverID: s.driver.ID,
			Status:   compmodels.StatusApproved,
		}
		if docType.RequiresExpiry() {
			e := expiry
			doc.ExpiryDate = &e
		}
		docs = append(docs, doc)
	}
	return docs
}

// ==== CreateDriver / RegisterVehicle ====

func (s *DriverServiceSuite) TestCreateDriver() {
	s.Run("creates a valid driver", func() {
		driver := models.Driver{FirstName: "Jonas", LastName: "Weber", Email: "jonas@example.com"}
		s.Require().NoError(s.service.CreateDriver(s.ctx(), &driver))
		s.NotEqual(uuid.Nil, driver.ID)
		s.Equal(models.StatusPending, driver.Status)
	})

	s.Run("derives a name from a bare email registration", func() {
		driver := models.Driver{Email: "jonas.weber@example.com"}
		s.Require().NoError(s.service.CreateDriver(s.ctx(), &driver))
		s.Equal("Jonas", driver.FirstName)
		s.Equal("Weber", driver.LastName)
	})

	s.Run("email is required", func() {
		err := s.service.CreateDriver(s.ctx(), &models.Driver{FirstName: "Jonas", LastName: "Weber"})
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func (s *DriverServiceSuite) TestRegisterVehicle() {
	s.Run("registers against an existing driver", func() {
		vehicle := models.Vehicle{DriverID: s.driver.ID, LicencePlate: "LC70 XYZ", Make: "Toyota", Model: "Prius"}
		s.Require().NoError(s.service.RegisterVehicle(s.ctx(), &vehicle))
		s.NotEqual(uuid.Nil, vehicle.ID)
	})

	s.Run("unknown driver", func() {
		vehicle := models.Vehicle{DriverID: uuid.New(), LicencePlate: "LC70 XYZ"}
		err := s.service.RegisterVehicle(s.ctx(), &vehicle)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("licence plate is required", func() {
		err := s.service.RegisterVehicle(s.ctx(), &models.Vehicle{DriverID: s.driver.ID})
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

// ==== Eligibility / Activate ====

func (s *DriverServiceSuite) TestEligibility() {
	s.Run("complete document set permits activation", func() {
		s.documents.docs[s.driver.ID] = s.completeDocuments()

		result, err := s.service.Eligibility(s.ctx(), s.driver.ID)
		s.Require().NoError(err)
		s.True(result.CanActivate)
		s.Empty(result.Reason)
	})

	s.Run("no documents reports every required type missing", func() {
		result, err := s.service.Eligibility(s.ctx(), s.driver.ID)
		s.Require().NoError(err)
		s.False(result.CanActivate)
		s.Len(result.Missing, len(compmodels.RequiredDriverDocuments))
	})

	s.Run("an expired approval blocks despite its stored status", func() {
		docs := s.completeDocuments()
		past := s.now.AddDate(0, 0, -1)
		docs[0].ExpiryDate = &past

		s.documents.docs[s.driver.ID] = docs

		result, err := s.service.Eligibility(s.ctx(), s.driver.ID)
		s.Require().NoError(err)
		s.False(result.CanActivate)
		s.Equal([]compmodels.Type{docs[0].Type}, result.Expired)
	})

	s.Run("unknown driver", func() {
		_, err := s.service.Eligibility(s.ctx(), uuid.New())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *DriverServiceSuite) TestActivate() {
	s.Run("activates an eligible driver", func() {
		s.documents.docs[s.driver.ID] = s.completeDocuments()

		result, err := s.service.Activate(s.ctx(), s.driver.ID)
		s.Require().NoError(err)
		s.True(result.CanActivate)

		driver, err := s.store.GetDriver(s.ctx(), s.driver.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusActive, driver.Status)
	})

	s.Run("blocked activation returns the verdict with the conflict", func() {
		s.documents.docs[s.driver.ID] = nil

		result, err := s.service.Activate(s.ctx(), s.driver.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Require().NotNil(result)
		s.False(result.CanActivate)
		s.NotEmpty(result.Reason)

		driver, err := s.store.GetDriver(s.ctx(), s.driver.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusPending, driver.Status)
	})
}
