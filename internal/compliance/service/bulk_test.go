package service

import (
	"context"

	"github.com/google/uuid"

	"driveops/internal/compliance/models"
	"driveops/internal/compliance/store"

	dErrors "driveops/pkg/domain-errors"
)

// failingBulk wraps a collection and fails its bulk updates, standing in for
// a collection whose backing table is unavailable.
type failingBulk struct {
	store.CategoryStore
}

func (f failingBulk) UpdateStatusBulk(context.Context, []uuid.UUID, store.BulkUpdate) (int, error) {
	return 0, dErrors.New(dErrors.CodeUnavailable, "collection unavailable")
}

func (s *ServiceSuite) createVehicleDoc(docType models.Type, status models.Status) *models.Document {
	doc := &models.Document{
		Type:       docType,
		OwnerID:    uuid.New(),
		FileName:   string(docType) + ".pdf",
		FileURL:    "https://files.local/documents/" + string(docType),
		Status:     status,
		UploadDate: s.now,
	}
	s.Require().NoError(s.vehicleDocs.Create(s.ctx(), doc))
	return doc
}

// ==== Bulk review ====

func (s *ServiceSuite) TestBulkApprove() {
	s.Run("merges counts across both collections", func() {
		ids := []uuid.UUID{
			s.createDoc(models.TypeDrivingLicence, models.StatusPending, 0).ID,
			s.createDoc(models.TypeBankStatement, models.StatusPending, 0).ID,
			s.createVehicleDoc(models.TypeMOTCertificate, models.StatusPending).ID,
		}

		result, err := s.service.BulkApprove(s.ctx(), ids)
		s.Require().NoError(err)
		s.Equal(3, result.Success)
		s.Equal(0, result.Failed)

		for _, id := range ids {
			doc, err := s.service.Get(s.ctx(), id)
			s.Require().NoError(err)
			s.Equal(models.StatusApproved, doc.Status)
			s.Equal(s.adminID, *doc.ReviewedBy)
		}
	})

	s.Run("unknown ids count as failed", func() {
		known := s.createDoc(models.TypePCOLicence, models.StatusPending, 0)
		ids := []uuid.UUID{known.ID, uuid.New(), uuid.New()}

		result, err := s.service.BulkApprove(s.ctx(), ids)
		s.Require().NoError(err)
		s.Equal(1, result.Success)
		s.Equal(2, result.Failed)
	})

	s.Run("empty ids", func() {
		_, err := s.service.BulkApprove(s.ctx(), nil)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("requires an admin identity", func() {
		doc := s.createDoc(models.TypeProofOfIdentity, models.StatusPending, 0)

		_, err := s.service.BulkApprove(context.Background(), []uuid.UUID{doc.ID})
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func (s *ServiceSuite) TestBulkReject() {
	s.Run("flips every document with the shared reason", func() {
		ids := []uuid.UUID{
			s.createDoc(models.TypeDrivingLicence, models.StatusPending, 0).ID,
			s.createVehicleDoc(models.TypePHVLicence, models.StatusPending).ID,
		}

		result, err := s.service.BulkReject(s.ctx(), ids, "batch expired paperwork")
		s.Require().NoError(err)
		s.Equal(2, result.Success)
		s.Equal(0, result.Failed)

		for _, id := range ids {
			doc, err := s.service.Get(s.ctx(), id)
			s.Require().NoError(err)
			s.Equal(models.StatusRejected, doc.Status)
			s.Equal("batch expired paperwork", doc.RejectionReason)
		}
	})

	s.Run("reason is required", func() {
		doc := s.createDoc(models.TypeDrivingLicence, models.StatusPending, 0)

		_, err := s.service.BulkReject(s.ctx(), []uuid.UUID{doc.ID}, "")
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func (s *ServiceSuite) TestBulkPartialCollectionFailure() {
	s.Run("one collection failing leaves the other count standing", func() {
		driverDoc := s.createDoc(models.TypeBankStatement, models.StatusPending, 0)
		vehicleDoc := s.createVehicleDoc(models.TypeMOTCertificate, models.StatusPending)

		svc, err := New(
			store.NewDual(s.driverDocs, failingBulk{s.vehicleDocs}),
			s.objects, s.drivers,
		)
		s.Require().NoError(err)

		result, err := svc.BulkApprove(s.ctx(), []uuid.UUID{driverDoc.ID, vehicleDoc.ID})
		s.Require().NoError(err)
		s.Equal(1, result.Success)
		s.Equal(1, result.Failed)
	})

	s.Run("both collections failing fails everything", func() {
		doc := s.createDoc(models.TypeBankStatement, models.StatusPending, 0)

		svc, err := New(
			store.NewDual(failingBulk{s.driverDocs}, failingBulk{s.vehicleDocs}),
			s.objects, s.drivers,
		)
		s.Require().NoError(err)

		result, err := svc.BulkApprove(s.ctx(), []uuid.UUID{doc.ID, uuid.New()})
		s.Require().NoError(err)
		s.Equal(0, result.Success)
		s.Equal(2, result.Failed)
	})
}
