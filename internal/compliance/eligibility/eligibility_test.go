package eligibility

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"driveops/internal/compliance/models"
)

type EligibilitySuite struct {
	suite.Suite
	now time.Time
}

func (s *EligibilitySuite) SetupTest() {
	s.now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
}

func TestEligibilitySuite(t *testing.T) {
	suite.Run(t, new(EligibilitySuite))
}

func (s *EligibilitySuite) doc(docType models.Type, status models.Status) models.Document {
	return models.Document{
		ID:     uuid.New(),
		Type:   docType,
		Status: status,
	}
}

// fullSet returns every required document, approved.
func (s *EligibilitySuite) fullSet() []models.Document {
	docs := make([]models.Document, 0, len(models.RequiredDriverDocuments))
	for _, docType := range models.RequiredDriverDocuments {
		docs = append(docs, s.doc(docType, models.StatusApproved))
	}
	return docs
}

func (s *EligibilitySuite) TestEvaluate() {
	s.Run("empty set reports every required type missing", func() {
		result := Evaluate(nil, s.now)

		s.False(result.CanActivate)
		s.Len(result.Missing, len(models.RequiredDriverDocuments))
		s.Empty(result.Rejected)
		s.Empty(result.Expired)
		s.Equal("10 document(s) not approved", result.Reason)
	})

	s.Run("complete approved set can activate", func() {
		result := Evaluate(s.fullSet(), s.now)

		s.True(result.CanActivate)
		s.Empty(result.Missing)
		s.Empty(result.Rejected)
		s.Empty(result.Expired)
		s.Empty(result.Reason)
	})

	s.Run("pending document counts as missing", func() {
		docs := s.fullSet()
		docs[0].Status = models.StatusPending

		result := Evaluate(docs, s.now)

		s.False(result.CanActivate)
		s.Equal([]models.Type{docs[0].Type}, result.Missing)
	})

	s.Run("rejected document blocks activation", func() {
		docs := s.fullSet()
		docs[2].Status = models.StatusRejected

		result := Evaluate(docs, s.now)

		s.False(result.CanActivate)
		s.Equal([]models.Type{docs[2].Type}, result.Rejected)
		s.Equal("1 document(s) rejected", result.Reason)
	})

	s.Run("approved document past its expiry counts as expired", func() {
		docs := s.fullSet()
		past := s.now.AddDate(0, 0, -3)
		docs[0].ExpiryDate = &past

		result := Evaluate(docs, s.now)

		s.False(result.CanActivate)
		s.Equal([]models.Type{docs[0].Type}, result.Expired)
		s.Equal("1 document(s) expired", result.Reason)
	})

	s.Run("rejected document past its expiry counts as expired", func() {
		docs := s.fullSet()
		docs[0].Status = models.StatusRejected
		past := s.now.AddDate(0, 0, -3)
		docs[0].ExpiryDate = &past

		result := Evaluate(docs, s.now)

		s.False(result.CanActivate)
		s.Empty(result.Rejected)
		s.Equal([]models.Type{docs[0].Type}, result.Expired)
	})

	s.Run("approved document expiring soon still satisfies", func() {
		docs := s.fullSet()
		soon := s.now.AddDate(0, 0, 10)
		docs[0].ExpiryDate = &soon

		result := Evaluate(docs, s.now)

		s.True(result.CanActivate)
	})

	s.Run("non-required documents are ignored", func() {
		docs := append(s.fullSet(), s.doc(models.TypeDriverSchedule, models.StatusRejected))

		result := Evaluate(docs, s.now)

		s.True(result.CanActivate)
	})

	s.Run("duplicate types last one wins", func() {
		docs := append(s.fullSet(), s.doc(models.RequiredDriverDocuments[0], models.StatusRejected))

		result := Evaluate(docs, s.now)

		s.False(result.CanActivate)
		s.Equal([]models.Type{models.RequiredDriverDocuments[0]}, result.Rejected)
	})

	s.Run("mixed failures compose the reason in bucket order", func() {
		docs := s.fullSet()[2:]
		docs[0].Status = models.StatusRejected
		past := s.now.AddDate(0, 0, -1)
		docs[1].ExpiryDate = &past

		result := Evaluate(docs, s.now)

		s.False(result.CanActivate)
		s.Equal("2 document(s) not approved, 1 document(s) rejected, 1 document(s) expired", result.Reason)
	})
}
