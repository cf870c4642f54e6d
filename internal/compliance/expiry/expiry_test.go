package expiry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"driveops/internal/compliance/models"
)

type ExpirySuite struct {
	suite.Suite
	now time.Time
}

func (s *ExpirySuite) SetupTest() {
	s.now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
}

func TestExpirySuite(t *testing.T) {
	suite.Run(t, new(ExpirySuite))
}

func (s *ExpirySuite) date(daysFromNow int) *time.Time {
	d := s.now.AddDate(0, 0, daysFromNow)
	return &d
}

// ==== Day arithmetic ====

func (s *ExpirySuite) TestDaysUntil() {
	s.Run("partial days round up", func() {
		expiry := s.now.Add(36 * time.Hour)
		s.Equal(2, DaysUntil(expiry, s.now))
	})

	s.Run("exact day boundary does not round", func() {
		expiry := s.now.Add(48 * time.Hour)
		s.Equal(2, DaysUntil(expiry, s.now))
	})

	s.Run("past dates are negative", func() {
		expiry := s.now.Add(-25 * time.Hour)
		s.Equal(-1, DaysUntil(expiry, s.now))
	})

	s.Run("same instant is zero", func() {
		s.Equal(0, DaysUntil(s.now, s.now))
	})
}

// ==== Status classification ====

func (s *ExpirySuite) TestClassify() {
	s.Run("nil expiry leaves status unchanged", func() {
		s.Equal(models.StatusApproved, Classify(models.StatusApproved, nil, s.now))
		s.Equal(models.StatusPending, Classify(models.StatusPending, nil, s.now))
	})

	s.Run("expiry today is expired", func() {
		got := Classify(models.StatusApproved, &s.now, s.now)
		s.Equal(models.StatusExpired, got)
	})

	s.Run("expiry in the past is expired", func() {
		got := Classify(models.StatusApproved, s.date(-10), s.now)
		s.Equal(models.StatusExpired, got)
	})

	s.Run("expiry within thirty days is expiring soon", func() {
		got := Classify(models.StatusApproved, s.date(30), s.now)
		s.Equal(models.StatusExpiringSoon, got)
	})

	s.Run("expiry at thirty one days keeps stored status", func() {
		got := Classify(models.StatusApproved, s.date(31), s.now)
		s.Equal(models.StatusApproved, got)
	})

	s.Run("one day out is expiring soon", func() {
		got := Classify(models.StatusApproved, s.date(1), s.now)
		s.Equal(models.StatusExpiringSoon, got)
	})

	s.Run("classification is idempotent", func() {
		first := Classify(models.StatusApproved, s.date(5), s.now)
		second := Classify(first, s.date(5), s.now)
		s.Equal(first, second)
	})

	s.Run("pending documents reclassify too", func() {
		got := Classify(models.StatusPending, s.date(-1), s.now)
		s.Equal(models.StatusExpired, got)
	})

	s.Run("a lapsed expiry overrides a rejected verdict", func() {
		got := Classify(models.StatusRejected, s.date(-1), s.now)
		s.Equal(models.StatusExpired, got)
	})

	s.Run("rejected documents with a live expiry reclassify too", func() {
		got := Classify(models.StatusRejected, s.date(5), s.now)
		s.Equal(models.StatusExpiringSoon, got)
	})
}

func (s *ExpirySuite) TestClassifyAll() {
	docs := []models.Document{
		{Type: models.TypeDrivingLicence, Status: models.StatusApproved, ExpiryDate: s.date(-1)},
		{Type: models.TypePCOLicence, Status: models.StatusApproved, ExpiryDate: s.date(10)},
		{Type: models.TypeProfilePhoto, Status: models.StatusApproved},
		{Type: models.TypeBankStatement, Status: models.StatusRejected},
	}

	got := ClassifyAll(docs, s.now)

	s.Equal(models.StatusExpired, got[0].Status)
	s.Equal(models.StatusExpiringSoon, got[1].Status)
	s.Equal(models.StatusApproved, got[2].Status)
	s.Equal(models.StatusRejected, got[3].Status)

	s.Run("input slice is not mutated", func() {
		s.Equal(models.StatusApproved, docs[0].Status)
	})
}
