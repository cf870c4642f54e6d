// Package expiry derives a document's effective display status from its
// expiry date. The stored status column is not kept in sync with the clock,
// so every surface that displays or counts expiry-aware statuses must apply
// the same classification.
package expiry

import (
	"math"
	"time"

	"driveops/internal/compliance/models"
)

// SoonWindowDays is the renewal warning window: a document whose expiry is
// this many days away or closer displays as expiring_soon.
const SoonWindowDays = 30

// DaysUntil returns the number of whole days until expiry, rounding partial
// days up. Zero or negative means the document has expired.
func DaysUntil(expiryDate, now time.Time) int {
	return int(math.Ceil(expiryDate.Sub(now).Hours() / 24))
}

// Classify returns the effective status for a document given its stored
// status and expiry date. A nil expiry date leaves the status unchanged;
// otherwise the expiry date takes precedence over whatever the status
// column says, so a lapsed document always reads as expired.
// The function is pure and idempotent: classifying an already-classified
// status yields the same result.
func Classify(status models.Status, expiryDate *time.Time, now time.Time) models.Status {
	if expiryDate == nil {
		return status
	}

	days := DaysUntil(*expiryDate, now)
	switch {
	case days <= 0:
		return models.StatusExpired
	case days <= SoonWindowDays:
		return models.StatusExpiringSoon
	default:
		return status
	}
}

// ClassifyDocument applies Classify to a document in place and returns it.
func ClassifyDocument(doc models.Document, now time.Time) models.Document {
	doc.Status = Classify(doc.Status, doc.ExpiryDate, now)
	return doc
}

// ClassifyAll reclassifies documents against a single "now". The input slice
// is left untouched.
func ClassifyAll(docs []models.Document, now time.Time) []models.Document {
	out := make([]models.Document, len(docs))
	for i, doc := range docs {
		out[i] = ClassifyDocument(doc, now)
	}
	return out
}
