// Package eligibility decides whether a driver may be activated, by
// evaluating their current document set against the required-document
// policy. The evaluator is pure and total: it never fails, and an empty
// document set simply reports every required type as missing.
package eligibility

import (
	"fmt"
	"strings"
	"time"

	"driveops/internal/compliance/expiry"
	"driveops/internal/compliance/models"
)

// Result is the compliance verdict for one driver.
type Result struct {
	CanActivate bool `json:"can_activate"`
	// Missing holds required types with no actionable document: absent
	// entirely, or present but not yet approved.
	Missing []models.Type `json:"missing,omitempty"`
	// Rejected holds required types whose document was rejected by an admin.
	Rejected []models.Type `json:"rejected,omitempty"`
	// Expired holds required types whose document has passed its expiry
	// date, regardless of what the stored status column still says.
	Expired []models.Type `json:"expired,omitempty"`
	// Reason is a human-readable summary, empty when CanActivate is true.
	Reason string `json:"reason,omitempty"`
}

// Evaluate checks a driver's document set against the activation policy as
// of "now". The caller passes the current non-replaced set, one document per
// type; when duplicates exist the last one wins.
//
// An approved document expiring within the renewal window still satisfies
// the policy. Only an expiry date that has actually passed blocks
// activation.
func Evaluate(documents []models.Document, now time.Time) Result {
	byType := make(map[models.Type]models.Document, len(documents))
	for _, doc := range documents {
		byType[doc.Type] = doc
	}

	var result Result
	for _, required := range models.RequiredDriverDocuments {
		doc, ok := byType[required]
		if !ok {
			result.Missing = append(result.Missing, required)
			continue
		}

		// A lapsed expiry takes precedence over the stored status, the
		// same way the display classifier reads it.
		if doc.ExpiryDate != nil && expiry.DaysUntil(*doc.ExpiryDate, now) <= 0 {
			result.Expired = append(result.Expired, required)
			continue
		}

		switch doc.Status {
		case models.StatusRejected:
			result.Rejected = append(result.Rejected, required)
		case models.StatusApproved, models.StatusExpiringSoon:
			// satisfied until the expiry date actually passes
		case models.StatusExpired:
			result.Expired = append(result.Expired, required)
		default:
			// pending or anything else not yet actionable
			result.Missing = append(result.Missing, required)
		}
	}

	result.CanActivate = len(result.Missing) == 0 &&
		len(result.Rejected) == 0 &&
		len(result.Expired) == 0

	if !result.CanActivate {
		result.Reason = composeReason(result)
	}
	return result
}

func composeReason(r Result) string {
	var reasons []string
	if n := len(r.Missing); n > 0 {
		reasons = append(reasons, fmt.Sprintf("%d document(s) not approved", n))
	}
	if n := len(r.Rejected); n > 0 {
		reasons = append(reasons, fmt.Sprintf("%d document(s) rejected", n))
	}
	if n := len(r.Expired); n > 0 {
		reasons = append(reasons, fmt.Sprintf("%d document(s) expired", n))
	}
	return strings.Join(reasons, ", ")
}
