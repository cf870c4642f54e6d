package handler

import (
	"time"

	"github.com/google/uuid"

	"driveops/internal/compliance/models"
)

// documentResponse is the dashboard's view of a document. The stored
// reviewer field surfaces as approved_by or rejected_by depending on the
// outcome.
type documentResponse struct {
	ID              uuid.UUID  `json:"id"`
	Type            string     `json:"document_type"`
	Label           string     `json:"document_label"`
	Category        string     `json:"category"`
	OwnerID         uuid.UUID  `json:"owner_id"`
	DriverID        uuid.UUID  `json:"driver_id"`
	OwnerName       string     `json:"owner_name"`
	FileURL         string     `json:"file_url"`
	FileName        string     `json:"file_name"`
	FileSize        int64      `json:"file_size,omitempty"`
	MimeType        string     `json:"mime_type,omitempty"`
	Status          string     `json:"status"`
	UploadDate      time.Time  `json:"upload_date"`
	ExpiryDate      *time.Time `json:"expiry_date,omitempty"`
	ApprovedBy      *uuid.UUID `json:"approved_by,omitempty"`
	RejectedBy      *uuid.UUID `json:"rejected_by,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	IsRequired      bool       `json:"is_required"`
}

func toDocumentResponse(doc models.Document) documentResponse {
	resp := documentResponse{
		ID:              doc.ID,
		Type:            string(doc.Type),
		Label:           doc.Type.Label(),
		Category:        string(doc.Category),
		OwnerID:         doc.OwnerID,
		DriverID:        doc.DriverID,
		OwnerName:       doc.OwnerName,
		FileURL:         doc.FileURL,
		FileName:        doc.FileName,
		FileSize:        doc.FileSize,
		MimeType:        doc.MimeType,
		Status:          string(doc.Status),
		UploadDate:      doc.UploadDate,
		ExpiryDate:      doc.ExpiryDate,
		ReviewedAt:      doc.ReviewedAt,
		RejectionReason: doc.RejectionReason,
		IsRequired:      doc.IsRequired,
	}
	switch doc.Status {
	case models.StatusRejected:
		resp.RejectedBy = doc.ReviewedBy
	default:
		// Approved documents keep their reviewer through the expiry
		// reclassified statuses too.
		resp.ApprovedBy = doc.ReviewedBy
	}
	return resp
}

type listResponse struct {
	Documents []documentResponse `json:"documents"`
	Total     int                `json:"total"`
}

func toListResponse(docs []models.Document) listResponse {
	out := make([]documentResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toDocumentResponse(doc))
	}
	return listResponse{Documents: out, Total: len(out)}
}

type countsResponse struct {
	Pending      int `json:"pending"`
	Approved     int `json:"approved"`
	Rejected     int `json:"rejected"`
	Expired      int `json:"expired"`
	ExpiringSoon int `json:"expiring_soon"`
	Total        int `json:"total"`
}

func toCountsResponse(counts map[models.Status]int) countsResponse {
	resp := countsResponse{
		Pending:      counts[models.StatusPending],
		Approved:     counts[models.StatusApproved],
		Rejected:     counts[models.StatusRejected],
		Expired:      counts[models.StatusExpired],
		ExpiringSoon: counts[models.StatusExpiringSoon],
	}
	resp.Total = resp.Pending + resp.Approved + resp.Rejected + resp.Expired + resp.ExpiringSoon
	return resp
}
