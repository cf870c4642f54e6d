package handler

import (
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"

	"driveops/internal/compliance/models"
	"driveops/internal/compliance/service"

	dErrors "driveops/pkg/domain-errors"
)

const maxUploadBytes = 20 << 20

type rejectRequest struct {
	Reason string `json:"reason"`
}

type bulkRequest struct {
	DocumentIDs []string `json:"document_ids"`
	Reason      string   `json:"reason,omitempty"`
}

func (r bulkRequest) ids() ([]uuid.UUID, error) {
	if len(r.DocumentIDs) == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "document_ids is required")
	}
	ids := make([]uuid.UUID, 0, len(r.DocumentIDs))
	for _, raw := range r.DocumentIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, dErrors.Newf(dErrors.CodeBadRequest, "invalid document id %q", raw)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func uploadRequestFromForm(r *http.Request, file multipart.File, header *multipart.FileHeader) (service.UploadRequest, error) {
	ownerID, err := uuid.Parse(r.FormValue("owner_id"))
	if err != nil {
		return service.UploadRequest{}, dErrors.New(dErrors.CodeBadRequest, "invalid owner id")
	}

	req := service.UploadRequest{
		Type:     models.Type(r.FormValue("document_type")),
		OwnerID:  ownerID,
		FileName: header.Filename,
		FileSize: header.Size,
		MimeType: header.Header.Get("Content-Type"),
		Body:     file,
	}

	if raw := r.FormValue("expiry_date"); raw != "" {
		expiry, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return service.UploadRequest{}, dErrors.New(dErrors.CodeBadRequest, "invalid expiry date, expected YYYY-MM-DD")
		}
		req.ExpiryDate = &expiry
	}
	return req, nil
}
