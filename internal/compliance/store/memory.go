package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"driveops/internal/compliance/models"
	"driveops/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded map-backed CategoryStore. It favors clarity
// over performance and backs unit tests as well as local development.
type InMemory struct {
	mu       sync.RWMutex
	category models.Category
	docs     map[uuid.UUID]models.Document
	owners   OwnerDirectory
}

// NewInMemory constructs an in-memory collection for one category.
func NewInMemory(category models.Category, owners OwnerDirectory) *InMemory {
	return &InMemory{
		category: category,
		docs:     make(map[uuid.UUID]models.Document),
		owners:   owners,
	}
}

func (s *InMemory) Category() models.Category {
	return s.category
}

func (s *InMemory) Create(_ context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	doc.Category = s.category
	s.docs[doc.ID] = *doc
	return nil
}

func (s *InMemory) Get(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	s.mu.RLock()
	doc, ok := s.docs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	resolved := s.resolve(ctx, doc)
	return &resolved, nil
}

func (s *InMemory) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.docs, id)
	return nil
}

func (s *InMemory) List(ctx context.Context, filter ListFilter) ([]models.Document, error) {
	s.mu.RLock()
	snapshot := make([]models.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		snapshot = append(snapshot, doc)
	}
	s.mu.RUnlock()

	var out []models.Document
	for _, doc := range snapshot {
		if !doc.Status.Visible() {
			continue
		}
		if filter.Status != "" && doc.Status != filter.Status {
			continue
		}
		resolved := s.resolve(ctx, doc)
		if filter.DriverID != uuid.Nil && resolved.DriverID != filter.DriverID {
			continue
		}
		if filter.Search != "" && !matchesSearch(resolved, filter.Search) {
			continue
		}
		out = append(out, resolved)
	}

	sortByUploadDesc(out)
	return out, nil
}

func (s *InMemory) ListForDriver(ctx context.Context, driverID uuid.UUID) ([]models.Document, error) {
	return s.List(ctx, ListFilter{DriverID: driverID})
}

func (s *InMemory) FindApproved(ctx context.Context, ownerID uuid.UUID, docType models.Type, excludeID uuid.UUID) ([]models.Document, error) {
	s.mu.RLock()
	var matched []models.Document
	for _, doc := range s.docs {
		if doc.OwnerID == ownerID && doc.Type == docType && doc.Status == models.StatusApproved && doc.ID != excludeID {
			matched = append(matched, doc)
		}
	}
	s.mu.RUnlock()

	for i := range matched {
		matched[i] = s.resolve(ctx, matched[i])
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].UploadDate.Before(matched[j].UploadDate)
	})
	return matched, nil
}

func (s *InMemory) MarkApproved(_ context.Context, id, adminID uuid.UUID, replaces *uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	if doc.Status == models.StatusReplaced {
		return sentinel.ErrConflict
	}

	doc.Status = models.StatusApproved
	doc.ReviewedBy = &adminID
	doc.ReviewedAt = &at
	doc.ReplacesDocumentID = replaces
	s.docs[id] = doc
	return nil
}

func (s *InMemory) MarkReplaced(_ context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	if doc.Status != models.StatusApproved {
		return sentinel.ErrConflict
	}

	doc.Status = models.StatusReplaced
	doc.ReviewedAt = &at
	s.docs[id] = doc
	return nil
}

func (s *InMemory) MarkRejected(_ context.Context, id, adminID uuid.UUID, reason string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return sentinel.ErrNotFound
	}

	doc.Status = models.StatusRejected
	doc.ReviewedBy = &adminID
	doc.ReviewedAt = &at
	doc.RejectionReason = reason
	s.docs[id] = doc
	return nil
}

func (s *InMemory) UpdateStatusBulk(_ context.Context, ids []uuid.UUID, update BulkUpdate) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := 0
	for _, id := range ids {
		doc, ok := s.docs[id]
		if !ok {
			continue
		}
		doc.Status = update.Status
		doc.ReviewedBy = &update.ReviewedBy
		doc.ReviewedAt = &update.ReviewedAt
		if update.RejectionReason != "" {
			doc.RejectionReason = update.RejectionReason
		}
		s.docs[id] = doc
		updated++
	}
	return updated, nil
}

// resolve fills the joined owner display fields on a copy of the document.
// Resolution failures degrade to "Unknown" rather than failing the read.
func (s *InMemory) resolve(ctx context.Context, doc models.Document) models.Document {
	driverID := doc.OwnerID
	if s.category == models.CategoryVehicle {
		resolved, err := s.owners.VehicleOwner(ctx, doc.OwnerID)
		if err != nil {
			doc.OwnerName = "Unknown"
			return doc
		}
		driverID = resolved
	}
	doc.DriverID = driverID

	name, err := s.owners.DriverName(ctx, driverID)
	if err != nil {
		doc.OwnerName = "Unknown"
		return doc
	}
	doc.OwnerName = name
	return doc
}

func matchesSearch(doc models.Document, search string) bool {
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(doc.OwnerName), needle) ||
		strings.Contains(strings.ToLower(doc.FileName), needle)
}

func sortByUploadDesc(docs []models.Document) {
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UploadDate.After(docs[j].UploadDate)
	})
}
