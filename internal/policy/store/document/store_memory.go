// Package document persists legal documents.
package document

import (
	"context"
	"sort"
	"sync"

	"gavel/internal/policy/models"
	id "gavel/pkg/domain"
	"gavel/pkg/platform/sentinel"
)

// InMemory is a map-backed document store for tests and local development.
type InMemory struct {
	mu     sync.RWMutex
	docs   map[id.DocumentID]*models.Document
	bySlug map[string]id.DocumentID
}

func NewInMemory() *InMemory {
	return &InMemory{
		docs:   make(map[id.DocumentID]*models.Document),
		bySlug: make(map[string]id.DocumentID),
	}
}

func (s *InMemory) Create(_ context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.docs[doc.ID]; exists {
		return sentinel.ErrConflict
	}
	if _, exists := s.bySlug[doc.Slug]; exists {
		return sentinel.ErrConflict
	}
	s.docs[doc.ID] = clone(doc)
	s.bySlug[doc.Slug] = doc.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, documentID id.DocumentID) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, exists := s.docs[documentID]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	return clone(doc), nil
}

func (s *InMemory) FindBySlug(_ context.Context, slug string) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	documentID, exists := s.bySlug[slug]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	return clone(s.docs[documentID]), nil
}

func (s *InMemory) List(_ context.Context, filter models.DocumentFilter) ([]*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Document
	for _, doc := range s.docs {
		if filter.Category != "" && string(doc.Category) != filter.Category {
			continue
		}
		if filter.Status != "" && string(doc.Status) != filter.Status {
			continue
		}
		result = append(result, clone(doc))
	}
	sortByCreatedAt(result)
	return result, nil
}

func (s *InMemory) Execute(_ context.Context, documentID id.DocumentID, validate func(*models.Document) error, mutate func(*models.Document)) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, exists := s.docs[documentID]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	if validate != nil {
		if err := validate(doc); err != nil {
			return nil, err
		}
	}
	mutate(doc)
	return clone(doc), nil
}

// sortByCreatedAt orders newest first, then by slug for a stable order on
// identical timestamps.
func sortByCreatedAt(docs []*models.Document) {
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].CreatedAt.After(docs[j].CreatedAt)
		}
		return docs[i].Slug < docs[j].Slug
	})
}

func clone(doc *models.Document) *models.Document {
	copied := *doc
	if doc.ActiveVersionID != nil {
		activeID := *doc.ActiveVersionID
		copied.ActiveVersionID = &activeID
	}
	copied.AudienceRoles = append([]string(nil), doc.AudienceRoles...)
	copied.EditorRoles = append([]string(nil), doc.EditorRoles...)
	copied.Tags = append([]string(nil), doc.Tags...)
	return &copied
}
