// Package audit persists the append-only document audit log.
package audit

import (
	"context"
	"sort"
	"sync"
	"time"

	"gavel/internal/policy/models"
	id "gavel/pkg/domain"
)

// InMemory is a slice-backed audit store for tests and local development.
type InMemory struct {
	mu     sync.RWMutex
	events []*models.AuditEvent
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) Append(_ context.Context, event *models.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *event
	s.events = append(s.events, &copied)
	return nil
}

func (s *InMemory) ListByDocument(_ context.Context, documentID id.DocumentID) ([]*models.AuditEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.AuditEvent
	for _, event := range s.events {
		if event.DocumentID == documentID {
			copied := *event
			result = append(result, &copied)
		}
	}
	sortNewestFirst(result)
	return result, nil
}

func (s *InMemory) ListSince(_ context.Context, since time.Time, limit int) ([]*models.AuditEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.AuditEvent
	for _, event := range s.events {
		if event.CreatedAt.Before(since) {
			continue
		}
		copied := *event
		result = append(result, &copied)
	}
	sortNewestFirst(result)
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func sortNewestFirst(events []*models.AuditEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
}
