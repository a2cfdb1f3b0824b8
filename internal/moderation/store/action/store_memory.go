package action

import (
	"context"
	"sort"
	"sync"
	"time"

	"gavel/internal/moderation/models"
	id "gavel/pkg/domain"
)

// InMemory keeps the action log in memory, append-only.
type InMemory struct {
	mu      sync.RWMutex
	actions []*models.Action
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) Append(_ context.Context, action *models.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *action
	s.actions = append(s.actions, &copied)
	return nil
}

func (s *InMemory) ListBySubmission(_ context.Context, submissionID id.SubmissionID) ([]*models.Action, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*models.Action
	for _, action := range s.actions {
		if action.SubmissionID == submissionID {
			copied := *action
			matched = append(matched, &copied)
		}
	}
	sortNewestFirst(matched)
	return matched, nil
}

func (s *InMemory) ListSince(_ context.Context, since time.Time, limit int) ([]*models.Action, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*models.Action
	for _, action := range s.actions {
		if !action.CreatedAt.Before(since) {
			copied := *action
			matched = append(matched, &copied)
		}
	}
	sortNewestFirst(matched)
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func sortNewestFirst(actions []*models.Action) {
	sort.SliceStable(actions, func(i, j int) bool {
		return actions[i].CreatedAt.After(actions[j].CreatedAt)
	})
}
