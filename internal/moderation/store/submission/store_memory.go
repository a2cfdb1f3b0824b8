package submission

import (
	"context"
	"sort"
	"strings"
	"sync"

	"gavel/internal/moderation/models"
	id "gavel/pkg/domain"
	"gavel/pkg/platform/sentinel"
)

// InMemory keeps submissions in a map guarded by a RWMutex. Used by unit
// tests and local development.
type InMemory struct {
	mu          sync.RWMutex
	submissions map[id.SubmissionID]*models.Submission
}

func NewInMemory() *InMemory {
	return &InMemory{submissions: make(map[id.SubmissionID]*models.Submission)}
}

func (s *InMemory) Create(_ context.Context, submission *models.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.submissions[submission.ID]; exists {
		return sentinel.ErrConflict
	}
	s.submissions[submission.ID] = clone(submission)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, submissionID id.SubmissionID) (*models.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	submission, ok := s.submissions[submissionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(submission), nil
}

func (s *InMemory) FindByIDs(_ context.Context, ids []id.SubmissionID) (map[id.SubmissionID]*models.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	found := make(map[id.SubmissionID]*models.Submission, len(ids))
	for _, submissionID := range ids {
		if submission, ok := s.submissions[submissionID]; ok {
			found[submissionID] = clone(submission)
		}
	}
	return found, nil
}

func (s *InMemory) List(_ context.Context, filter models.ListFilter) ([]*models.Submission, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*models.Submission
	for _, submission := range s.submissions {
		if matches(submission, filter) {
			matched = append(matched, clone(submission))
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].RankBefore(matched[j])
	})

	total := len(matched)
	start := (filter.Page - 1) * filter.PageSize
	if start >= total {
		return nil, total, nil
	}
	end := start + filter.PageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (s *InMemory) Summarize(_ context.Context, filter models.ListFilter) (models.QueueSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var summary models.QueueSummary
	for _, submission := range s.submissions {
		if !matches(submission, filter) {
			continue
		}
		summary.Total++
		if submission.AwaitingReview() {
			summary.AwaitingReview++
		}
		if submission.HighSeverity() {
			summary.HighSeverity++
		}
		if submission.Priority == models.PriorityUrgent {
			summary.Urgent++
		}
	}
	return summary, nil
}

func (s *InMemory) Execute(_ context.Context, submissionID id.SubmissionID, validate func(*models.Submission) error, mutate func(*models.Submission)) (*models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	submission, ok := s.submissions[submissionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if validate != nil {
		if err := validate(submission); err != nil {
			return nil, err
		}
	}
	mutate(submission)
	return clone(submission), nil
}

func matches(submission *models.Submission, filter models.ListFilter) bool {
	if filter.Status != "" && submission.Status != models.Status(filter.Status) {
		return false
	}
	if filter.Priority != "" && submission.Priority != models.Priority(filter.Priority) {
		return false
	}
	if filter.Severity != "" && submission.Severity != models.Severity(filter.Severity) {
		return false
	}
	if filter.Region != "" && submission.Region != filter.Region {
		return false
	}
	if filter.AssignedTeam != "" {
		if submission.AssignedTeam == nil || *submission.AssignedTeam != filter.AssignedTeam {
			return false
		}
	}
	if filter.AssignedReviewerID != "" {
		if submission.AssignedReviewerID == nil || *submission.AssignedReviewerID != filter.AssignedReviewerID {
			return false
		}
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(submission.Title), needle) &&
			!strings.Contains(strings.ToLower(submission.Summary), needle) &&
			!strings.Contains(strings.ToLower(submission.ReferenceID), needle) {
			return false
		}
	}
	return true
}

func clone(submission *models.Submission) *models.Submission {
	copied := *submission
	if submission.Metadata != nil {
		copied.Metadata = make(map[string]any, len(submission.Metadata))
		for k, v := range submission.Metadata {
			copied.Metadata[k] = v
		}
	}
	return &copied
}
