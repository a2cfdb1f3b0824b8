package models

import (
	"time"

	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
)

// Status is the review state of a submission. The set is closed; anything
// else is rejected at the boundary with a validation error.
type Status string

const (
	StatusPending      Status = "pending"
	StatusInReview     Status = "in_review"
	StatusApproved     Status = "approved"
	StatusRejected     Status = "rejected"
	StatusEscalated    Status = "escalated"
	StatusNeedsChanges Status = "needs_changes"
)

// Priority orders submissions in the review queue.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityStandard Priority = "standard"
	PriorityHigh     Priority = "high"
	PriorityUrgent   Priority = "urgent"
)

// Severity grades the potential harm of the submitted content.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// MaxRiskScore bounds the numeric risk score (NUMERIC(5,2) in the store).
const MaxRiskScore = 999.99

var validStatuses = map[Status]bool{
	StatusPending:      true,
	StatusInReview:     true,
	StatusApproved:     true,
	StatusRejected:     true,
	StatusEscalated:    true,
	StatusNeedsChanges: true,
}

var priorityWeights = map[Priority]int{
	PriorityUrgent:   4,
	PriorityHigh:     3,
	PriorityStandard: 2,
	PriorityLow:      1,
}

var severityWeights = map[Severity]int{
	SeverityCritical: 4,
	SeverityHigh:     3,
	SeverityMedium:   2,
	SeverityLow:      1,
}

// ParseStatus validates a raw status value against the closed set.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !validStatuses[s] {
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown status %q", raw)
	}
	return s, nil
}

// ParsePriority validates a raw priority value against the closed set.
func ParsePriority(raw string) (Priority, error) {
	p := Priority(raw)
	if _, ok := priorityWeights[p]; !ok {
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown priority %q", raw)
	}
	return p, nil
}

// ParseSeverity validates a raw severity value against the closed set.
func ParseSeverity(raw string) (Severity, error) {
	s := Severity(raw)
	if _, ok := severityWeights[s]; !ok {
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown severity %q", raw)
	}
	return s, nil
}

// ValidateRiskScore enforces the [0, MaxRiskScore] range.
func ValidateRiskScore(score float64) error {
	if score < 0 || score > MaxRiskScore {
		return dErrors.Newf(dErrors.CodeValidation, "riskScore must be between 0 and %.2f", MaxRiskScore)
	}
	return nil
}

// Weight returns the queue weight of a priority; unknown values weigh 0 so
// they sink to the back of the queue instead of failing the sort.
func (p Priority) Weight() int { return priorityWeights[p] }

// Weight returns the queue weight of a severity; unknown values weigh 0.
func (s Severity) Weight() int { return severityWeights[s] }

// Submission is a unit of user- or system-generated content awaiting review.
//
// Invariants:
//   - Status, Priority, Severity are always members of their closed enums
//   - LastActivityAt is refreshed on every mutating operation
//   - Submissions are never hard-deleted; lifecycle is status-only
type Submission struct {
	ID                 id.SubmissionID `json:"id"`
	ReferenceID        string          `json:"reference_id"`
	ReferenceType      string          `json:"reference_type"`
	Title              string          `json:"title"`
	Summary            string          `json:"summary,omitempty"`
	Region             string          `json:"region,omitempty"`
	Status             Status          `json:"status"`
	Priority           Priority        `json:"priority"`
	Severity           Severity        `json:"severity"`
	RiskScore          float64         `json:"risk_score"`
	AssignedReviewerID *string         `json:"assigned_reviewer_id,omitempty"`
	AssignedTeam       *string         `json:"assigned_team,omitempty"`
	SLAMinutes         *int            `json:"sla_minutes,omitempty"`
	Metadata           map[string]any  `json:"metadata,omitempty"`
	RejectionReason    *string         `json:"rejection_reason,omitempty"`
	ResolutionNotes    *string         `json:"resolution_notes,omitempty"`
	SubmittedAt        time.Time       `json:"submitted_at"`
	LastActivityAt     time.Time       `json:"last_activity_at"`
}

// NewSubmission constructs a pending submission with defaults applied.
func NewSubmission(referenceID, referenceType, title string, now time.Time) (*Submission, error) {
	if referenceID == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "referenceId is required")
	}
	if referenceType == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "referenceType is required")
	}
	if title == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "title is required")
	}
	return &Submission{
		ID:             id.NewSubmissionID(),
		ReferenceID:    referenceID,
		ReferenceType:  referenceType,
		Title:          title,
		Status:         StatusPending,
		Priority:       PriorityStandard,
		Severity:       SeverityLow,
		SubmittedAt:    now,
		LastActivityAt: now,
	}, nil
}

// Touch refreshes the activity timestamp. Every mutating operation calls this.
func (s *Submission) Touch(now time.Time) {
	s.LastActivityAt = now
}

// AwaitingReview reports whether the submission still needs a reviewer.
func (s *Submission) AwaitingReview() bool {
	return s.Status == StatusPending || s.Status == StatusInReview
}

// HighSeverity reports whether the submission is in the high-severity band.
func (s *Submission) HighSeverity() bool {
	return s.Severity == SeverityHigh || s.Severity == SeverityCritical
}

// RankBefore is the composite queue comparator: priority weight descending,
// then severity weight descending, then SubmittedAt ascending so equal
// urgency drains FIFO.
func (s *Submission) RankBefore(other *Submission) bool {
	if pw, ow := s.Priority.Weight(), other.Priority.Weight(); pw != ow {
		return pw > ow
	}
	if sw, ow := s.Severity.Weight(), other.Severity.Weight(); sw != ow {
		return sw > ow
	}
	return s.SubmittedAt.Before(other.SubmittedAt)
}
