package models

// ListFilter narrows the queue listing. Zero values mean "no filter".
// Search matches title, summary, and referenceId case-insensitively.
type ListFilter struct {
	Status             string `json:"status,omitempty"`
	Priority           string `json:"priority,omitempty"`
	Severity           string `json:"severity,omitempty"`
	AssignedTeam       string `json:"assigned_team,omitempty"`
	AssignedReviewerID string `json:"assigned_reviewer_id,omitempty"`
	Region             string `json:"region,omitempty"`
	Search             string `json:"search,omitempty"`
	Page               int    `json:"page"`
	PageSize           int    `json:"page_size"`
}

// QueueSummary aggregates counts over the same filtered predicate the queue
// listing uses, never the full table.
type QueueSummary struct {
	Total          int `json:"total"`
	AwaitingReview int `json:"awaiting_review"`
	HighSeverity   int `json:"high_severity"`
	Urgent         int `json:"urgent"`
}

// Pagination describes one page of the queue listing.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// QueuePage is the full listing result: ranked items plus predicate-scoped
// summary counts.
type QueuePage struct {
	Items      []*Submission `json:"items"`
	Pagination Pagination    `json:"pagination"`
	Summary    QueueSummary  `json:"summary"`
}

// StatusUpdate is a partial submission update. Raw string fields are
// validated against their closed enums by the service; nil means "leave
// unchanged". A patch with no recognized fields is a no-op and produces no
// audit entry.
type StatusUpdate struct {
	Status             *string        `json:"status,omitempty"`
	Priority           *string        `json:"priority,omitempty"`
	Severity           *string        `json:"severity,omitempty"`
	RiskScore          *float64       `json:"risk_score,omitempty"`
	AssignedReviewerID *string        `json:"assigned_reviewer_id,omitempty"`
	AssignedTeam       *string        `json:"assigned_team,omitempty"`
	RejectionReason    *string        `json:"rejection_reason,omitempty"`
	ResolutionNotes    *string        `json:"resolution_notes,omitempty"`
	Metadata           map[string]any `json:"metadata,omitempty"`
}

// Empty reports whether the patch carries no recognized fields.
func (u StatusUpdate) Empty() bool {
	return u.Status == nil && u.Priority == nil && u.Severity == nil &&
		u.RiskScore == nil && u.AssignedReviewerID == nil && u.AssignedTeam == nil &&
		u.RejectionReason == nil && u.ResolutionNotes == nil && len(u.Metadata) == 0
}

// Assignment sets (or clears) the reviewer and team for a submission.
// Nil fields are explicit clears: a degenerate assignment with both fields
// nil still logs an assign action.
type Assignment struct {
	ReviewerID *string `json:"reviewer_id"`
	Team       *string `json:"team"`
}

// ActionInput records a moderation action and optionally patches the
// submission in the same operation.
type ActionInput struct {
	Action            string         `json:"action"`
	Reason            string         `json:"reason,omitempty"`
	GuidanceLink      string         `json:"guidance_link,omitempty"`
	ResolutionSummary string         `json:"resolution_summary,omitempty"`
	Metadata          map[string]any `json:"metadata,omitempty"`

	// Optional submission patch applied atomically with the action.
	Status     *string  `json:"status,omitempty"`
	Priority   *string  `json:"priority,omitempty"`
	Severity   *string  `json:"severity,omitempty"`
	RiskScore  *float64 `json:"risk_score,omitempty"`
	SLAMinutes *int     `json:"sla_minutes,omitempty"`
}

// CreateSubmission is the intake payload for new submissions.
type CreateSubmission struct {
	ReferenceID   string         `json:"reference_id"`
	ReferenceType string         `json:"reference_type"`
	Title         string         `json:"title"`
	Summary       string         `json:"summary,omitempty"`
	Region        string         `json:"region,omitempty"`
	Priority      *string        `json:"priority,omitempty"`
	Severity      *string        `json:"severity,omitempty"`
	RiskScore     *float64       `json:"risk_score,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}
