package models

import (
	"time"

	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
)

// ActionType names one governance decision taken on a submission.
type ActionType string

const (
	ActionAssign         ActionType = "assign"
	ActionApprove        ActionType = "approve"
	ActionReject         ActionType = "reject"
	ActionEscalate       ActionType = "escalate"
	ActionRequestChanges ActionType = "request_changes"
	ActionRestore        ActionType = "restore"
	ActionSuspend        ActionType = "suspend"
	ActionAddNote        ActionType = "add_note"
)

var validActions = map[ActionType]bool{
	ActionAssign:         true,
	ActionApprove:        true,
	ActionReject:         true,
	ActionEscalate:       true,
	ActionRequestChanges: true,
	ActionRestore:        true,
	ActionSuspend:        true,
	ActionAddNote:        true,
}

// ParseActionType validates a raw action value against the closed set.
func ParseActionType(raw string) (ActionType, error) {
	a := ActionType(raw)
	if !validActions[a] {
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown action %q", raw)
	}
	return a, nil
}

// statusActions maps terminal status transitions to the action type recorded
// alongside them. Statuses outside this map produce no action on their own.
var statusActions = map[Status]ActionType{
	StatusApproved:     ActionApprove,
	StatusRejected:     ActionReject,
	StatusNeedsChanges: ActionRequestChanges,
}

// ActionForStatus returns the action logged for a status transition, if any.
func ActionForStatus(status Status) (ActionType, bool) {
	action, ok := statusActions[status]
	return action, ok
}

// Action is an immutable record of one governance decision on a submission.
// Created, never updated or deleted; owned by its submission.
type Action struct {
	ID                id.ActionID     `json:"id"`
	SubmissionID      id.SubmissionID `json:"submission_id"`
	ActorID           string          `json:"actor_id"`
	ActorType         string          `json:"actor_type,omitempty"`
	Action            ActionType      `json:"action"`
	Severity          Severity        `json:"severity"`
	RiskScore         float64         `json:"risk_score"`
	Reason            string          `json:"reason,omitempty"`
	GuidanceLink      string          `json:"guidance_link,omitempty"`
	ResolutionSummary string          `json:"resolution_summary,omitempty"`
	Metadata          map[string]any  `json:"metadata,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}
