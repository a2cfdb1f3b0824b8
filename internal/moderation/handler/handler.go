// Package handler exposes the moderation queue over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	moderationModel "gavel/internal/moderation/models"
	moderationService "gavel/internal/moderation/service"
	"gavel/internal/platform/metrics"
	"gavel/internal/platform/middleware"
	"gavel/internal/transport/http/shared"
	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
)

// Service defines the interface for moderation queue operations.
type Service interface {
	CreateSubmission(ctx context.Context, input moderationModel.CreateSubmission) (*moderationModel.Submission, error)
	ListSubmissions(ctx context.Context, filter moderationModel.ListFilter) (*moderationModel.QueuePage, error)
	GetSubmission(ctx context.Context, submissionID id.SubmissionID) (*moderationService.SubmissionDetail, error)
	UpdateStatus(ctx context.Context, submissionID id.SubmissionID, patch moderationModel.StatusUpdate, actorID string) (*moderationModel.Submission, error)
	Assign(ctx context.Context, submissionID id.SubmissionID, assignment moderationModel.Assignment, actorID string) (*moderationModel.Submission, error)
	RecordAction(ctx context.Context, submissionID id.SubmissionID, input moderationModel.ActionInput, actorID string) (*moderationService.ActionRecord, error)
	ListActions(ctx context.Context, submissionID id.SubmissionID) ([]*moderationModel.Action, error)
}

// Handler handles moderation queue endpoints.
type Handler struct {
	logger     *slog.Logger
	moderation Service
	metrics    *metrics.Metrics
	validator  middleware.ActorValidator
}

// New creates a new moderation Handler.
func New(moderation Service, logger *slog.Logger, m *metrics.Metrics, validator middleware.ActorValidator) *Handler {
	return &Handler{
		logger:     logger,
		moderation: moderation,
		metrics:    m,
		validator:  validator,
	}
}

// Register registers the moderation routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestTime)
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.ContentTypeJSON)
	router.Use(middleware.LatencyMiddleware(h.metrics))
	router.Use(middleware.RequireActor(h.validator, h.logger))

	router.Post("/submissions", h.handleCreateSubmission)
	router.Get("/submissions", h.handleListSubmissions)
	router.Get("/submissions/{submissionID}", h.handleGetSubmission)
	router.Patch("/submissions/{submissionID}", h.handleUpdateStatus)
	router.Put("/submissions/{submissionID}/assignment", h.handleAssign)
	router.Post("/submissions/{submissionID}/actions", h.handleRecordAction)
	router.Get("/submissions/{submissionID}/actions", h.handleListActions)

	// Mounted under a domain prefix so every handler can share one parent mux.
	r.Mount("/moderation", router)
}

func (h *Handler) handleCreateSubmission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input moderationModel.CreateSubmission
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	submission, err := h.moderation.CreateSubmission(ctx, input)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to create submission")
		return
	}
	shared.WriteJSON(w, http.StatusCreated, submission)
}

func (h *Handler) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	filter := moderationModel.ListFilter{
		Status:             q.Get("status"),
		Priority:           q.Get("priority"),
		Severity:           q.Get("severity"),
		AssignedTeam:       q.Get("team"),
		AssignedReviewerID: q.Get("reviewer"),
		Region:             q.Get("region"),
		Search:             q.Get("search"),
		Page:               intQuery(q.Get("page")),
		PageSize:           intQuery(q.Get("page_size")),
	}

	page, err := h.moderation.ListSubmissions(ctx, filter)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to list submissions")
		return
	}
	shared.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) handleGetSubmission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	submissionID, ok := h.submissionID(w, r)
	if !ok {
		return
	}

	detail, err := h.moderation.GetSubmission(ctx, submissionID)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to load submission")
		return
	}
	shared.WriteJSON(w, http.StatusOK, detail)
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	submissionID, ok := h.submissionID(w, r)
	if !ok {
		return
	}

	var patch moderationModel.StatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	submission, err := h.moderation.UpdateStatus(ctx, submissionID, patch, middleware.GetActorID(ctx))
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to update submission")
		return
	}
	shared.WriteJSON(w, http.StatusOK, submission)
}

func (h *Handler) handleAssign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	submissionID, ok := h.submissionID(w, r)
	if !ok {
		return
	}

	var assignment moderationModel.Assignment
	if err := json.NewDecoder(r.Body).Decode(&assignment); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	submission, err := h.moderation.Assign(ctx, submissionID, assignment, middleware.GetActorID(ctx))
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to assign submission")
		return
	}
	shared.WriteJSON(w, http.StatusOK, submission)
}

func (h *Handler) handleRecordAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	submissionID, ok := h.submissionID(w, r)
	if !ok {
		return
	}

	var input moderationModel.ActionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	record, err := h.moderation.RecordAction(ctx, submissionID, input, middleware.GetActorID(ctx))
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to record action")
		return
	}
	shared.WriteJSON(w, http.StatusCreated, record)
}

func (h *Handler) handleListActions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	submissionID, ok := h.submissionID(w, r)
	if !ok {
		return
	}

	actions, err := h.moderation.ListActions(ctx, submissionID)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to list actions")
		return
	}
	shared.WriteJSON(w, http.StatusOK, actions)
}

func (h *Handler) submissionID(w http.ResponseWriter, r *http.Request) (id.SubmissionID, bool) {
	raw := chi.URLParam(r, "submissionID")
	submissionID, err := id.ParseSubmissionID(raw)
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid submission id"))
		return id.SubmissionID{}, false
	}
	return submissionID, true
}

// writeServiceError passes coded client errors through and masks everything
// else as internal.
func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	if dErrors.HasCode(err, dErrors.CodeValidation) ||
		dErrors.HasCode(err, dErrors.CodeBadRequest) ||
		dErrors.HasCode(err, dErrors.CodeNotFound) ||
		dErrors.HasCode(err, dErrors.CodeConflict) {
		shared.WriteError(w, err)
		return
	}
	h.logger.ErrorContext(ctx, msg,
		"request_id", middleware.GetRequestID(ctx),
		"error", err.Error(),
	)
	shared.WriteError(w, dErrors.New(dErrors.CodeInternal, msg))
}

func intQuery(raw string) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
