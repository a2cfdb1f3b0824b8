// Package handler exposes the legal document lifecycle over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"gavel/internal/platform/metrics"
	"gavel/internal/platform/middleware"
	policyModel "gavel/internal/policy/models"
	policyService "gavel/internal/policy/service"
	"gavel/internal/transport/http/shared"
	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
)

// Service defines the interface for legal document operations.
type Service interface {
	CreateDocument(ctx context.Context, input policyModel.CreateDocument, actorID string) (*policyService.DocumentDetail, error)
	UpdateDocument(ctx context.Context, documentID id.DocumentID, patch policyModel.UpdateDocument, actorID string) (*policyModel.Document, error)
	CreateVersion(ctx context.Context, documentID id.DocumentID, input policyModel.VersionInput, actorID string) (*policyModel.Version, error)
	UpdateVersion(ctx context.Context, versionID id.VersionID, patch policyModel.VersionUpdate, actorID string) (*policyModel.Version, error)
	PublishVersion(ctx context.Context, versionID id.VersionID, input policyModel.PublishInput, actorID string) (*policyModel.Version, error)
	ActivateVersion(ctx context.Context, versionID id.VersionID, actorID string) (*policyService.DocumentDetail, error)
	ArchiveVersion(ctx context.Context, versionID id.VersionID, input policyModel.ArchiveInput, actorID string) (*policyModel.Version, error)
	ListDocuments(ctx context.Context, filter policyModel.DocumentFilter) ([]policyService.DocumentWithVersions, error)
	GetDocument(ctx context.Context, ref string, opts policyModel.GetOptions) (*policyService.DocumentDetail, error)
}

// Handler handles legal document endpoints.
type Handler struct {
	logger    *slog.Logger
	policy    Service
	metrics   *metrics.Metrics
	validator middleware.ActorValidator
}

// New creates a new policy Handler.
func New(policy Service, logger *slog.Logger, m *metrics.Metrics, validator middleware.ActorValidator) *Handler {
	return &Handler{
		logger:    logger,
		policy:    policy,
		metrics:   m,
		validator: validator,
	}
}

// Register registers the policy routes with the chi router.
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

	router.Post("/documents", h.handleCreateDocument)
	router.Get("/documents", h.handleListDocuments)
	router.Get("/documents/{documentID}", h.handleGetDocument)
	router.Patch("/documents/{documentID}", h.handleUpdateDocument)
	router.Post("/documents/{documentID}/versions", h.handleCreateVersion)
	router.Patch("/versions/{versionID}", h.handleUpdateVersion)
	router.Post("/versions/{versionID}/publish", h.handlePublishVersion)
	router.Post("/versions/{versionID}/activate", h.handleActivateVersion)
	router.Post("/versions/{versionID}/archive", h.handleArchiveVersion)

	// Mounted under a domain prefix so every handler can share one parent mux.
	r.Mount("/policies", router)
}

func (h *Handler) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input policyModel.CreateDocument
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	detail, err := h.policy.CreateDocument(ctx, input, middleware.GetActorID(ctx))
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to create document")
		return
	}
	shared.WriteJSON(w, http.StatusCreated, detail)
}

func (h *Handler) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	filter := policyModel.DocumentFilter{
		Category:        q.Get("category"),
		Status:          q.Get("status"),
		IncludeVersions: q.Get("include_versions") == "true",
		Locale:          q.Get("locale"),
	}

	documents, err := h.policy.ListDocuments(ctx, filter)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to list documents")
		return
	}
	shared.WriteJSON(w, http.StatusOK, documents)
}

func (h *Handler) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	opts := policyModel.GetOptions{
		IncludeVersions: q.Get("include_versions") != "false",
		IncludeAudit:    q.Get("include_audit") == "true",
		Locale:          q.Get("locale"),
	}

	// The path segment accepts either a document id or a slug.
	detail, err := h.policy.GetDocument(ctx, chi.URLParam(r, "documentID"), opts)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to load document")
		return
	}
	shared.WriteJSON(w, http.StatusOK, detail)
}

func (h *Handler) handleUpdateDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	documentID, ok := h.documentID(w, r)
	if !ok {
		return
	}

	var patch policyModel.UpdateDocument
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	document, err := h.policy.UpdateDocument(ctx, documentID, patch, middleware.GetActorID(ctx))
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to update document")
		return
	}
	shared.WriteJSON(w, http.StatusOK, document)
}

func (h *Handler) handleCreateVersion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	documentID, ok := h.documentID(w, r)
	if !ok {
		return
	}

	var input policyModel.VersionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	version, err := h.policy.CreateVersion(ctx, documentID, input, middleware.GetActorID(ctx))
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to create version")
		return
	}
	shared.WriteJSON(w, http.StatusCreated, version)
}

func (h *Handler) handleUpdateVersion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	versionID, ok := h.versionID(w, r)
	if !ok {
		return
	}

	var patch policyModel.VersionUpdate
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	version, err := h.policy.UpdateVersion(ctx, versionID, patch, middleware.GetActorID(ctx))
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to update version")
		return
	}
	shared.WriteJSON(w, http.StatusOK, version)
}

func (h *Handler) handlePublishVersion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	versionID, ok := h.versionID(w, r)
	if !ok {
		return
	}

	var input policyModel.PublishInput
	if !h.decodeOptional(w, r, &input) {
		return
	}

	version, err := h.policy.PublishVersion(ctx, versionID, input, middleware.GetActorID(ctx))
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to publish version")
		return
	}
	shared.WriteJSON(w, http.StatusOK, version)
}

func (h *Handler) handleActivateVersion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	versionID, ok := h.versionID(w, r)
	if !ok {
		return
	}

	detail, err := h.policy.ActivateVersion(ctx, versionID, middleware.GetActorID(ctx))
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to activate version")
		return
	}
	shared.WriteJSON(w, http.StatusOK, detail)
}

func (h *Handler) handleArchiveVersion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	versionID, ok := h.versionID(w, r)
	if !ok {
		return
	}

	var input policyModel.ArchiveInput
	if !h.decodeOptional(w, r, &input) {
		return
	}

	version, err := h.policy.ArchiveVersion(ctx, versionID, input, middleware.GetActorID(ctx))
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to archive version")
		return
	}
	shared.WriteJSON(w, http.StatusOK, version)
}

// decodeOptional reads an optional JSON body; an absent body leaves v zeroed.
func (h *Handler) decodeOptional(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
	return false
}

func (h *Handler) documentID(w http.ResponseWriter, r *http.Request) (id.DocumentID, bool) {
	documentID, err := id.ParseDocumentID(chi.URLParam(r, "documentID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid document id"))
		return id.DocumentID{}, false
	}
	return documentID, true
}

func (h *Handler) versionID(w http.ResponseWriter, r *http.Request) (id.VersionID, bool) {
	versionID, err := id.ParseVersionID(chi.URLParam(r, "versionID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid version id"))
		return id.VersionID{}, false
	}
	return versionID, true
}

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
