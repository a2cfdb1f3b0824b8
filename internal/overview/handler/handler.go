// Package handler exposes the governance overview over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"gavel/internal/overview"
	"gavel/internal/platform/metrics"
	"gavel/internal/platform/middleware"
	"gavel/internal/transport/http/shared"
	dErrors "gavel/pkg/domain-errors"
)

// Service defines the interface for overview reports.
type Service interface {
	GetOverview(ctx context.Context, params overview.Params) (*overview.Report, error)
}

// Handler handles overview endpoints.
type Handler struct {
	logger    *slog.Logger
	overview  Service
	metrics   *metrics.Metrics
	validator middleware.ActorValidator
}

// New creates a new overview Handler.
func New(service Service, logger *slog.Logger, m *metrics.Metrics, validator middleware.ActorValidator) *Handler {
	return &Handler{
		logger:    logger,
		overview:  service,
		metrics:   m,
		validator: validator,
	}
}

// Register registers the overview routes with the chi router.
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

	router.Get("/", h.handleGetOverview)

	// Mounted under a domain prefix so every handler can share one parent mux.
	r.Mount("/overview", router)
}

func (h *Handler) handleGetOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	params := overview.Params{
		LookbackDays:     intQuery(q.Get("lookback_days")),
		QueueLimit:       intQuery(q.Get("queue_limit")),
		PublicationLimit: intQuery(q.Get("publication_limit")),
		TimelineLimit:    intQuery(q.Get("timeline_limit")),
	}

	report, err := h.overview.GetOverview(ctx, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build overview",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to build overview"))
		return
	}
	shared.WriteJSON(w, http.StatusOK, report)
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
