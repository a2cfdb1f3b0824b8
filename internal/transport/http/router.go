// Package httptransport assembles the public HTTP surface of the governance
// service. Business logic lives in the domain services; this layer only
// mounts handlers and operational endpoints.
package httptransport

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gavel/internal/transport/http/shared"
)

// Registrar is implemented by each domain handler.
type Registrar interface {
	Register(r chi.Router)
}

// HealthChecker reports readiness of a backing dependency.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Deps carries everything the router mounts.
type Deps struct {
	Moderation Registrar
	Policy     Registrar
	Overview   Registrar
	// Checks maps a dependency name to its health probe. Nil checkers are
	// skipped so optional backends (redis) can be absent.
	Checks map[string]HealthChecker
}

// NewRouter wires all public endpoints plus /healthz and /metrics.
func NewRouter(deps Deps) http.Handler {
	router := chi.NewRouter()

	router.Get("/healthz", handleHealth(deps.Checks))
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	for _, registrar := range []Registrar{deps.Moderation, deps.Policy, deps.Overview} {
		if registrar != nil {
			registrar.Register(router)
		}
	}
	return router
}

func handleHealth(checks map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := map[string]string{}
		healthy := true
		for name, check := range checks {
			if check == nil {
				continue
			}
			if err := check.Health(ctx); err != nil {
				status[name] = "unavailable"
				healthy = false
				continue
			}
			status[name] = "ok"
		}

		code := http.StatusOK
		overall := "ok"
		if !healthy {
			code = http.StatusServiceUnavailable
			overall = "degraded"
		}
		shared.WriteJSON(w, code, map[string]any{
			"status": overall,
			"checks": status,
		})
	}
}
