package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the moderation queue. A nil *Metrics
// is a no-op so services can run without a registry in tests.
type Metrics struct {
	SubmissionsCreated prometheus.Counter
	StatusUpdates      prometheus.Counter
	ActionsRecorded    *prometheus.CounterVec
}

// New creates and registers all moderation metrics.
func New() *Metrics {
	return &Metrics{
		SubmissionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gavel_moderation_submissions_created_total",
			Help: "Total submissions registered for review.",
		}),
		StatusUpdates: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gavel_moderation_status_updates_total",
			Help: "Total submission status update operations.",
		}),
		ActionsRecorded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "gavel_moderation_actions_total",
			Help: "Total moderation actions recorded by type.",
		}, []string{"action"}),
	}
}

func (m *Metrics) IncSubmissionsCreated() {
	if m == nil {
		return
	}
	m.SubmissionsCreated.Inc()
}

func (m *Metrics) IncStatusUpdates() {
	if m == nil {
		return
	}
	m.StatusUpdates.Inc()
}

func (m *Metrics) IncActionsRecorded(action string) {
	if m == nil {
		return
	}
	m.ActionsRecorded.WithLabelValues(action).Inc()
}
