package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the policy lifecycle. A nil *Metrics
// is a no-op so services can run without a registry in tests.
type Metrics struct {
	DocumentsCreated prometheus.Counter
	VersionsCreated  prometheus.Counter
	Transitions      *prometheus.CounterVec
	AuditWriteErrors prometheus.Counter
}

// New creates and registers all policy lifecycle metrics.
func New() *Metrics {
	return &Metrics{
		DocumentsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gavel_policy_documents_created_total",
			Help: "Total legal documents created.",
		}),
		VersionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gavel_policy_versions_created_total",
			Help: "Total document versions created.",
		}),
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "gavel_policy_transitions_total",
			Help: "Total version lifecycle transitions by kind.",
		}, []string{"transition"}),
		AuditWriteErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gavel_policy_audit_write_errors_total",
			Help: "Total document audit events dropped by the best-effort recorder.",
		}),
	}
}

func (m *Metrics) IncDocumentsCreated() {
	if m == nil {
		return
	}
	m.DocumentsCreated.Inc()
}

func (m *Metrics) IncVersionsCreated() {
	if m == nil {
		return
	}
	m.VersionsCreated.Inc()
}

func (m *Metrics) IncTransitions(transition string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(transition).Inc()
}

func (m *Metrics) IncAuditWriteErrors() {
	if m == nil {
		return
	}
	m.AuditWriteErrors.Inc()
}
