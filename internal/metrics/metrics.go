// Package metrics exposes the Prometheus instrumentation surface for the
// gateway and worker processes, grounded in donor internal/api/router.go's
// promhttp wiring and the pack's CounterVec/HistogramVec conventions.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the collectors for one process. Built fresh per
// process (not package-level globals) so gateway and worker each carry
// their own registry and can be constructed independently in tests.
type Metrics struct {
	registry *prometheus.Registry

	WebhooksReceived   *prometheus.CounterVec
	WebhooksRejected   *prometheus.CounterVec
	TicketsProcessed   *prometheus.CounterVec
	AssignmentDuration prometheus.Histogram
	OracleRoundTrips   prometheus.Gauge
	DecisionsByType    *prometheus.CounterVec
	HumanReviewTotal   prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		WebhooksReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_webhooks_received_total",
			Help: "Total webhook deliveries accepted by the gateway, by event type.",
		}, []string{"event_type"}),
		WebhooksRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_webhooks_rejected_total",
			Help: "Total webhook deliveries rejected by the gateway, by reason.",
		}, []string{"reason"}),
		TicketsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_tickets_processed_total",
			Help: "Total tickets run through the assignment engine, by priority.",
		}, []string{"priority"}),
		AssignmentDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "triage_assignment_duration_seconds",
			Help:    "Wall-clock time spent in a single Engine.Assign call.",
			Buckets: prometheus.DefBuckets,
		}),
		OracleRoundTrips: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "triage_oracle_round_trips",
			Help: "Round trips the oracle made during the most recent Assign call.",
		}),
		DecisionsByType: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_decisions_total",
			Help: "Total assignment decisions emitted, by decision type.",
		}, []string{"type"}),
		HumanReviewTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "triage_human_review_total",
			Help: "Total decisions that fell below the confidence threshold and were escalated.",
		}),
	}

	reg.MustRegister(
		m.WebhooksReceived,
		m.WebhooksRejected,
		m.TicketsProcessed,
		m.AssignmentDuration,
		m.OracleRoundTrips,
		m.DecisionsByType,
		m.HumanReviewTotal,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
