// Package metrics exposes Prometheus counters for the triage workflow.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the service collectors on a dedicated registry
type Metrics struct {
	registry *prometheus.Registry

	RequestsSubmitted *prometheus.CounterVec
	StatusChanges     *prometheus.CounterVec
	IntakeProcessed   *prometheus.CounterVec
	FeedClients       prometheus.Gauge
	HTTPRequests      *prometheus.CounterVec
}

// New creates and registers all collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "suraksha",
			Name:      "requests_submitted_total",
			Help:      "Verification requests submitted, by initial status.",
		}, []string{"status"}),
		StatusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "suraksha",
			Name:      "request_status_changes_total",
			Help:      "Operator status changes, by target status.",
		}, []string{"status"}),
		IntakeProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "suraksha",
			Name:      "intake_processed_total",
			Help:      "Reports processed by the intake endpoints, by kind.",
		}, []string{"kind"}),
		FeedClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "suraksha",
			Name:      "feed_clients",
			Help:      "Connected live feed websocket clients.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "suraksha",
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by method and status code.",
		}, []string{"method", "code"}),
	}

	m.registry.MustRegister(
		m.RequestsSubmitted,
		m.StatusChanges,
		m.IntakeProcessed,
		m.FeedClients,
		m.HTTPRequests,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
