package graphql

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request outcomes recorded in metrics.
const (
	OutcomeOK           = "ok"
	OutcomeNetworkError = "network_error"
	OutcomeServerError  = "server_error"
)

// Metrics collects client-side request metrics in its own registry so they
// can be written to a node-exporter textfile at the end of a command.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	waits    prometheus.Histogram
}

// NewMetrics registers the client metrics in a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bookcat_graphql_requests_total",
			Help: "Total number of GraphQL requests by operation and outcome",
		}, []string{"operation", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bookcat_graphql_request_duration_seconds",
			Help:    "Duration of GraphQL requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		waits: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "bookcat_graphql_rate_limit_wait_seconds",
			Help:    "Time spent waiting on the client rate limiter",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// WriteTextfile writes every metric to path in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) observe(operation, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(operation, outcome).Inc()
	m.duration.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *Metrics) observeWait(d time.Duration) {
	if m == nil {
		return
	}
	m.waits.Observe(d.Seconds())
}
