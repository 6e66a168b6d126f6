package loadgen

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exports the generator's own view of the run
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	replays  prometheus.Counter
}

// NewMetrics creates collectors on a private registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "livesale",
			Subsystem: "loadgen",
			Name:      "requests_total",
			Help:      "Requests sent by the load generator.",
		}, []string{"op", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "livesale",
			Subsystem: "loadgen",
			Name:      "request_duration_seconds",
			Help:      "Round trip time of load generator requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		replays: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "livesale",
			Subsystem: "loadgen",
			Name:      "idempotent_replays_total",
			Help:      "Retried sales answered from the idempotency store.",
		}),
	}
	m.registry.MustRegister(m.requests, m.duration, m.replays)
	return m
}

// Observe records one request. Status 0 means a transport error.
func (m *Metrics) Observe(op string, status int, replayed bool, elapsed time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(op, label).Inc()
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
	if replayed {
		m.replays.Inc()
	}
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
