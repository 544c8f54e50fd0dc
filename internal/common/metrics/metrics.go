// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GenerationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sahachari_generation_requests_total",
			Help: "Total number of content generation requests by outcome",
		},
		[]string{"content_kind", "status"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sahachari_generation_duration_seconds",
			Help:    "Duration of content generation requests in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 80, 120},
		},
		[]string{"content_kind"},
	)

	GenerationsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sahachari_generations_active",
			Help: "Number of in-flight generation requests per content kind",
		},
		[]string{"content_kind"},
	)

	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sahachari_upstream_requests_total",
			Help: "Total number of calls to external AI and speech providers",
		},
		[]string{"provider", "code"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sahachari_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)
)

// Tracker measures one generation request. Call Done exactly once.
type Tracker struct {
	kind  string
	timer *prometheus.Timer
}

// Track marks a generation of the given kind as in flight.
func Track(kind string) *Tracker {
	GenerationsActive.WithLabelValues(kind).Inc()
	return &Tracker{
		kind:  kind,
		timer: prometheus.NewTimer(GenerationDuration.WithLabelValues(kind)),
	}
}

// Done records the outcome. status is "success" or an error code.
func (t *Tracker) Done(status string) {
	t.timer.ObserveDuration()
	GenerationsActive.WithLabelValues(t.kind).Dec()
	GenerationRequests.WithLabelValues(t.kind, status).Inc()
}
