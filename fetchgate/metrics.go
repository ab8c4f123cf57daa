/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package fetchgate

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Request statuses reported to metrics collectors.
const (
	metricsStatusOK      = "ok"
	metricsStatusError   = "error"
	metricsStatusTimeout = "timeout"
)

// MetricsCollector is an interface for collecting metrics of the admission-control store.
type MetricsCollector interface {
	// ObserveActiveRequests reports the number of currently executing requests.
	ObserveActiveRequests(n int)

	// ObserveQueueLength reports the number of submissions waiting for a free slot.
	ObserveQueueLength(n int)

	// RequestDuration observes the duration of a settled request and its status ("ok", "error", "timeout").
	RequestDuration(status string, startTime time.Time)
}

// PrometheusMetricsCollector is a Prometheus metrics collector.
type PrometheusMetricsCollector struct {
	// ActiveRequests is a gauge of the requests being executed right now.
	ActiveRequests prometheus.Gauge

	// QueueLength is a gauge of the submissions waiting in the admission queue.
	QueueLength prometheus.Gauge

	// Durations is a histogram of the gated requests durations.
	Durations *prometheus.HistogramVec
}

// NewPrometheusMetricsCollector creates a new Prometheus metrics collector.
func NewPrometheusMetricsCollector(namespace string) *PrometheusMetricsCollector {
	return &PrometheusMetricsCollector{
		ActiveRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fetch_gate_active_requests",
			Help:      "A gauge of the requests being executed right now.",
		}),
		QueueLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fetch_gate_queue_length",
			Help:      "A gauge of the submissions waiting in the admission queue.",
		}),
		Durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_gate_request_duration_seconds",
			Help:      "A histogram of the gated requests durations.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 150, 300, 600},
		}, []string{"status"}),
	}
}

// MustRegister registers the Prometheus metrics.
func (p *PrometheusMetricsCollector) MustRegister() {
	prometheus.MustRegister(p.ActiveRequests, p.QueueLength, p.Durations)
}

// Unregister the Prometheus metrics.
func (p *PrometheusMetricsCollector) Unregister() {
	prometheus.Unregister(p.ActiveRequests)
	prometheus.Unregister(p.QueueLength)
	prometheus.Unregister(p.Durations)
}

// ObserveActiveRequests reports the number of currently executing requests.
func (p *PrometheusMetricsCollector) ObserveActiveRequests(n int) {
	p.ActiveRequests.Set(float64(n))
}

// ObserveQueueLength reports the number of submissions waiting for a free slot.
func (p *PrometheusMetricsCollector) ObserveQueueLength(n int) {
	p.QueueLength.Set(float64(n))
}

// RequestDuration observes the duration of a settled request and its status.
func (p *PrometheusMetricsCollector) RequestDuration(status string, startTime time.Time) {
	p.Durations.WithLabelValues(status).Observe(time.Since(startTime).Seconds())
}

type disabledMetricsCollector struct{}

func (disabledMetricsCollector) ObserveActiveRequests(int)         {}
func (disabledMetricsCollector) ObserveQueueLength(int)            {}
func (disabledMetricsCollector) RequestDuration(string, time.Time) {}
