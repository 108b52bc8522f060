package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetrics records outgoing API gateway calls.
type RequestMetrics struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
	failures *prometheus.CounterVec
	logouts  prometheus.Counter
}

// NewRequestMetrics registers the gateway metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewRequestMetrics(reg prometheus.Registerer) *RequestMetrics {
	if reg == nil {
		return &RequestMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_api_request_duration_seconds",
		Help:    "Duration of backend API requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_api_requests_total",
		Help: "Backend API requests by method and status code.",
	}, []string{"method", "code"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_api_transport_failures_total",
		Help: "Backend API requests that failed before a response arrived.",
	}, []string{"method"})
	logouts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "storefront_forced_logouts_total",
		Help: "Sessions cleared after an unauthorized response.",
	})
	reg.MustRegister(duration, total, failures, logouts)
	return &RequestMetrics{
		duration: duration,
		total:    total,
		failures: failures,
		logouts:  logouts,
	}
}

// ObserveResponse records a completed request.
func (m *RequestMetrics) ObserveResponse(method string, status int, d time.Duration) {
	if m == nil || m.total == nil {
		return
	}
	m.duration.WithLabelValues(method).Observe(d.Seconds())
	m.total.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// ObserveFailure records a transport failure.
func (m *RequestMetrics) ObserveFailure(method string, d time.Duration) {
	if m == nil || m.failures == nil {
		return
	}
	m.duration.WithLabelValues(method).Observe(d.Seconds())
	m.failures.WithLabelValues(method).Inc()
}

// IncForcedLogout counts a session cleared by a 401.
func (m *RequestMetrics) IncForcedLogout() {
	if m == nil || m.logouts == nil {
		return
	}
	m.logouts.Inc()
}

// WriteTextfile dumps everything gathered by g in the node-exporter textfile
// format. An empty path is a no-op.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
