// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring a pforte front controller.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// LatencyBuckets defines histogram buckets for request handling latency,
// ranging from 1ms to 10s.
var LatencyBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10}

var (
	// RequestsTotal counts all HTTP requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pforte_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pforte_request_duration_seconds",
			Help:    "Request duration",
			Buckets: LatencyBuckets,
		},
		[]string{"method"},
	)

	// ResponseBytes records response body sizes.
	ResponseBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pforte_response_bytes",
			Help:    "Response body size",
			Buckets: prometheus.ExponentialBuckets(64, 4, 8),
		},
	)

	// SendFailuresTotal counts responses that could not be sent, by reason.
	SendFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pforte_send_failures_total",
			Help: "Response send failures",
		},
		[]string{"reason"},
	)

	// BodyDecodeFailuresTotal counts non-empty request bodies that were not
	// valid JSON and degraded to an empty body.
	BodyDecodeFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pforte_body_decode_failures_total",
			Help: "Request bodies that failed JSON decoding",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		ResponseBytes,
		SendFailuresTotal,
		BodyDecodeFailuresTotal,
	)
}

// Handler returns the HTTP handler that exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
