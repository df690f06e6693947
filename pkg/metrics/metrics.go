// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// ConversationsTotal tracks total conversations created.
	ConversationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "conversations_total",
			Help: "Total conversations created",
		},
	)

	// MessagesTotal tracks total messages appended, by sender.
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_total",
			Help: "Total messages appended",
		},
		[]string{"sender"},
	)

	// GatewayDuration tracks completion gateway call duration.
	GatewayDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_duration_seconds",
			Help:    "Completion gateway call duration",
			Buckets: []float64{.25, .5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"provider", "status"},
	)

	// GatewayFailuresTotal tracks gateway failures by kind.
	GatewayFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_failures_total",
			Help: "Total completion gateway failures",
		},
		[]string{"provider", "kind"},
	)

	// SchoolQueriesTotal tracks school directory queries.
	SchoolQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "school_queries_total",
			Help: "Total school directory queries",
		},
		[]string{"kind"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordGateway records one completion gateway call.
func RecordGateway(provider, status string, duration float64) {
	GatewayDuration.WithLabelValues(provider, status).Observe(duration)
}

// RecordGatewayFailure records one gateway failure of the given kind
// ("timeout" or "error").
func RecordGatewayFailure(provider, kind string) {
	GatewayFailuresTotal.WithLabelValues(provider, kind).Inc()
}
