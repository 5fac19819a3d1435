package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Common label names for consistent metrics
const (
	LabelStatus    = "status"
	LabelMethod    = "method"
	LabelAuth      = "auth_type"
	LabelSuccess   = "success"
	LabelReason    = "reason"
	LabelKind      = "kind"
	LabelOperation = "operation"
)

var (
	// RequestsTotal counts all HTTP requests
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edgegate_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{LabelMethod, LabelStatus},
	)

	// RequestDuration tracks the duration of HTTP requests
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "edgegate_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{LabelMethod},
	)

	// AuthenticationTotal counts gate decisions by type, outcome and deny reason
	AuthenticationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edgegate_authentication_total",
			Help: "Total number of authentication decisions",
		},
		[]string{LabelAuth, LabelSuccess, LabelReason},
	)

	// OriginRequestsTotal counts requests served past the gate by origin kind
	OriginRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edgegate_origin_requests_total",
			Help: "Total number of requests served by the origin",
		},
		[]string{LabelKind, LabelStatus},
	)

	// UpstreamRequestDuration tracks the duration of upstream requests
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "edgegate_upstream_request_duration_seconds",
			Help:    "Duration of requests to the upstream application in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{LabelMethod, LabelStatus},
	)

	// TodosOperationsTotal counts todo store operations
	TodosOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edgegate_todos_operations_total",
			Help: "Total number of todo store operations",
		},
		[]string{LabelOperation, LabelSuccess},
	)
)

// Collector provides methods for recording metrics
type Collector struct{}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	return &Collector{}
}

// RecordRequest records metrics for an HTTP request.
// The path is deliberately not a label: SPA routes are unbounded.
func (c *Collector) RecordRequest(method string, status int, duration time.Duration) {
	RequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	RequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordAuthentication records a gate decision
func (c *Collector) RecordAuthentication(authType string, success bool, reason string) {
	AuthenticationTotal.WithLabelValues(authType, strconv.FormatBool(success), reason).Inc()
}

// RecordOrigin records a request handled by the origin
func (c *Collector) RecordOrigin(kind string, status int) {
	OriginRequestsTotal.WithLabelValues(kind, strconv.Itoa(status)).Inc()
}

// RecordUpstreamRequest records a proxied request to the upstream application
func (c *Collector) RecordUpstreamRequest(method string, status int, duration time.Duration) {
	UpstreamRequestDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(duration.Seconds())
}

// RecordTodoOperation records a todo store call
func (c *Collector) RecordTodoOperation(operation string, success bool) {
	TodosOperationsTotal.WithLabelValues(operation, strconv.FormatBool(success)).Inc()
}

// Handler returns an HTTP handler for exposing metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
