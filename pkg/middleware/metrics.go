package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/hfs/pkg/message"
	"github.com/vango-dev/hfs/pkg/router"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "hfs").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for dispatch duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "hfs",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus metrics for hfs.
type metrics struct {
	dispatchTotal     *prometheus.CounterVec
	dispatchDuration  *prometheus.HistogramVec
	handlerPanics     *prometheus.CounterVec
	missesTotal       *prometheus.CounterVec
	parseErrors       *prometheus.CounterVec
	activeConnections prometheus.Gauge
	connectionsTotal  prometheus.Counter
	responseBytes     prometheus.Histogram
	writeErrors       prometheus.Counter
}

// globalMetrics is the singleton metrics instance, created on the first
// call to Prometheus.
var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		dispatchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatch_total",
			Help:        "Total number of requests dispatched to a route",
			ConstLabels: config.ConstLabels,
		}, []string{"method", "route", "status"}),

		dispatchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatch_duration_seconds",
			Help:        "Handler execution time in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"method", "route"}),

		handlerPanics: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "handler_panics_total",
			Help:        "Total number of handler panics recovered",
			ConstLabels: config.ConstLabels,
		}, []string{"method", "route"}),

		missesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatch_misses_total",
			Help:        "Total number of requests no route matched",
			ConstLabels: config.ConstLabels,
		}, []string{"method"}),

		parseErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "parse_errors_total",
			Help:        "Total number of requests rejected by the parser, by error code",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),

		activeConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_connections",
			Help:        "Number of connections currently being served",
			ConstLabels: config.ConstLabels,
		}),

		connectionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "connections_total",
			Help:        "Total number of accepted connections",
			ConstLabels: config.ConstLabels,
		}),

		responseBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "response_bytes",
			Help:        "Size of serialized responses in bytes",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{64, 256, 1024, 4096, 16384, 65536, 262144, 1048576}, // 64B to 1MB
		}),

		writeErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "write_errors_total",
			Help:        "Total number of responses that could not be written",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Prometheus creates middleware that collects Prometheus metrics for
// dispatched requests.
//
// Metrics collected:
//   - hfs_dispatch_total: Counter of dispatches by method, route and status
//   - hfs_dispatch_duration_seconds: Histogram of handler execution time
//   - hfs_handler_panics_total: Counter of recovered handler panics (RecordPanic)
//   - hfs_dispatch_misses_total: Counter of unmatched requests (RecordMiss)
//   - hfs_parse_errors_total: Counter of parse failures by code (RecordParseError)
//   - hfs_active_connections: Gauge of connections being served
//   - hfs_connections_total: Counter of accepted connections
//   - hfs_response_bytes: Histogram of serialized response sizes
//   - hfs_write_errors_total: Counter of failed response writes
//
// The route label is the pattern source, never the request path, so
// label cardinality is bounded by the route table.
//
// Metrics are created once per process; options passed to later calls
// are ignored.
func Prometheus(opts ...MetricsOption) router.Middleware {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	globalMetricsMu.Lock()
	if globalMetrics == nil {
		globalMetrics = initMetrics(config)
	}
	m := globalMetrics
	globalMetricsMu.Unlock()

	return router.MiddlewareFunc(func(c *router.Call, next func() *message.Response) *message.Response {
		method := c.Route.Method.String()
		route := c.Route.Pattern
		if route == "" {
			route = "/"
		}

		start := time.Now()
		resp := next()
		m.dispatchDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())

		m.dispatchTotal.WithLabelValues(method, route, statusLabel(resp)).Inc()
		return resp
	})
}

// statusLabel is the numeric status, or "none" for a nil response.
func statusLabel(resp *message.Response) string {
	if resp == nil {
		return "none"
	}
	return strconv.Itoa(resp.Status.Code())
}

// current returns the global metrics, or nil before Prometheus is called.
func current() *metrics {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	return globalMetrics
}

// =============================================================================
// Metrics Recording Functions
// =============================================================================

// RecordConnectionOpen records an accepted connection.
func RecordConnectionOpen() {
	if m := current(); m != nil {
		m.connectionsTotal.Inc()
		m.activeConnections.Inc()
	}
}

// RecordConnectionClose records a connection being closed.
func RecordConnectionClose() {
	if m := current(); m != nil {
		m.activeConnections.Dec()
	}
}

// RecordParseError records a request the parser rejected. code is the
// error code ("H003"), or "io" for transport errors.
func RecordParseError(code string) {
	if m := current(); m != nil {
		m.parseErrors.WithLabelValues(code).Inc()
	}
}

// RecordMiss records a request no route matched.
func RecordMiss(method message.Method) {
	if m := current(); m != nil {
		m.missesTotal.WithLabelValues(method.String()).Inc()
	}
}

// RecordPanic records a recovered handler panic.
func RecordPanic(route router.RouteInfo) {
	if m := current(); m != nil {
		m.handlerPanics.WithLabelValues(route.Method.String(), route.Pattern).Inc()
	}
}

// RecordResponseBytes records the size of a written response.
func RecordResponseBytes(n int64) {
	if m := current(); m != nil {
		m.responseBytes.Observe(float64(n))
	}
}

// RecordWriteError records a response that could not be written.
func RecordWriteError() {
	if m := current(); m != nil {
		m.writeErrors.Inc()
	}
}

// =============================================================================
// Metrics Collector
// =============================================================================

// Collector exposes the metrics for custom registrations and tests.
type Collector struct {
	dispatchTotal     *prometheus.CounterVec
	dispatchDuration  *prometheus.HistogramVec
	handlerPanics     *prometheus.CounterVec
	missesTotal       *prometheus.CounterVec
	parseErrors       *prometheus.CounterVec
	activeConnections prometheus.Gauge
	connectionsTotal  prometheus.Counter
	responseBytes     prometheus.Histogram
	writeErrors       prometheus.Counter
}

// GetMetrics returns the global metrics collector.
// Returns nil if Prometheus middleware has not been initialized.
func GetMetrics() *Collector {
	m := current()
	if m == nil {
		return nil
	}
	return &Collector{
		dispatchTotal:     m.dispatchTotal,
		dispatchDuration:  m.dispatchDuration,
		handlerPanics:     m.handlerPanics,
		missesTotal:       m.missesTotal,
		parseErrors:       m.parseErrors,
		activeConnections: m.activeConnections,
		connectionsTotal:  m.connectionsTotal,
		responseBytes:     m.responseBytes,
		writeErrors:       m.writeErrors,
	}
}
