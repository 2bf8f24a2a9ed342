package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Prometheus collectors for the backend gateway and the session lifecycle.
// They register with the default registry and are served by /metrics next to
// the OTel Prometheus exporter.
var (
	BackendRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farmers_backend_requests_total",
		Help: "Backend REST calls by endpoint and status code.",
	}, []string{"endpoint", "status"})

	BackendRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "farmers_backend_request_duration_seconds",
		Help:    "Latency of backend REST calls.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	SessionResetsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farmers_session_resets_total",
		Help: "Sessions torn down, by reason.",
	}, []string{"reason"})

	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farmers_logins_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})
)

// AppMetrics holds the OTel instruments recorded by the HTTP server.
type AppMetrics struct {
	HTTPRequestsTotal      metric.Int64Counter
	HTTPRequestDuration    metric.Float64Histogram
	AuthRequestsTotal      metric.Int64Counter
	TemplateRenderDuration metric.Float64Histogram
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics creates the instruments from the global MeterProvider. Call
// it after the provider is installed; later calls are no-ops.
func InitAppMetrics(logger *zap.Logger) {
	once.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
		meter := otel.GetMeterProvider().Meter("farmers-connect-ui")
		m := &AppMetrics{}
		var err error

		m.HTTPRequestsTotal, err = meter.Int64Counter(
			"http_requests_total",
			metric.WithDescription("Total number of HTTP requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			logger.Error("Metrics: failed to create http_requests_total", zap.Error(err))
		}

		m.HTTPRequestDuration, err = meter.Float64Histogram(
			"http_request_duration_seconds",
			metric.WithDescription("Duration of HTTP requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			logger.Error("Metrics: failed to create http_request_duration_seconds", zap.Error(err))
		}

		m.AuthRequestsTotal, err = meter.Int64Counter(
			"auth_requests_total",
			metric.WithDescription("Total number of login, register and logout requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			logger.Error("Metrics: failed to create auth_requests_total", zap.Error(err))
		}

		m.TemplateRenderDuration, err = meter.Float64Histogram(
			"template_render_duration_seconds",
			metric.WithDescription("Duration of page rendering in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			logger.Error("Metrics: failed to create template_render_duration_seconds", zap.Error(err))
		}

		appMetrics = m
	})
}

// Get returns the process instruments, creating them against the current
// global provider on first use.
func Get() *AppMetrics {
	InitAppMetrics(nil)
	return appMetrics
}
