package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metric collectors for the Scoutline API.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics.
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Auth metrics.
	AuthAttemptsTotal       *prometheus.CounterVec
	SessionValidationsTotal *prometheus.CounterVec

	// Rate limiting.
	RateLimitRejectionsTotal *prometheus.CounterVec

	// Server lifecycle.
	ServerStartTime prometheus.Gauge
}

// New creates and registers all Prometheus metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scoutline_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path_pattern", "status_code"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scoutline_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path_pattern"}),

		HTTPResponseSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scoutline_http_response_size_bytes",
			Help:    "HTTP response size in bytes.",
			Buckets: prometheus.ExponentialBuckets(100, 10, 6),
		}, []string{"method", "path_pattern"}),

		AuthAttemptsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scoutline_auth_attempts_total",
			Help: "Login and registration attempts by role and outcome.",
		}, []string{"operation", "role", "outcome"}),

		SessionValidationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scoutline_session_validations_total",
			Help: "Session cookie validations by result.",
		}, []string{"result"}),

		RateLimitRejectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scoutline_ratelimit_rejections_total",
			Help: "Total number of rate limit rejections.",
		}, []string{"store"}),

		ServerStartTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "scoutline_server_start_time_seconds",
			Help: "Unix timestamp when the server started.",
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPResponseSize,
		m.AuthAttemptsTotal,
		m.SessionValidationsTotal,
		m.RateLimitRejectionsTotal,
		m.ServerStartTime,
	)

	m.ServerStartTime.Set(float64(time.Now().Unix()))

	// Register Go runtime and process collectors.
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return m
}

// Registry returns the private Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RegisterDBPoolCollector exports the pool returned by stat on every scrape.
func (m *Metrics) RegisterDBPoolCollector(stat PoolStatFunc) {
	m.registry.MustRegister(newPoolCollector(stat))
}

// RecordAuth counts one login or registration outcome.
func (m *Metrics) RecordAuth(operation, role, outcome string) {
	m.AuthAttemptsTotal.WithLabelValues(operation, role, outcome).Inc()
}

// IncSessionValidation counts a session check; result is "valid" or the
// failure reason.
func (m *Metrics) IncSessionValidation(result string) {
	m.SessionValidationsTotal.WithLabelValues(result).Inc()
}

// IncRateLimitRejection increments the rate limit rejection counter.
func (m *Metrics) IncRateLimitRejection(store string) {
	m.RateLimitRejectionsTotal.WithLabelValues(store).Inc()
}

// PrometheusHandler serves the registry in the Prometheus exposition format.
func (m *Metrics) PrometheusHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request count, latency and response size labelled by
// the matched chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		pattern := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				pattern = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.HTTPRequestsTotal.WithLabelValues(r.Method, pattern, strconv.Itoa(status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
		m.HTTPResponseSize.WithLabelValues(r.Method, pattern).Observe(float64(ww.BytesWritten()))
	})
}
