package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "contactdesk"

// PrometheusRecorder exports metrics through a private Prometheus registry.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	submissionsCreated prometheus.Counter
	usersCreated       prometheus.Counter
	improveRequests    *prometheus.CounterVec
	improveDuration    prometheus.Histogram
	improveTokens      prometheus.Histogram
	usageIncrements    *prometheus.CounterVec
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

// NewPrometheus creates a recorder with its own registry, including Go
// runtime and process collectors.
func NewPrometheus() *PrometheusRecorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &PrometheusRecorder{
		registry: reg,

		submissionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_created_total",
			Help:      "Total number of stored contact form submissions",
		}),
		usersCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_created_total",
			Help:      "Total number of users created on first submission",
		}),
		improveRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_improve_requests_total",
			Help:      "Total number of AI improve calls by outcome",
		}, []string{"outcome"}),
		improveDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ai_improve_duration_seconds",
			Help:      "Provider call duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
		}),
		improveTokens: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ai_improve_tokens",
			Help:      "Tokens reported by the provider per improve call",
			Buckets:   prometheus.ExponentialBuckets(64, 2, 8),
		}),
		usageIncrements: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_usage_increments_total",
			Help:      "Total number of usage counter updates by status",
		}, []string{"status"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status_code"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Registry returns the underlying registry.
func (p *PrometheusRecorder) Registry() *prometheus.Registry {
	return p.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// IncSubmissionCreated increments the submission counter.
func (p *PrometheusRecorder) IncSubmissionCreated() {
	p.submissionsCreated.Inc()
}

// IncUserCreated increments the user counter.
func (p *PrometheusRecorder) IncUserCreated() {
	p.usersCreated.Inc()
}

// IncImproveRequest counts an improve call by outcome.
func (p *PrometheusRecorder) IncImproveRequest(outcome string) {
	p.improveRequests.WithLabelValues(outcome).Inc()
}

// ObserveImproveDuration records provider call duration.
func (p *PrometheusRecorder) ObserveImproveDuration(duration time.Duration) {
	p.improveDuration.Observe(duration.Seconds())
}

// ObserveImproveTokens records reported token usage.
func (p *PrometheusRecorder) ObserveImproveTokens(tokens int) {
	p.improveTokens.Observe(float64(tokens))
}

// IncUsageIncrement counts a usage counter update by status.
func (p *PrometheusRecorder) IncUsageIncrement(status string) {
	p.usageIncrements.WithLabelValues(status).Inc()
}

// ObserveHTTPRequest records a served request.
func (p *PrometheusRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
