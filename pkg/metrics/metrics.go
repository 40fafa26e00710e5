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

const namespace = "hajjdash"

// Scoring sources.
const (
	SourceForm   = "form"
	SourceAPI    = "api"
	SourceCLI    = "cli"
	SourceSample = "sample"
)

// Metrics provides observability for scoring and the dashboard server.
// All methods are safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	// Scoring outcomes by label and source
	ScoreOutcome *prometheus.CounterVec

	// Rejected profiles by offending field and source
	ScoreInvalid *prometheus.CounterVec

	// Confidence of every scored profile
	ScoreConfidence prometheus.Histogram

	// Sample batch builds
	SampleBuilds prometheus.Counter

	// Upstream probe outcomes by endpoint and status
	ProbeOutcome *prometheus.CounterVec

	// Request latency by route and status code
	RequestLatency *prometheus.HistogramVec
}

// New creates a Metrics instance registered on its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		ScoreOutcome: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "score_outcomes_total",
			Help:      "Total scored profiles by prediction label and source",
		}, []string{"label", "source"}),

		ScoreInvalid: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "score_invalid_total",
			Help:      "Total profiles rejected by validation by field and source",
		}, []string{"field", "source"}),

		ScoreConfidence: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "score_confidence",
			Help:      "Distribution of confidence scores",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		}),

		SampleBuilds: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sample_builds_total",
			Help:      "Total synthetic sample batches built",
		}),

		ProbeOutcome: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probe_outcomes_total",
			Help:      "Total upstream probes by endpoint and status",
		}, []string{"endpoint", "status"}),

		RequestLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests by route and status code",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "code"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveScore records one scored profile.
func (m *Metrics) ObserveScore(label, source string, confidence int) {
	if m != nil {
		m.ScoreOutcome.WithLabelValues(label, source).Inc()
		m.ScoreConfidence.Observe(float64(confidence))
	}
}

// IncrementInvalid records a profile rejected by validation.
func (m *Metrics) IncrementInvalid(field, source string) {
	if m != nil {
		m.ScoreInvalid.WithLabelValues(field, source).Inc()
	}
}

// IncrementSampleBuilds records a sample batch build.
func (m *Metrics) IncrementSampleBuilds() {
	if m != nil {
		m.SampleBuilds.Inc()
	}
}

// IncrementProbe records an upstream probe outcome.
func (m *Metrics) IncrementProbe(endpoint, status string) {
	if m != nil {
		m.ProbeOutcome.WithLabelValues(endpoint, status).Inc()
	}
}

// ObserveRequest records the duration of a served request.
func (m *Metrics) ObserveRequest(route string, code int, d time.Duration) {
	if m != nil {
		m.RequestLatency.WithLabelValues(route, strconv.Itoa(code)).Observe(d.Seconds())
	}
}
