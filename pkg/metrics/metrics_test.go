package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveScore("Likely to Accept", SourceAPI, 80)
	m.IncrementInvalid("age", SourceForm)
	m.IncrementSampleBuilds()
	m.IncrementProbe("db", "healthy")
	m.ObserveRequest("GET /", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestObserveScore(t *testing.T) {
	m := New()
	m.ObserveScore("Likely to Accept", SourceAPI, 85)
	m.ObserveScore("Likely to Accept", SourceAPI, 100)
	m.ObserveScore("Likely to Decline", SourceForm, 10)

	assert.InDelta(t, 2, testutil.ToFloat64(m.ScoreOutcome.WithLabelValues("Likely to Accept", SourceAPI)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ScoreOutcome.WithLabelValues("Likely to Decline", SourceForm)), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.ScoreConfidence))
}

func TestCounters(t *testing.T) {
	m := New()
	m.IncrementInvalid("salary", SourceAPI)
	m.IncrementSampleBuilds()
	m.IncrementSampleBuilds()
	m.IncrementProbe("quota", "error")

	assert.InDelta(t, 1, testutil.ToFloat64(m.ScoreInvalid.WithLabelValues("salary", SourceAPI)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.SampleBuilds), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ProbeOutcome.WithLabelValues("quota", "error")), 0)
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveRequest("GET /healthz", http.StatusOK, 2*time.Millisecond)
	m.IncrementSampleBuilds()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "hajjdash_sample_builds_total 1")
	assert.Contains(t, body, `hajjdash_http_request_duration_seconds_count{code="200",route="GET /healthz"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestRegistriesAreIsolated(t *testing.T) {
	a := New()
	b := New()
	a.IncrementSampleBuilds()
	assert.InDelta(t, 0, testutil.ToFloat64(b.SampleBuilds), 0)
}
