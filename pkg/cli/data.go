package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mchmarny/hajjdash/pkg/config"
	"github.com/mchmarny/hajjdash/pkg/data"
	"github.com/mchmarny/hajjdash/pkg/metrics"
	"github.com/mchmarny/hajjdash/pkg/net"
	"github.com/mchmarny/hajjdash/pkg/sample"
	"github.com/mchmarny/hajjdash/pkg/score"
)

const (
	maxScoreBodyBytes = 1 << 16
	liveDataQuality   = "n/a"
)

type fieldError struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// sampleResponse is the chart payload of the classification page.
type sampleResponse struct {
	Dimensions []sample.Dimension `json:"dimensions" yaml:"dimensions"`
	Batch      *sample.Batch      `json:"batch" yaml:"batch"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, fieldError{Error: msg})
}

func depositorFilter(r *http.Request) data.DepositorFilter {
	q := r.URL.Query()
	return data.DepositorFilter{
		Region:   q.Get("region"),
		AgeGroup: q.Get("age"),
	}
}

// normalizeProfile accepts health and occupation in any letter case.
func normalizeProfile(p score.Profile) score.Profile {
	if h, err := score.ParseHealth(string(p.Health)); err == nil {
		p.Health = h
	}
	if o, err := score.ParseOccupation(string(p.Occupation)); err == nil {
		p.Occupation = o
	}
	return p
}

// invalidField returns the offending field of a validation error.
func invalidField(err error) (string, bool) {
	var ipe *score.InvalidProfileError
	if errors.As(err, &ipe) {
		return ipe.Field, true
	}
	return "", false
}

// buildStatusPage loads the status page and, when endpoints are configured,
// replaces the stored health table with live probe results.
func buildStatusPage(ctx context.Context, db *sql.DB, st config.Status, client *http.Client, m *metrics.Metrics) (*data.StatusPage, error) {
	p, err := data.GetStatusPage(db)
	if err != nil {
		return nil, err
	}

	if len(st.Endpoints) == 0 {
		return p, nil
	}

	results, err := net.ProbeAll(ctx, client, st.Endpoints, st.SlowThreshold)
	if err != nil {
		return nil, fmt.Errorf("probing upstream systems: %w", err)
	}

	health := make([]*data.SystemHealth, 0, len(results))
	for _, r := range results {
		m.IncrementProbe(r.Name, r.Status)
		health = append(health, &data.SystemHealth{
			System:      r.Name,
			Status:      r.Status,
			DataQuality: liveDataQuality,
			Latency:     r.Latency,
		})
	}
	p.SystemHealth = health
	p.Live = true

	return p, nil
}

// currentSample returns the cached batch, or a new one when regenerate is set.
func (d *dashboard) currentSample(ctx context.Context, regenerate bool) (*sample.Batch, error) {
	before := d.samples.Builds()

	var b *sample.Batch
	var err error
	if regenerate {
		b, err = d.samples.Regenerate(ctx)
	} else {
		b, err = d.samples.Get(ctx)
	}
	if err != nil {
		return nil, err
	}

	if d.samples.Builds() > before {
		d.metrics.IncrementSampleBuilds()
		for _, row := range b.Rows {
			d.metrics.ObserveScore(string(row.Prediction), metrics.SourceSample, row.Confidence)
		}
	}
	return b, nil
}

func (d *dashboard) strategicAPIHandler(w http.ResponseWriter, _ *http.Request) {
	p, err := data.GetStrategicPage(d.db)
	if err != nil {
		slog.Error("failed to get strategic page", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get strategic data")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (d *dashboard) analyticsAPIHandler(w http.ResponseWriter, r *http.Request) {
	p, err := data.GetAnalyticsPage(d.db, depositorFilter(r))
	if err != nil {
		if errors.Is(err, data.ErrUnknownAgeGroup) {
			writeJSON(w, http.StatusBadRequest, fieldError{Error: err.Error(), Field: "age"})
			return
		}
		slog.Error("failed to get analytics page", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get analytics data")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (d *dashboard) depositorsAPIHandler(w http.ResponseWriter, r *http.Request) {
	p, err := data.GetDepositors(d.db, depositorFilter(r))
	if err != nil {
		if errors.Is(err, data.ErrUnknownAgeGroup) {
			writeJSON(w, http.StatusBadRequest, fieldError{Error: err.Error(), Field: "age"})
			return
		}
		slog.Error("failed to get depositors", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get depositors")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (d *dashboard) statusAPIHandler(w http.ResponseWriter, r *http.Request) {
	p, err := buildStatusPage(r.Context(), d.db, d.status, d.probe, d.metrics)
	if err != nil {
		slog.Error("failed to get status page", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get status data")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (d *dashboard) sampleAPIHandler(w http.ResponseWriter, r *http.Request) {
	d.writeSample(w, r, false)
}

func (d *dashboard) regenerateAPIHandler(w http.ResponseWriter, r *http.Request) {
	d.writeSample(w, r, true)
}

func (d *dashboard) writeSample(w http.ResponseWriter, r *http.Request, regenerate bool) {
	b, err := d.currentSample(r.Context(), regenerate)
	if err != nil {
		slog.Error("failed to build sample", "regenerate", regenerate, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build sample")
		return
	}
	writeJSON(w, http.StatusOK, sampleResponse{
		Dimensions: sample.Dimensions(),
		Batch:      b,
	})
}

func (d *dashboard) scoreAPIHandler(w http.ResponseWriter, r *http.Request) {
	var p score.Profile
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxScoreBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		slog.Debug("error binding json", "error", err)
		writeError(w, http.StatusBadRequest, "error binding json")
		return
	}

	res, err := score.Evaluate(normalizeProfile(p))
	if err != nil {
		field, _ := invalidField(err)
		d.metrics.IncrementInvalid(field, metrics.SourceAPI)
		writeJSON(w, http.StatusBadRequest, fieldError{Error: err.Error(), Field: field})
		return
	}

	d.metrics.ObserveScore(string(res.Label), metrics.SourceAPI, res.Confidence)
	writeJSON(w, http.StatusOK, res)
}

func (d *dashboard) healthHandler(w http.ResponseWriter, r *http.Request) {
	if err := d.db.PingContext(r.Context()); err != nil {
		slog.Error("database ping failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version})
}
