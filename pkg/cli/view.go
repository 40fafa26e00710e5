package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/mchmarny/hajjdash/pkg/data"
	"github.com/mchmarny/hajjdash/pkg/metrics"
	"github.com/mchmarny/hajjdash/pkg/sample"
	"github.com/mchmarny/hajjdash/pkg/score"
)

const (
	sampleRowsShown = 25

	viewStrategic      = "strategic"
	viewAnalytics      = "analytics"
	viewClassification = "classification"
	viewStatus         = "status"
)

var templateFuncs = template.FuncMap{
	"json": func(v any) (template.JS, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return template.JS(b), nil
	},
	"lower": strings.ToLower,
	"percent": func(v float64) string {
		return strconv.FormatFloat(v*100, 'f', 1, 64) + "%"
	},
}

// view is the data passed to every page template.
type view struct {
	Page    string
	Title   string
	Version string
	Data    any
}

// formValues holds the raw classification form input for redisplay.
type formValues struct {
	Age        string
	Salary     string
	Dependents string
	Health     string
	Deferments string
	Occupation string
}

func defaultFormValues() formValues {
	return formValues{
		Age:        "45",
		Salary:     "5000",
		Dependents: "2",
		Health:     string(score.HealthExcellent),
		Deferments: "0",
		Occupation: string(score.OccupationGovernment),
	}
}

type classificationView struct {
	Form        formValues
	Healths     []score.Health
	Occupations []score.Occupation
	Result      *score.Result
	Err         string
	Field       string
	Sample      *sample.Batch
	Rows        []sample.Row
	Dimensions  []sample.Dimension
}

func faviconHandler(w http.ResponseWriter, r *http.Request) {
	file, err := embedFS.ReadFile("assets/img/favicon.svg")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	if _, err = w.Write(file); err != nil {
		slog.Error("failed to write favicon", "error", err)
	}
}

// render executes the named template into a buffer so a failure does not
// leave a partial page behind.
func (d *dashboard) render(w http.ResponseWriter, status int, name, title string, v any) {
	var buf bytes.Buffer
	err := d.tmpl.ExecuteTemplate(&buf, name, view{
		Page:    name,
		Title:   title,
		Version: version,
		Data:    v,
	})
	if err != nil {
		slog.Error("template render failed", "template", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write page", "template", name, "error", err)
	}
}

func (d *dashboard) strategicViewHandler(w http.ResponseWriter, _ *http.Request) {
	p, err := data.GetStrategicPage(d.db)
	if err != nil {
		slog.Error("failed to get strategic page", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	d.render(w, http.StatusOK, viewStrategic, "Strategic Dashboard", p)
}

func (d *dashboard) analyticsViewHandler(w http.ResponseWriter, r *http.Request) {
	p, err := data.GetAnalyticsPage(d.db, depositorFilter(r))
	if err != nil {
		if errors.Is(err, data.ErrUnknownAgeGroup) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("failed to get analytics page", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	d.render(w, http.StatusOK, viewAnalytics, "Advanced Analytics", p)
}

func (d *dashboard) statusViewHandler(w http.ResponseWriter, r *http.Request) {
	p, err := buildStatusPage(r.Context(), d.db, d.status, d.probe, d.metrics)
	if err != nil {
		slog.Error("failed to get status page", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	d.render(w, http.StatusOK, viewStatus, "System Status", p)
}

func (d *dashboard) classificationViewHandler(w http.ResponseWriter, r *http.Request) {
	d.renderClassification(w, r, http.StatusOK, &classificationView{Form: defaultFormValues()})
}

func (d *dashboard) classificationSubmitHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	fv := formValues{
		Age:        r.PostFormValue("age"),
		Salary:     r.PostFormValue("salary"),
		Dependents: r.PostFormValue("dependents"),
		Health:     r.PostFormValue("health"),
		Deferments: r.PostFormValue("deferments"),
		Occupation: r.PostFormValue("occupation"),
	}
	v := &classificationView{Form: fv}

	p, err := parseProfileForm(fv)
	if err == nil {
		var res score.Result
		if res, err = score.Evaluate(p); err == nil {
			d.metrics.ObserveScore(string(res.Label), metrics.SourceForm, res.Confidence)
			v.Result = &res
			d.renderClassification(w, r, http.StatusOK, v)
			return
		}
	}

	field, _ := invalidField(err)
	d.metrics.IncrementInvalid(field, metrics.SourceForm)
	v.Err = err.Error()
	v.Field = field
	d.renderClassification(w, r, http.StatusBadRequest, v)
}

func (d *dashboard) regenerateViewHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := d.currentSample(r.Context(), true); err != nil {
		slog.Error("failed to regenerate sample", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/classification", http.StatusSeeOther)
}

func (d *dashboard) renderClassification(w http.ResponseWriter, r *http.Request, status int, v *classificationView) {
	b, err := d.currentSample(r.Context(), false)
	if err != nil {
		slog.Error("failed to build sample", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	v.Healths = score.HealthStatuses
	v.Occupations = score.Occupations
	v.Sample = b
	v.Dimensions = sample.Dimensions()
	v.Rows = b.Rows
	if len(v.Rows) > sampleRowsShown {
		v.Rows = v.Rows[:sampleRowsShown]
	}

	d.render(w, status, viewClassification, "Hajj Acceptance Prediction", v)
}

// parseProfileForm converts raw form input into a profile. Range checks are
// left to score.Validate.
func parseProfileForm(fv formValues) (score.Profile, error) {
	var p score.Profile
	var err error

	if p.Age, err = formInt("age", fv.Age); err != nil {
		return p, err
	}
	if p.MonthlySalary, err = formInt("salary", fv.Salary); err != nil {
		return p, err
	}
	if p.Dependents, err = formInt("dependents", fv.Dependents); err != nil {
		return p, err
	}
	if p.Health, err = score.ParseHealth(fv.Health); err != nil {
		return p, err
	}
	if p.Deferments, err = formInt("deferments", fv.Deferments); err != nil {
		return p, err
	}
	if p.Occupation, err = score.ParseOccupation(fv.Occupation); err != nil {
		return p, err
	}
	return p, nil
}

func formInt(field, raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &score.InvalidProfileError{
			Field:  field,
			Value:  raw,
			Reason: fmt.Sprintf("must be a whole number: %v", err),
		}
	}
	return v, nil
}
