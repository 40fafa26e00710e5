package data

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
)

const (
	// ProjectionStartYear is the first year of the wait time projection.
	ProjectionStartYear = 2024
	// ProjectionYears is the length of the projection series.
	ProjectionYears = 12

	MetricSectionSummary  = "summary"
	MetricSectionOutliers = "outliers"
	MetricSectionRealtime = "realtime"

	InsightPageStrategic = "strategic"
	InsightPageStatus    = "status"

	selectAlertsSQL = `SELECT level, title, body, metric_label, metric_value, metric_delta, delta_inverse
		FROM alert
		ORDER BY position
	`

	selectMetricsSQL = `SELECT label, value, delta, help, delta_inverse
		FROM metric
		WHERE section = ?
		ORDER BY position
	`

	selectInsightsSQL = `SELECT level, body
		FROM insight
		WHERE page = ?
		ORDER BY position
	`

	selectProjectionsSQL = `SELECT scenario, base, slope
		FROM projection
		ORDER BY position
	`

	selectDemographicsSQL = `SELECT age_group, percentage, population
		FROM demographic
		ORDER BY position
	`

	selectScenariosSQL = `SELECT title, status, quota, wait_time, description
		FROM scenario
		ORDER BY position
	`

	selectRecommendationsSQL = `SELECT title, body
		FROM recommendation
		ORDER BY position
	`
)

// Metric is a single headline number with an optional delta.
type Metric struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
	Delta string `json:"delta,omitempty" yaml:"delta,omitempty"`
	Help  string `json:"help,omitempty" yaml:"help,omitempty"`
	// Inverse marks a delta where an increase is bad news.
	Inverse bool `json:"inverse,omitempty" yaml:"inverse,omitempty"`
}

// Alert is a leveled message paired with the metric that triggered it.
type Alert struct {
	Level  string `json:"level" yaml:"level"`
	Title  string `json:"title" yaml:"title"`
	Body   string `json:"body" yaml:"body"`
	Metric Metric `json:"metric" yaml:"metric"`
}

// Insight is a leveled call-out on a page.
type Insight struct {
	Level string `json:"level" yaml:"level"`
	Body  string `json:"body" yaml:"body"`
}

// ProjectionSeries is one scenario's projected wait time by year.
type ProjectionSeries struct {
	Scenario string    `json:"scenario" yaml:"scenario"`
	Years    []int     `json:"years" yaml:"years"`
	Values   []float64 `json:"values" yaml:"values"`
}

type Demographic struct {
	AgeGroup   string `json:"age_group" yaml:"ageGroup"`
	Percentage int    `json:"percentage" yaml:"percentage"`
	Population string `json:"population" yaml:"population"`
}

type Scenario struct {
	Title       string `json:"title" yaml:"title"`
	Status      string `json:"status" yaml:"status"`
	Quota       string `json:"quota" yaml:"quota"`
	WaitTime    string `json:"wait_time" yaml:"waitTime"`
	Description string `json:"description" yaml:"description"`
}

type Recommendation struct {
	Title string `json:"title" yaml:"title"`
	Body  string `json:"body" yaml:"body"`
}

func GetAlerts(db *sql.DB) ([]*Alert, error) {
	return queryList(db, "alerts", selectAlertsSQL, func(r rowScanner) (*Alert, error) {
		a := &Alert{}
		err := r.Scan(&a.Level, &a.Title, &a.Body,
			&a.Metric.Label, &a.Metric.Value, &a.Metric.Delta, &a.Metric.Inverse)
		return a, err
	})
}

// GetMetrics returns the metrics of one page section in display order.
func GetMetrics(db *sql.DB, section string) ([]*Metric, error) {
	if section == "" {
		return nil, errors.New("metric section required")
	}
	return queryList(db, "metrics", selectMetricsSQL, func(r rowScanner) (*Metric, error) {
		m := &Metric{}
		err := r.Scan(&m.Label, &m.Value, &m.Delta, &m.Help, &m.Inverse)
		return m, err
	}, section)
}

func GetInsights(db *sql.DB, page string) ([]*Insight, error) {
	return queryList(db, "insights", selectInsightsSQL, func(r rowScanner) (*Insight, error) {
		i := &Insight{}
		err := r.Scan(&i.Level, &i.Body)
		return i, err
	}, page)
}

// GetProjections expands each stored scenario line into a yearly series
// starting at fromYear.
func GetProjections(db *sql.DB, fromYear, years int) ([]*ProjectionSeries, error) {
	if years <= 0 {
		return nil, fmt.Errorf("invalid projection length: %d", years)
	}

	return queryList(db, "projections", selectProjectionsSQL, func(r rowScanner) (*ProjectionSeries, error) {
		var base, slope float64
		s := &ProjectionSeries{
			Years:  make([]int, 0, years),
			Values: make([]float64, 0, years),
		}
		if err := r.Scan(&s.Scenario, &base, &slope); err != nil {
			return nil, err
		}
		for i := 0; i < years; i++ {
			s.Years = append(s.Years, fromYear+i)
			s.Values = append(s.Values, round1(base+slope*float64(i)))
		}
		return s, nil
	})
}

func GetDemographics(db *sql.DB) ([]*Demographic, error) {
	return queryList(db, "demographics", selectDemographicsSQL, func(r rowScanner) (*Demographic, error) {
		d := &Demographic{}
		err := r.Scan(&d.AgeGroup, &d.Percentage, &d.Population)
		return d, err
	})
}

func GetScenarios(db *sql.DB) ([]*Scenario, error) {
	return queryList(db, "scenarios", selectScenariosSQL, func(r rowScanner) (*Scenario, error) {
		s := &Scenario{}
		err := r.Scan(&s.Title, &s.Status, &s.Quota, &s.WaitTime, &s.Description)
		return s, err
	})
}

func GetRecommendations(db *sql.DB) ([]*Recommendation, error) {
	return queryList(db, "recommendations", selectRecommendationsSQL, func(r rowScanner) (*Recommendation, error) {
		rec := &Recommendation{}
		err := r.Scan(&rec.Title, &rec.Body)
		return rec, err
	})
}

// round1 drops float noise from the slope arithmetic.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
