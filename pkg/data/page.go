package data

import (
	"database/sql"
	"fmt"
	"time"
)

const (
	PageStrategic = "strategic"
	PageAnalytics = "analytics"
	PageStatus    = "status"
)

// Pages lists the dashboard pages with a dataset view.
func Pages() []string {
	return []string{PageStrategic, PageAnalytics, PageStatus}
}

// StrategicPage is the executive overview.
type StrategicPage struct {
	Alerts          []*Alert            `json:"alerts" yaml:"alerts"`
	Summary         []*Metric           `json:"summary" yaml:"summary"`
	Projections     []*ProjectionSeries `json:"projections" yaml:"projections"`
	Demographics    []*Demographic      `json:"demographics" yaml:"demographics"`
	Scenarios       []*Scenario         `json:"scenarios" yaml:"scenarios"`
	Recommendations []*Recommendation   `json:"recommendations" yaml:"recommendations"`
	Insights        []*Insight          `json:"insights" yaml:"insights"`
}

// AnalyticsPage is the advanced analytics view.
type AnalyticsPage struct {
	AgeDistribution  []*AgeBucket        `json:"age_distribution" yaml:"ageDistribution"`
	ModelPerformance []*ModelPerformance `json:"model_performance" yaml:"modelPerformance"`
	Correlations     []*Correlation      `json:"correlations" yaml:"correlations"`
	Regions          []string            `json:"regions" yaml:"regions"`
	AgeGroups        []string            `json:"age_groups" yaml:"ageGroups"`
	Depositors       *DepositorPage      `json:"depositors" yaml:"depositors"`
	Outliers         []*Metric           `json:"outliers" yaml:"outliers"`
}

// StatusPage is the system status view.
type StatusPage struct {
	UpdatedAt      time.Time        `json:"updated_at" yaml:"updatedAt"`
	StatTests      []*StatTest      `json:"stat_tests" yaml:"statTests"`
	Insights       []*Insight       `json:"insights" yaml:"insights"`
	SystemHealth   []*SystemHealth  `json:"system_health" yaml:"systemHealth"`
	Realtime       []*Metric        `json:"realtime" yaml:"realtime"`
	SuccessMetrics []*SuccessMetric `json:"success_metrics" yaml:"successMetrics"`
	// Live is set when SystemHealth comes from upstream probes.
	Live bool `json:"live" yaml:"live"`
}

func GetStrategicPage(db *sql.DB) (*StrategicPage, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	p := &StrategicPage{}
	var err error

	if p.Alerts, err = GetAlerts(db); err != nil {
		return nil, fmt.Errorf("strategic page: %w", err)
	}
	if p.Summary, err = GetMetrics(db, MetricSectionSummary); err != nil {
		return nil, fmt.Errorf("strategic page: %w", err)
	}
	if p.Projections, err = GetProjections(db, ProjectionStartYear, ProjectionYears); err != nil {
		return nil, fmt.Errorf("strategic page: %w", err)
	}
	if p.Demographics, err = GetDemographics(db); err != nil {
		return nil, fmt.Errorf("strategic page: %w", err)
	}
	if p.Scenarios, err = GetScenarios(db); err != nil {
		return nil, fmt.Errorf("strategic page: %w", err)
	}
	if p.Recommendations, err = GetRecommendations(db); err != nil {
		return nil, fmt.Errorf("strategic page: %w", err)
	}
	if p.Insights, err = GetInsights(db, InsightPageStrategic); err != nil {
		return nil, fmt.Errorf("strategic page: %w", err)
	}

	return p, nil
}

func GetAnalyticsPage(db *sql.DB, filter DepositorFilter) (*AnalyticsPage, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	p := &AnalyticsPage{
		AgeGroups: AgeGroups(),
	}
	var err error

	if p.AgeDistribution, err = GetAgeDistribution(db); err != nil {
		return nil, fmt.Errorf("analytics page: %w", err)
	}
	if p.ModelPerformance, err = GetModelPerformance(db); err != nil {
		return nil, fmt.Errorf("analytics page: %w", err)
	}
	if p.Correlations, err = GetCorrelations(db); err != nil {
		return nil, fmt.Errorf("analytics page: %w", err)
	}
	if p.Regions, err = GetRegions(db); err != nil {
		return nil, fmt.Errorf("analytics page: %w", err)
	}
	if p.Depositors, err = GetDepositors(db, filter); err != nil {
		return nil, fmt.Errorf("analytics page: %w", err)
	}
	if p.Outliers, err = GetMetrics(db, MetricSectionOutliers); err != nil {
		return nil, fmt.Errorf("analytics page: %w", err)
	}

	return p, nil
}

func GetStatusPage(db *sql.DB) (*StatusPage, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	p := &StatusPage{
		UpdatedAt: time.Now().UTC(),
	}
	var err error

	if p.StatTests, err = GetStatTests(db); err != nil {
		return nil, fmt.Errorf("status page: %w", err)
	}
	if p.Insights, err = GetInsights(db, InsightPageStatus); err != nil {
		return nil, fmt.Errorf("status page: %w", err)
	}
	if p.SystemHealth, err = GetSystemHealth(db); err != nil {
		return nil, fmt.Errorf("status page: %w", err)
	}
	if p.Realtime, err = GetMetrics(db, MetricSectionRealtime); err != nil {
		return nil, fmt.Errorf("status page: %w", err)
	}
	if p.SuccessMetrics, err = GetSuccessMetrics(db); err != nil {
		return nil, fmt.Errorf("status page: %w", err)
	}

	return p, nil
}
