package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStrategicPage(t *testing.T) {
	db := setupTestDB(t)

	p, err := GetStrategicPage(db)
	require.NoError(t, err)
	assert.Len(t, p.Alerts, 3)
	assert.Len(t, p.Summary, 4)
	assert.Len(t, p.Projections, 4)
	assert.Len(t, p.Demographics, 4)
	assert.Len(t, p.Scenarios, 4)
	assert.Len(t, p.Recommendations, 4)
	assert.Len(t, p.Insights, 2)
}

func TestGetAnalyticsPage(t *testing.T) {
	db := setupTestDB(t)

	p, err := GetAnalyticsPage(db, DepositorFilter{AgeGroup: "70+"})
	require.NoError(t, err)
	assert.Len(t, p.AgeDistribution, 6)
	assert.Len(t, p.ModelPerformance, 3)
	assert.Len(t, p.Correlations, 4)
	assert.Len(t, p.Regions, 5)
	assert.Equal(t, AgeGroups(), p.AgeGroups)
	assert.Len(t, p.Outliers, 3)
	require.NotNil(t, p.Depositors)
	assert.Equal(t, 2, p.Depositors.Shown)
	assert.Equal(t, 5, p.Depositors.Total)
}

func TestGetAnalyticsPage_BadFilter(t *testing.T) {
	db := setupTestDB(t)

	_, err := GetAnalyticsPage(db, DepositorFilter{AgeGroup: "bogus"})
	assert.ErrorIs(t, err, ErrUnknownAgeGroup)
}

func TestGetStatusPage(t *testing.T) {
	db := setupTestDB(t)

	p, err := GetStatusPage(db)
	require.NoError(t, err)
	assert.False(t, p.UpdatedAt.IsZero())
	assert.Len(t, p.StatTests, 3)
	assert.Len(t, p.Insights, 2)
	assert.Len(t, p.SystemHealth, 4)
	assert.Len(t, p.Realtime, 4)
	assert.Len(t, p.SuccessMetrics, 4)
	assert.False(t, p.Live)
}

func TestPages_NilDB(t *testing.T) {
	_, err := GetStrategicPage(nil)
	assert.ErrorIs(t, err, errDBNotInitialized)
	_, err = GetAnalyticsPage(nil, DepositorFilter{})
	assert.ErrorIs(t, err, errDBNotInitialized)
	_, err = GetStatusPage(nil)
	assert.ErrorIs(t, err, errDBNotInitialized)
}
