package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStatTests(t *testing.T) {
	db := setupTestDB(t)

	list, err := GetStatTests(db)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Kolmogorov-Smirnov", list[0].Test)
	assert.Equal(t, "0.156", list[2].PValue)
	assert.Equal(t, "Not Significant", list[2].Result)
}

func TestGetSystemHealth(t *testing.T) {
	db := setupTestDB(t)

	list, err := GetSystemHealth(db)
	require.NoError(t, err)
	require.Len(t, list, 4)

	statuses := make([]string, 0, len(list))
	for _, s := range list {
		statuses = append(statuses, s.Status)
	}
	assert.Equal(t, []string{HealthHealthy, HealthWarning, HealthHealthy, HealthError}, statuses)
	assert.Equal(t, "timeout", list[3].Latency)
}

func TestGetSuccessMetrics(t *testing.T) {
	db := setupTestDB(t)

	list, err := GetSuccessMetrics(db)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.True(t, list[0].Achieved)
	assert.Equal(t, 92, list[0].Progress)
	for _, m := range list[1:] {
		assert.False(t, m.Achieved, m.Name)
		assert.LessOrEqual(t, m.Progress, 100)
	}
}

func TestStatusQueries_NilDB(t *testing.T) {
	_, err := GetStatTests(nil)
	assert.ErrorIs(t, err, errDBNotInitialized)
	_, err = GetSystemHealth(nil)
	assert.ErrorIs(t, err, errDBNotInitialized)
	_, err = GetSuccessMetrics(nil)
	assert.ErrorIs(t, err, errDBNotInitialized)
}
