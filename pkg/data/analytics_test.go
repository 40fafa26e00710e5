package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func depositorIDs(p *DepositorPage) []string {
	ids := make([]string, 0, len(p.Records))
	for _, d := range p.Records {
		ids = append(ids, d.ID)
	}
	return ids
}

func TestGetAgeDistribution(t *testing.T) {
	db := setupTestDB(t)

	list, err := GetAgeDistribution(db)
	require.NoError(t, err)
	require.Len(t, list, 6)
	assert.Equal(t, "50-55", list[2].AgeGroup)
	assert.Equal(t, 920, list[2].Depositors)
}

func TestGetModelPerformance(t *testing.T) {
	db := setupTestDB(t)

	list, err := GetModelPerformance(db)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Neural Network", list[0].Model)
	assert.InDelta(t, 0.91, list[0].R2, 0.0001)
	assert.InDelta(t, 4.1, list[2].MAE, 0.0001)
}

func TestGetCorrelations(t *testing.T) {
	db := setupTestDB(t)

	list, err := GetCorrelations(db)
	require.NoError(t, err)
	require.Len(t, list, 4)
	for i := 1; i < len(list); i++ {
		assert.Greater(t, list[i-1].Coefficient, list[i].Coefficient)
	}
	assert.Equal(t, "Strong", list[0].Strength)
}

func TestGetRegions(t *testing.T) {
	db := setupTestDB(t)

	list, err := GetRegions(db)
	require.NoError(t, err)
	assert.Equal(t, []string{"Central", "Eastern", "Western", "Northern", "Southern"}, list)
}

func TestGetDepositors(t *testing.T) {
	db := setupTestDB(t)

	tests := []struct {
		name   string
		filter DepositorFilter
		ids    []string
	}{
		{"no filter", DepositorFilter{}, []string{"HAJ-2024-001", "HAJ-2024-002", "HAJ-2024-003", "HAJ-2024-004", "HAJ-2024-005"}},
		{"all values", DepositorFilter{Region: AllRegions, AgeGroup: AllAges}, []string{"HAJ-2024-001", "HAJ-2024-002", "HAJ-2024-003", "HAJ-2024-004", "HAJ-2024-005"}},
		{"region", DepositorFilter{Region: "Western"}, []string{"HAJ-2024-003"}},
		{"40-60", DepositorFilter{AgeGroup: "40-60"}, []string{"HAJ-2024-002", "HAJ-2024-004"}},
		{"60-70", DepositorFilter{AgeGroup: "60-70"}, []string{"HAJ-2024-001"}},
		{"70+", DepositorFilter{AgeGroup: "70+"}, []string{"HAJ-2024-003", "HAJ-2024-005"}},
		{"region and age", DepositorFilter{Region: "Southern", AgeGroup: "70+"}, []string{"HAJ-2024-005"}},
		{"no match", DepositorFilter{Region: "Central", AgeGroup: "40-60"}, []string{}},
		{"unknown region", DepositorFilter{Region: "Atlantis"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := GetDepositors(db, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.ids, depositorIDs(p))
			assert.Equal(t, len(tt.ids), p.Shown)
			assert.Equal(t, 5, p.Total)
		})
	}
}

func TestGetDepositors_BandEdges(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.Exec(`INSERT INTO depositor (id, region, age, wait_years, status, priority) VALUES
		('E-40', 'Edge', 40, 1, 'Active', 'Standard'),
		('E-60', 'Edge', 60, 1, 'Active', 'Standard'),
		('E-70', 'Edge', 70, 1, 'Active', 'Standard'),
		('E-71', 'Edge', 71, 1, 'Active', 'Standard')`)
	require.NoError(t, err)

	p, err := GetDepositors(db, DepositorFilter{Region: "Edge", AgeGroup: "40-60"})
	require.NoError(t, err)
	assert.Equal(t, []string{"E-40", "E-60"}, depositorIDs(p))

	p, err = GetDepositors(db, DepositorFilter{Region: "Edge", AgeGroup: "60-70"})
	require.NoError(t, err)
	assert.Equal(t, []string{"E-70"}, depositorIDs(p))

	p, err = GetDepositors(db, DepositorFilter{Region: "Edge", AgeGroup: "70+"})
	require.NoError(t, err)
	assert.Equal(t, []string{"E-71"}, depositorIDs(p))
	assert.Equal(t, 9, p.Total)
}

func TestGetDepositors_UnknownAgeGroup(t *testing.T) {
	db := setupTestDB(t)

	_, err := GetDepositors(db, DepositorFilter{AgeGroup: "18-25"})
	assert.ErrorIs(t, err, ErrUnknownAgeGroup)
}

func TestGetDepositors_NilDB(t *testing.T) {
	_, err := GetDepositors(nil, DepositorFilter{})
	assert.ErrorIs(t, err, errDBNotInitialized)
}

func TestAgeGroups(t *testing.T) {
	groups := AgeGroups()
	assert.Equal(t, AllAges, groups[0])
	for _, g := range groups[1:] {
		_, err := parseAgeGroup(g)
		assert.NoError(t, err, g)
	}
}
