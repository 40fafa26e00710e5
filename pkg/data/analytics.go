package data

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const (
	AllRegions = "All Regions"
	AllAges    = "All Ages"

	selectAgeDistributionSQL = `SELECT age_group, depositors
		FROM age_distribution
		ORDER BY position
	`

	selectModelPerformanceSQL = `SELECT model, accuracy, r2, mae
		FROM model_performance
		ORDER BY position
	`

	selectCorrelationsSQL = `SELECT factor, strength, coefficient
		FROM correlation
		ORDER BY position
	`

	// regions in order of first appearance
	selectRegionsSQL = `SELECT region
		FROM depositor
		GROUP BY region
		ORDER BY MIN(rowid)
	`

	selectDepositorsSQL = `SELECT id, region, age, wait_years, status, priority
		FROM depositor
		WHERE region = COALESCE(?, region)
		  AND age >= COALESCE(?, age)
		  AND age <= COALESCE(?, age)
		ORDER BY rowid
	`

	selectDepositorCountSQL = `SELECT COUNT(*) FROM depositor`
)

// ErrUnknownAgeGroup is returned for an age group filter outside AgeGroups.
var ErrUnknownAgeGroup = errors.New("unknown age group")

// ageBand bounds are inclusive; nil means open.
type ageBand struct {
	min *int
	max *int
}

func intPtr(v int) *int {
	return &v
}

var ageBands = map[string]ageBand{
	"40-60": {min: intPtr(40), max: intPtr(60)},
	"60-70": {min: intPtr(61), max: intPtr(70)},
	"70+":   {min: intPtr(71)},
}

// AgeGroups lists the depositor age filters in display order.
func AgeGroups() []string {
	return []string{AllAges, "40-60", "60-70", "70+"}
}

type AgeBucket struct {
	AgeGroup string `json:"age_group" yaml:"ageGroup"`
	// Depositors is in thousands.
	Depositors int `json:"depositors" yaml:"depositors"`
}

type ModelPerformance struct {
	Model    string  `json:"model" yaml:"model"`
	Accuracy string  `json:"accuracy" yaml:"accuracy"`
	R2       float64 `json:"r2" yaml:"r2"`
	MAE      float64 `json:"mae" yaml:"mae"`
}

type Correlation struct {
	Factor      string  `json:"factor" yaml:"factor"`
	Strength    string  `json:"strength" yaml:"strength"`
	Coefficient float64 `json:"coefficient" yaml:"coefficient"`
}

type Depositor struct {
	ID        string `json:"id" yaml:"id"`
	Region    string `json:"region" yaml:"region"`
	Age       int    `json:"age" yaml:"age"`
	WaitYears int    `json:"wait_years" yaml:"waitYears"`
	Status    string `json:"status" yaml:"status"`
	Priority  string `json:"priority" yaml:"priority"`
}

// DepositorFilter narrows the depositor table. Empty or "All ..." values
// do not filter.
type DepositorFilter struct {
	Region   string `json:"region" yaml:"region"`
	AgeGroup string `json:"age_group" yaml:"ageGroup"`
}

// DepositorPage is a filtered view of the depositor table.
type DepositorPage struct {
	Filter  DepositorFilter `json:"filter" yaml:"filter"`
	Records []*Depositor    `json:"records" yaml:"records"`
	Shown   int             `json:"shown" yaml:"shown"`
	Total   int             `json:"total" yaml:"total"`
}

func GetAgeDistribution(db *sql.DB) ([]*AgeBucket, error) {
	return queryList(db, "age distribution", selectAgeDistributionSQL, func(r rowScanner) (*AgeBucket, error) {
		b := &AgeBucket{}
		err := r.Scan(&b.AgeGroup, &b.Depositors)
		return b, err
	})
}

func GetModelPerformance(db *sql.DB) ([]*ModelPerformance, error) {
	return queryList(db, "model performance", selectModelPerformanceSQL, func(r rowScanner) (*ModelPerformance, error) {
		m := &ModelPerformance{}
		err := r.Scan(&m.Model, &m.Accuracy, &m.R2, &m.MAE)
		return m, err
	})
}

func GetCorrelations(db *sql.DB) ([]*Correlation, error) {
	return queryList(db, "correlations", selectCorrelationsSQL, func(r rowScanner) (*Correlation, error) {
		c := &Correlation{}
		err := r.Scan(&c.Factor, &c.Strength, &c.Coefficient)
		return c, err
	})
}

// GetRegions returns the distinct depositor regions.
func GetRegions(db *sql.DB) ([]string, error) {
	return queryList(db, "regions", selectRegionsSQL, func(r rowScanner) (string, error) {
		var s string
		err := r.Scan(&s)
		return s, err
	})
}

// GetDepositors returns the depositors matching filter along with the
// unfiltered total.
func GetDepositors(db *sql.DB, filter DepositorFilter) (*DepositorPage, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	band, err := parseAgeGroup(filter.AgeGroup)
	if err != nil {
		return nil, err
	}

	var region *string
	if r := strings.TrimSpace(filter.Region); r != "" && r != AllRegions {
		region = &r
	}

	list, err := queryList(db, "depositors", selectDepositorsSQL, func(r rowScanner) (*Depositor, error) {
		d := &Depositor{}
		err := r.Scan(&d.ID, &d.Region, &d.Age, &d.WaitYears, &d.Status, &d.Priority)
		return d, err
	}, region, band.min, band.max)
	if err != nil {
		return nil, err
	}

	p := &DepositorPage{
		Filter:  filter,
		Records: list,
		Shown:   len(list),
	}

	if err := db.QueryRow(selectDepositorCountSQL).Scan(&p.Total); err != nil {
		return nil, fmt.Errorf("failed to count depositors: %w", err)
	}

	return p, nil
}

func parseAgeGroup(v string) (ageBand, error) {
	v = strings.TrimSpace(v)
	if v == "" || v == AllAges {
		return ageBand{}, nil
	}
	b, ok := ageBands[v]
	if !ok {
		return ageBand{}, fmt.Errorf("%w: %q", ErrUnknownAgeGroup, v)
	}
	return b, nil
}
