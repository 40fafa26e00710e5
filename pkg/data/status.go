package data

import "database/sql"

const (
	selectStatTestsSQL = `SELECT test, description, p_value, result
		FROM stat_test
		ORDER BY position
	`

	selectSystemHealthSQL = `SELECT system, status, data_quality, latency
		FROM system_health
		ORDER BY position
	`

	selectSuccessMetricsSQL = `SELECT name, target, progress, caption, achieved
		FROM success_metric
		ORDER BY position
	`
)

// Health states shared by the seeded table and live probes.
const (
	HealthHealthy = "healthy"
	HealthWarning = "warning"
	HealthError   = "error"
)

type StatTest struct {
	Test        string `json:"test" yaml:"test"`
	Description string `json:"description" yaml:"description"`
	PValue      string `json:"p_value" yaml:"pValue"`
	Result      string `json:"result" yaml:"result"`
}

type SystemHealth struct {
	System      string `json:"system" yaml:"system"`
	Status      string `json:"status" yaml:"status"`
	DataQuality string `json:"data_quality" yaml:"dataQuality"`
	Latency     string `json:"latency" yaml:"latency"`
}

type SuccessMetric struct {
	Name     string `json:"name" yaml:"name"`
	Target   string `json:"target" yaml:"target"`
	Progress int    `json:"progress" yaml:"progress"`
	Caption  string `json:"caption" yaml:"caption"`
	Achieved bool   `json:"achieved" yaml:"achieved"`
}

func GetStatTests(db *sql.DB) ([]*StatTest, error) {
	return queryList(db, "statistical tests", selectStatTestsSQL, func(r rowScanner) (*StatTest, error) {
		s := &StatTest{}
		err := r.Scan(&s.Test, &s.Description, &s.PValue, &s.Result)
		return s, err
	})
}

func GetSystemHealth(db *sql.DB) ([]*SystemHealth, error) {
	return queryList(db, "system health", selectSystemHealthSQL, func(r rowScanner) (*SystemHealth, error) {
		s := &SystemHealth{}
		err := r.Scan(&s.System, &s.Status, &s.DataQuality, &s.Latency)
		return s, err
	})
}

func GetSuccessMetrics(db *sql.DB) ([]*SuccessMetric, error) {
	return queryList(db, "success metrics", selectSuccessMetricsSQL, func(r rowScanner) (*SuccessMetric, error) {
		m := &SuccessMetric{}
		err := r.Scan(&m.Name, &m.Target, &m.Progress, &m.Caption, &m.Achieved)
		return m, err
	})
}
