package sample

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/mchmarny/hajjdash/pkg/score"
)

const (
	// SizeDefault is the number of candidates in a generated batch.
	SizeDefault = 200

	ageMin        = 30
	ageMax        = 80
	salaryMin     = 2500
	salaryMax     = 15000
	dependentsMax = 9
)

var (
	healthWeights = []weighted[score.Health]{
		{score.HealthExcellent, 0.4},
		{score.HealthGood, 0.4},
		{score.HealthFair, 0.1},
		{score.HealthPoor, 0.1},
	}

	defermentWeights = []weighted[int]{
		{0, 0.7},
		{1, 0.2},
		{2, 0.1},
	}

	occupations = []score.Occupation{
		score.OccupationGovernment,
		score.OccupationPrivate,
		score.OccupationSelfEmployed,
		score.OccupationRetired,
	}

	healthCodes = map[score.Health]int{
		score.HealthExcellent: 4,
		score.HealthGood:      3,
		score.HealthFair:      2,
		score.HealthPoor:      1,
	}
)

type weighted[T any] struct {
	val    T
	weight float64
}

func pick[T any](r *rand.Rand, items []weighted[T]) T {
	x := r.Float64()
	for _, it := range items {
		if x < it.weight {
			return it.val
		}
		x -= it.weight
	}
	return items[len(items)-1].val
}

// Generator draws synthetic candidate profiles. It is not safe for
// concurrent use.
type Generator struct {
	rnd  *rand.Rand
	seed uint64
}

// NewGenerator returns a generator for seed. A zero seed picks a random one.
func NewGenerator(seed uint64) *Generator {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Generator{
		rnd:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		seed: seed,
	}
}

// Seed returns the seed the generator was created with.
func (g *Generator) Seed() uint64 {
	return g.seed
}

// Profile draws one candidate profile.
func (g *Generator) Profile() score.Profile {
	return score.Profile{
		Age:           ageMin + g.rnd.IntN(ageMax-ageMin),
		MonthlySalary: salaryMin + g.rnd.IntN(salaryMax-salaryMin),
		Dependents:    g.rnd.IntN(dependentsMax),
		Health:        pick(g.rnd, healthWeights),
		Occupation:    occupations[g.rnd.IntN(len(occupations))],
		Deferments:    pick(g.rnd, defermentWeights),
	}
}

// Profiles draws n candidate profiles.
func (g *Generator) Profiles(n int) []score.Profile {
	list := make([]score.Profile, 0, n)
	for i := 0; i < n; i++ {
		list = append(list, g.Profile())
	}
	return list
}

// Row is one scored candidate, encoded for the parallel coordinates chart.
type Row struct {
	score.Profile `yaml:",inline"`

	Prediction     score.Label `json:"prediction" yaml:"prediction"`
	Confidence     int         `json:"confidence" yaml:"confidence"`
	HealthCode     int         `json:"health_numeric" yaml:"healthNumeric"`
	PredictionCode int         `json:"prediction_code" yaml:"predictionCode"`
}

// Summary aggregates a batch.
type Summary struct {
	Total          int     `json:"total" yaml:"total"`
	Accept         int     `json:"accept" yaml:"accept"`
	Decline        int     `json:"decline" yaml:"decline"`
	AcceptRate     float64 `json:"accept_rate" yaml:"acceptRate"`
	MeanConfidence float64 `json:"mean_confidence" yaml:"meanConfidence"`
}

// Batch is a scored synthetic sample.
type Batch struct {
	Seed    uint64  `json:"seed" yaml:"seed"`
	Summary Summary `json:"summary" yaml:"summary"`
	Rows    []Row   `json:"rows" yaml:"rows"`
}

// Dimension describes one parallel coordinates axis.
type Dimension struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
}

// Dimensions returns the chart axes in display order.
func Dimensions() []Dimension {
	return []Dimension{
		{Key: "age", Label: "Age"},
		{Key: "salary", Label: "Salary (MYR)"},
		{Key: "dependents", Label: "Dependents"},
		{Key: "health_numeric", Label: "Health (4=Excellent, 1=Poor)"},
		{Key: "deferments", Label: "Deferments"},
	}
}

// Build draws size profiles from gen and scores them.
func Build(ctx context.Context, gen *Generator, size, concurrency int) (*Batch, error) {
	if gen == nil {
		return nil, errors.New("generator required")
	}
	if size < 0 {
		return nil, fmt.Errorf("invalid sample size: %d", size)
	}

	profiles := gen.Profiles(size)
	results, err := score.Batch(ctx, profiles, concurrency)
	if err != nil {
		return nil, fmt.Errorf("scoring sample batch: %w", err)
	}

	b := &Batch{
		Seed: gen.Seed(),
		Rows: make([]Row, 0, size),
	}

	confSum := 0
	for i, p := range profiles {
		res := results[i]
		code := 0
		if res.Accepted() {
			code = 1
			b.Summary.Accept++
		} else {
			b.Summary.Decline++
		}
		confSum += res.Confidence
		b.Rows = append(b.Rows, Row{
			Profile:        p,
			Prediction:     res.Label,
			Confidence:     res.Confidence,
			HealthCode:     healthCodes[p.Health],
			PredictionCode: code,
		})
	}

	b.Summary.Total = len(b.Rows)
	if b.Summary.Total > 0 {
		b.Summary.AcceptRate = float64(b.Summary.Accept) / float64(b.Summary.Total)
		b.Summary.MeanConfidence = float64(confSum) / float64(b.Summary.Total)
	}

	return b, nil
}
