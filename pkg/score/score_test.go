package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseline() Profile {
	return Profile{
		Age:           65,
		MonthlySalary: 4000,
		Dependents:    3,
		Health:        HealthGood,
		Deferments:    0,
		Occupation:    OccupationPrivate,
	}
}

func texts(factors []Factor) []string {
	out := make([]string, 0, len(factors))
	for _, f := range factors {
		out = append(out, f.Text)
	}
	return out
}

func TestCompute_StrongCandidateClampsToHundred(t *testing.T) {
	res := Compute(Profile{
		Age:           45,
		MonthlySalary: 5000,
		Dependents:    2,
		Health:        HealthGood,
		Deferments:    0,
		Occupation:    OccupationPrivate,
	})

	assert.Equal(t, 100, res.Confidence)
	assert.Equal(t, LikelyToAccept, res.Label)
	assert.Equal(t, []string{
		"Candidate is within the prime age range for performing Hajj.",
		"Strong financial capacity indicated by salary.",
		"Good health status is crucial for Hajj.",
		"No previous deferments suggests strong intention.",
	}, texts(res.Factors))
	for _, f := range res.Factors {
		assert.Equal(t, Positive, f.Polarity)
	}
}

func TestCompute_WeakCandidateClampsToZero(t *testing.T) {
	res := Compute(Profile{
		Age:           75,
		MonthlySalary: 2000,
		Dependents:    5,
		Health:        HealthPoor,
		Deferments:    2,
		Occupation:    OccupationRetired,
	})

	assert.Equal(t, 0, res.Confidence)
	assert.Equal(t, LikelyToDecline, res.Label)
	assert.Equal(t, []string{
		"Advanced age might pose health challenges.",
		"Lower salary might indicate financial constraints.",
		"Fair or Poor health is a significant barrier.",
		"Candidate has deferred 2 time(s) before.",
		"High number of dependents may impact readiness.",
	}, texts(res.Factors))
	for _, f := range res.Factors {
		assert.Equal(t, Negative, f.Polarity)
	}
}

func TestCompute_NeutralBandsEmitNoFactor(t *testing.T) {
	res := Compute(baseline())

	assert.Equal(t, 85, res.Confidence)
	assert.Equal(t, LikelyToAccept, res.Label)
	require.Len(t, res.Factors, 2)
	assert.Equal(t, []string{
		"Good health status is crucial for Hajj.",
		"No previous deferments suggests strong intention.",
	}, texts(res.Factors))
}

func TestCompute_OccupationIgnored(t *testing.T) {
	p := baseline()
	want := Compute(p)
	for _, o := range Occupations {
		p.Occupation = o
		assert.Equal(t, want, Compute(p), "occupation %s", o)
	}
}

func TestCompute_Idempotent(t *testing.T) {
	p := Profile{Age: 52, MonthlySalary: 2800, Dependents: 6, Health: HealthFair, Deferments: 3, Occupation: OccupationOther}
	assert.Equal(t, Compute(p), Compute(p))
}

func TestCompute_LabelThreshold(t *testing.T) {
	// 50 - 25 (fair) + 10 (no deferments) + 15 (prime age) = 50
	p := Profile{Age: 50, MonthlySalary: 4000, Dependents: 0, Health: HealthFair, Occupation: OccupationPrivate}
	res := Compute(p)
	assert.Equal(t, 50, res.Confidence)
	assert.Equal(t, LikelyToAccept, res.Label)

	p.Age = 30
	res = Compute(p)
	assert.Equal(t, 35, res.Confidence)
	assert.Equal(t, LikelyToDecline, res.Label)
}

func TestCompute_InvariantsAcrossDomain(t *testing.T) {
	for age := MinAge; age <= MaxAge; age += 5 {
		for salary := MinSalary; salary <= MaxSalary; salary += 1500 {
			for deps := 0; deps <= MaxDependents; deps += 3 {
				for def := 0; def <= MaxDeferments; def += 2 {
					for _, h := range HealthStatuses {
						p := Profile{Age: age, MonthlySalary: salary, Dependents: deps, Health: h, Deferments: def, Occupation: OccupationOther}
						res := Compute(p)
						require.GreaterOrEqual(t, res.Confidence, 0)
						require.LessOrEqual(t, res.Confidence, 100)
						require.Equal(t, res.Confidence >= 50, res.Accepted(), "profile %+v", p)
					}
				}
			}
		}
	}
}

func TestCompute_DefermentsNeverIncreaseScore(t *testing.T) {
	for _, h := range HealthStatuses {
		p := Profile{Age: 45, MonthlySalary: 3500, Dependents: 1, Health: h, Occupation: OccupationGovernment}
		prev := Compute(p).Confidence
		for d := 1; d <= MaxDeferments; d++ {
			p.Deferments = d
			cur := Compute(p).Confidence
			assert.LessOrEqual(t, cur, prev, "deferments %d health %s", d, h)
			prev = cur
		}
	}
}

func TestCompute_HealthSwing(t *testing.T) {
	p := baseline()
	p.Health = HealthPoor
	poor := Compute(p)
	p.Health = HealthGood
	good := Compute(p)

	assert.Equal(t, 50, good.Confidence-poor.Confidence)
}

func TestCompute_DefermentPenaltyUnbounded(t *testing.T) {
	p := Profile{Age: 45, MonthlySalary: 9000, Dependents: 0, Health: HealthExcellent, Occupation: OccupationPrivate}
	p.Deferments = 4
	// 50 + 15 + 20 + 25 - 40 = 70
	assert.Equal(t, 70, Compute(p).Confidence)
	p.Deferments = 10
	// 50 + 15 + 20 + 25 - 100 = 10
	assert.Equal(t, 10, Compute(p).Confidence)
}

func TestRules_Order(t *testing.T) {
	names := make([]string, 0)
	for _, r := range Rules() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"age", "salary", "health", "deferments", "dependents"}, names)
}

func TestRules_ReturnsCopy(t *testing.T) {
	rs := Rules()
	rs[0] = Rule{Name: "tampered"}
	assert.Equal(t, "age", Rules()[0].Name)
}

func TestAgeRule(t *testing.T) {
	tests := []struct {
		age      int
		delta    int
		polarity Polarity
	}{
		{age: 20, delta: 0},
		{age: 39, delta: 0},
		{age: 40, delta: 15, polarity: Positive},
		{age: 60, delta: 15, polarity: Positive},
		{age: 61, delta: 0},
		{age: 70, delta: 0},
		{age: 71, delta: -10, polarity: Negative},
		{age: 90, delta: -10, polarity: Negative},
	}
	for _, tt := range tests {
		delta, f := ageRule(Profile{Age: tt.age})
		assert.Equal(t, tt.delta, delta, "age %d", tt.age)
		if tt.polarity == "" {
			assert.Nil(t, f, "age %d", tt.age)
			continue
		}
		require.NotNil(t, f, "age %d", tt.age)
		assert.Equal(t, tt.polarity, f.Polarity)
	}
}

func TestSalaryRule(t *testing.T) {
	tests := []struct {
		salary int
		delta  int
		fires  bool
	}{
		{salary: 1000, delta: -15, fires: true},
		{salary: 2999, delta: -15, fires: true},
		{salary: 3000, delta: 0},
		{salary: 4999, delta: 0},
		{salary: 5000, delta: 20, fires: true},
		{salary: 30000, delta: 20, fires: true},
	}
	for _, tt := range tests {
		delta, f := salaryRule(Profile{MonthlySalary: tt.salary})
		assert.Equal(t, tt.delta, delta, "salary %d", tt.salary)
		assert.Equal(t, tt.fires, f != nil, "salary %d", tt.salary)
	}
}

func TestHealthRule(t *testing.T) {
	want := map[Health]int{HealthExcellent: 25, HealthGood: 25, HealthFair: -25, HealthPoor: -25}
	for h, d := range want {
		delta, f := healthRule(Profile{Health: h})
		assert.Equal(t, d, delta, "health %s", h)
		require.NotNil(t, f)
	}
}

func TestDefermentsRule(t *testing.T) {
	delta, f := defermentsRule(Profile{Deferments: 0})
	assert.Equal(t, 10, delta)
	require.NotNil(t, f)
	assert.Equal(t, Positive, f.Polarity)

	delta, f = defermentsRule(Profile{Deferments: 3})
	assert.Equal(t, -30, delta)
	require.NotNil(t, f)
	assert.Equal(t, "Candidate has deferred 3 time(s) before.", f.Text)
}

func TestDependentsRule(t *testing.T) {
	delta, f := dependentsRule(Profile{Dependents: 3})
	assert.Equal(t, 0, delta)
	assert.Nil(t, f)

	delta, f = dependentsRule(Profile{Dependents: 4})
	assert.Equal(t, -10, delta)
	require.NotNil(t, f)
	assert.Equal(t, Negative, f.Polarity)
}

func TestFactor_String(t *testing.T) {
	assert.Equal(t, "Positive Factor: ok", Factor{Polarity: Positive, Text: "ok"}.String())
	assert.Equal(t, "Negative Factor: bad", Factor{Polarity: Negative, Text: "bad"}.String())
}
