package score

import "fmt"

const (
	baseScore     = 50
	acceptAtLeast = 50
	minConfidence = 0
	maxConfidence = 100

	primeAgeLow    = 40
	primeAgeHigh   = 60
	advancedAge    = 70
	primeAgeBonus  = 15
	advancedAgeCut = 10

	strongSalary      = 5000
	lowSalary         = 3000
	strongSalaryBonus = 20
	lowSalaryCut      = 15

	healthSwing = 25

	perDefermentCut   = 10
	noDefermentsBonus = 10

	manyDependents    = 3
	manyDependentsCut = 10
)

// Label is the binary prediction derived from the confidence score.
type Label string

const (
	LikelyToAccept  Label = "Likely to Accept"
	LikelyToDecline Label = "Likely to Decline"
)

// Polarity tags a factor as helping or hurting the score.
type Polarity string

const (
	Positive Polarity = "positive"
	Negative Polarity = "negative"
)

// Factor explains one rule's contribution.
type Factor struct {
	Polarity Polarity `json:"polarity" yaml:"polarity"`
	Text     string   `json:"text" yaml:"text"`
}

func (f Factor) String() string {
	if f.Polarity == Positive {
		return "Positive Factor: " + f.Text
	}
	return "Negative Factor: " + f.Text
}

// Result is the outcome of scoring one profile.
type Result struct {
	Label      Label    `json:"prediction" yaml:"prediction"`
	Confidence int      `json:"confidence" yaml:"confidence"`
	Factors    []Factor `json:"factors" yaml:"factors"`
}

// Accepted reports whether the result carries the accept label.
func (r Result) Accepted() bool {
	return r.Label == LikelyToAccept
}

// Rule is one adjustment: Eval returns the score delta and, when the rule
// fires, the factor explaining it.
type Rule struct {
	Name string
	Eval func(p Profile) (int, *Factor)
}

var rules = []Rule{
	{Name: "age", Eval: ageRule},
	{Name: "salary", Eval: salaryRule},
	{Name: "health", Eval: healthRule},
	{Name: "deferments", Eval: defermentsRule},
	{Name: "dependents", Eval: dependentsRule},
}

// Rules returns the rule set in evaluation order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Compute scores p. It trusts its input; see Validate.
func Compute(p Profile) Result {
	raw := baseScore
	factors := make([]Factor, 0, len(rules))
	for _, r := range rules {
		delta, f := r.Eval(p)
		raw += delta
		if f != nil {
			factors = append(factors, *f)
		}
	}

	confidence := clamp(raw, minConfidence, maxConfidence)
	label := LikelyToDecline
	if confidence >= acceptAtLeast {
		label = LikelyToAccept
	}

	return Result{
		Label:      label,
		Confidence: confidence,
		Factors:    factors,
	}
}

func ageRule(p Profile) (int, *Factor) {
	switch {
	case p.Age >= primeAgeLow && p.Age <= primeAgeHigh:
		return primeAgeBonus, positive("Candidate is within the prime age range for performing Hajj.")
	case p.Age > advancedAge:
		return -advancedAgeCut, negative("Advanced age might pose health challenges.")
	}
	return 0, nil
}

func salaryRule(p Profile) (int, *Factor) {
	switch {
	case p.MonthlySalary >= strongSalary:
		return strongSalaryBonus, positive("Strong financial capacity indicated by salary.")
	case p.MonthlySalary < lowSalary:
		return -lowSalaryCut, negative("Lower salary might indicate financial constraints.")
	}
	return 0, nil
}

func healthRule(p Profile) (int, *Factor) {
	if p.Health == HealthExcellent || p.Health == HealthGood {
		return healthSwing, positive("Good health status is crucial for Hajj.")
	}
	return -healthSwing, negative("Fair or Poor health is a significant barrier.")
}

// Deferment penalty scales with the count and has no floor.
func defermentsRule(p Profile) (int, *Factor) {
	if p.Deferments > 0 {
		return -perDefermentCut * p.Deferments,
			negative(fmt.Sprintf("Candidate has deferred %d time(s) before.", p.Deferments))
	}
	return noDefermentsBonus, positive("No previous deferments suggests strong intention.")
}

func dependentsRule(p Profile) (int, *Factor) {
	if p.Dependents > manyDependents {
		return -manyDependentsCut, negative("High number of dependents may impact readiness.")
	}
	return 0, nil
}

func positive(text string) *Factor {
	return &Factor{Polarity: Positive, Text: text}
}

func negative(text string) *Factor {
	return &Factor{Polarity: Negative, Text: text}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
