package score

import (
	"errors"
	"fmt"
	"strings"
)

const (
	MinAge        = 20
	MaxAge        = 90
	MinSalary     = 1000
	MaxSalary     = 30000
	MaxDependents = 15
	MaxDeferments = 10
)

// ErrInvalidProfile is matched by every validation error returned from this package.
var ErrInvalidProfile = errors.New("invalid profile")

// Health is the self-reported health status of a candidate.
type Health string

const (
	HealthExcellent Health = "Excellent"
	HealthGood      Health = "Good"
	HealthFair      Health = "Fair"
	HealthPoor      Health = "Poor"
)

// HealthStatuses lists the valid health values in display order.
var HealthStatuses = []Health{HealthExcellent, HealthGood, HealthFair, HealthPoor}

// Occupation is the candidate's occupation sector. It is not used by the rules.
type Occupation string

const (
	OccupationGovernment   Occupation = "Government"
	OccupationPrivate      Occupation = "Private"
	OccupationSelfEmployed Occupation = "Self-Employed"
	OccupationRetired      Occupation = "Retired"
	OccupationOther        Occupation = "Other"
)

// Occupations lists the valid occupation values in display order.
var Occupations = []Occupation{
	OccupationGovernment,
	OccupationPrivate,
	OccupationSelfEmployed,
	OccupationRetired,
	OccupationOther,
}

// Profile holds the six inputs collected for a candidate.
type Profile struct {
	Age           int        `json:"age" yaml:"age"`
	MonthlySalary int        `json:"salary" yaml:"salary"`
	Dependents    int        `json:"dependents" yaml:"dependents"`
	Health        Health     `json:"health" yaml:"health"`
	Deferments    int        `json:"deferments" yaml:"deferments"`
	Occupation    Occupation `json:"occupation" yaml:"occupation"`
}

// InvalidProfileError names the field that failed validation.
type InvalidProfileError struct {
	Field  string
	Value  any
	Reason string
}

func (e *InvalidProfileError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

func (e *InvalidProfileError) Is(target error) bool {
	return target == ErrInvalidProfile
}

// Validate checks p against the documented input domain. Compute does not
// call it; input surfaces must call it before scoring.
func Validate(p Profile) error {
	if err := checkRange("age", p.Age, MinAge, MaxAge); err != nil {
		return err
	}
	if err := checkRange("salary", p.MonthlySalary, MinSalary, MaxSalary); err != nil {
		return err
	}
	if err := checkRange("dependents", p.Dependents, 0, MaxDependents); err != nil {
		return err
	}
	if !contains(HealthStatuses, p.Health) {
		return &InvalidProfileError{Field: "health", Value: p.Health, Reason: "unknown health status"}
	}
	if err := checkRange("deferments", p.Deferments, 0, MaxDeferments); err != nil {
		return err
	}
	if !contains(Occupations, p.Occupation) {
		return &InvalidProfileError{Field: "occupation", Value: p.Occupation, Reason: "unknown occupation sector"}
	}
	return nil
}

// Evaluate validates p and then scores it.
func Evaluate(p Profile) (Result, error) {
	if err := Validate(p); err != nil {
		return Result{}, err
	}
	return Compute(p), nil
}

// ParseHealth converts a case-insensitive name into a Health value.
func ParseHealth(s string) (Health, error) {
	for _, h := range HealthStatuses {
		if strings.EqualFold(strings.TrimSpace(s), string(h)) {
			return h, nil
		}
	}
	return "", &InvalidProfileError{Field: "health", Value: s, Reason: "unknown health status"}
}

// ParseOccupation converts a case-insensitive name into an Occupation value.
func ParseOccupation(s string) (Occupation, error) {
	for _, o := range Occupations {
		if strings.EqualFold(strings.TrimSpace(s), string(o)) {
			return o, nil
		}
	}
	return "", &InvalidProfileError{Field: "occupation", Value: s, Reason: "unknown occupation sector"}
}

func checkRange(field string, v, lo, hi int) error {
	if v < lo || v > hi {
		return &InvalidProfileError{
			Field:  field,
			Value:  v,
			Reason: fmt.Sprintf("must be between %d and %d", lo, hi),
		}
	}
	return nil
}

func contains[T comparable](list []T, val T) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
