// Package score computes an aggregate score from normalized metrics.
package score

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Status labels returned with a score.
const (
	StatusPass   = "pass"
	StatusReview = "review"
)

// ErrNoMetrics is returned when there is nothing to score.
var ErrNoMetrics = errors.New("metrics are required to compute a score")

// Result is the outcome of Compute.
type Result struct {
	Score  float64 `json:"score"  example:"0.75"`
	Status string  `json:"status" example:"pass"`
}

// Compute averages metrics, rounded to three decimals, and labels the result
// pass when it reaches threshold.
func Compute(metrics map[string]float64, threshold float64) (Result, error) {
	if len(metrics) == 0 {
		return Result{}, ErrNoMetrics
	}
	var total float64
	for _, v := range metrics {
		total += v
	}
	s := math.Round(total/float64(len(metrics))*1000) / 1000

	status := StatusReview
	if s >= threshold {
		status = StatusPass
	}
	return Result{Score: s, Status: status}, nil
}

// Validate checks raw decoded metrics: at least one entry, each numeric and
// within [0, 1]. It returns the numeric map and every problem found, in key order.
func Validate(raw map[string]any) (map[string]float64, []string) {
	if len(raw) == 0 {
		return nil, []string{"At least one metric is required."}
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var problems []string
	out := make(map[string]float64, len(raw))
	for _, k := range keys {
		v, ok := raw[k].(float64)
		if !ok {
			problems = append(problems, fmt.Sprintf("Metric '%s' must be numeric.", k))
			continue
		}
		if v < 0 || v > 1 {
			problems = append(problems, fmt.Sprintf("Metric '%s' must be between 0 and 1.", k))
			continue
		}
		out[k] = v
	}
	return out, problems
}
