package collector

import (
	"fmt"
	"strconv"
	"strings"
)

// Thresholds defines pass/fail criteria for one protocol run.
type Thresholds struct {
	MaxAvgMS       float64 `yaml:"max_avg_ms"`
	MaxP95MS       float64 `yaml:"max_p95_ms"`
	MinSuccessRate string  `yaml:"min_success_rate"` // e.g. "95%"
}

// ThresholdResult represents the outcome of a single threshold check.
type ThresholdResult struct {
	Name      string `json:"name"`
	Passed    bool   `json:"passed"`
	Threshold string `json:"threshold"`
	Actual    string `json:"actual"`
}

// ThresholdResults contains all threshold check results.
type ThresholdResults struct {
	Passed  bool              `json:"passed"`
	Results []ThresholdResult `json:"results"`
}

// Validate reports a malformed success-rate percentage.
func (t *Thresholds) Validate() error {
	if t == nil || t.MinSuccessRate == "" {
		return nil
	}
	if _, err := parsePercentage(t.MinSuccessRate); err != nil {
		return fmt.Errorf("thresholds.min_success_rate: %w", err)
	}
	return nil
}

// Check evaluates all thresholds against a summary. Latency limits fail
// when the run had no successful request to measure.
func (t *Thresholds) Check(s *Summary) *ThresholdResults {
	if t == nil {
		return &ThresholdResults{Passed: true, Results: nil}
	}

	results := &ThresholdResults{
		Passed:  true,
		Results: make([]ThresholdResult, 0),
	}

	results.checkLatency("avg_ms", t.MaxAvgMS, s.AvgMS)
	results.checkLatency("p95_ms", t.MaxP95MS, s.P95MS)

	if t.MinSuccessRate != "" {
		results.checkSuccessRate(t.MinSuccessRate, s)
	}

	return results
}

func (r *ThresholdResults) checkLatency(name string, limit float64, actual *float64) {
	if limit <= 0 {
		return
	}

	passed := actual != nil && *actual < limit
	r.add(ThresholdResult{
		Name:      name,
		Passed:    passed,
		Threshold: FormatMS(&limit),
		Actual:    FormatMS(actual),
	})
}

func (r *ThresholdResults) checkSuccessRate(threshold string, s *Summary) {
	minRate, err := parsePercentage(threshold)
	if err != nil {
		return
	}

	r.add(ThresholdResult{
		Name:      "success_rate",
		Passed:    s.SuccessRate >= minRate,
		Threshold: threshold,
		Actual:    fmt.Sprintf("%.2f%%", s.SuccessRate),
	})
}

func (r *ThresholdResults) add(result ThresholdResult) {
	if !result.Passed {
		r.Passed = false
	}
	r.Results = append(r.Results, result)
}

func parsePercentage(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, "%") {
		return 0, fmt.Errorf("invalid percentage format: %s", s)
	}
	s = strings.TrimSuffix(s, "%")
	return strconv.ParseFloat(s, 64)
}

// FormatMS formats an optional millisecond value for display.
func FormatMS(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f ms", *v)
}

// Violations returns only the failed threshold results.
func (r *ThresholdResults) Violations() []ThresholdResult {
	violations := make([]ThresholdResult, 0)
	for _, result := range r.Results {
		if !result.Passed {
			violations = append(violations, result)
		}
	}
	return violations
}
