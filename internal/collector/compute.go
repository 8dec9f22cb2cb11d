package collector

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"protobench/internal/core"
)

// Summary aggregates one protocol's records. Latency fields cover
// successful requests only and are nil when there were none.
type Summary struct {
	Protocol           string   `json:"protocol"`
	TotalRequests      int      `json:"total_requests"`
	Successful         int      `json:"successful_requests"`
	Failed             int      `json:"failed_requests"`
	SuccessRate        float64  `json:"success_rate"`
	AvgMS              *float64 `json:"avg_ms"`
	MinMS              *float64 `json:"min_ms"`
	MaxMS              *float64 `json:"max_ms"`
	P50MS              *float64 `json:"p50_ms"`
	P95MS              *float64 `json:"p95_ms"`
	MessagesPerRequest int      `json:"messages_per_request"`
}

// Compute summarizes records. Pure function, no side effects.
func Compute(protocol string, records []core.Record) *Summary {
	s := &Summary{
		Protocol:           protocol,
		TotalRequests:      len(records),
		MessagesPerRequest: core.MessagesPerRequest,
	}

	durations := make([]float64, 0, len(records))
	for _, r := range records {
		if r.Success {
			s.Successful++
			durations = append(durations, r.DurationMS)
		} else {
			s.Failed++
		}
	}

	if s.TotalRequests > 0 {
		s.SuccessRate = float64(s.Successful) / float64(s.TotalRequests) * 100
	}

	if len(durations) == 0 {
		return s
	}

	sort.Float64s(durations)
	s.AvgMS = ptr(stat.Mean(durations, nil))
	s.MinMS = ptr(durations[0])
	s.MaxMS = ptr(durations[len(durations)-1])
	s.P50MS = ptr(stat.Quantile(0.50, stat.Empirical, durations, nil))
	s.P95MS = ptr(stat.Quantile(0.95, stat.Empirical, durations, nil))
	return s
}

func ptr(v float64) *float64 {
	return &v
}
