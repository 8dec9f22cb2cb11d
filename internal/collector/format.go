package collector

import (
	"encoding/json"
	"fmt"
	"io"

	"protobench/internal/core"
)

// FormatRecord renders the one-line progress entry for a record.
func FormatRecord(r core.Record) string {
	line := fmt.Sprintf("[%s] Request %02d: %.2f ms, ", r.Protocol, r.RequestIndex, r.DurationMS)
	if r.Success {
		return line + "OK"
	}
	return line + "FAIL (" + r.Error + ")"
}

// FormatText writes a summary in human-readable format.
func FormatText(w io.Writer, s *Summary, thresholds *ThresholdResults) {
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "=== %s Experiment Summary ===\n", s.Protocol)
	fmt.Fprintf(w, "Total Requests      : %d\n", s.TotalRequests)
	fmt.Fprintf(w, "Successful Requests : %d\n", s.Successful)
	fmt.Fprintf(w, "Failed Requests     : %d\n", s.Failed)
	fmt.Fprintf(w, "Success Rate        : %.2f %%\n", s.SuccessRate)
	if s.AvgMS != nil {
		fmt.Fprintf(w, "Avg Time (ms)       : %.2f\n", *s.AvgMS)
		fmt.Fprintf(w, "Min Time (ms)       : %.2f\n", *s.MinMS)
		fmt.Fprintf(w, "Max Time (ms)       : %.2f\n", *s.MaxMS)
		fmt.Fprintf(w, "P50 Time (ms)       : %.2f\n", *s.P50MS)
		fmt.Fprintf(w, "P95 Time (ms)       : %.2f\n", *s.P95MS)
	}
	fmt.Fprintf(w, "Messages/Calls per Request : %d\n", s.MessagesPerRequest)

	if thresholds != nil && len(thresholds.Results) > 0 {
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "Thresholds:")
		for _, result := range thresholds.Results {
			symbol := "✓"
			if !result.Passed {
				symbol = "✗"
			}
			fmt.Fprintf(w, "  %s %s: limit %s (actual: %s)\n",
				symbol, result.Name, result.Threshold, result.Actual)
		}
	}
}

// FormatJSON writes a summary in JSON format.
func FormatJSON(w io.Writer, s *Summary, thresholds *ThresholdResults) error {
	output := struct {
		*Summary
		Thresholds *ThresholdResults `json:"thresholds,omitempty"`
	}{
		Summary:    s,
		Thresholds: thresholds,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
