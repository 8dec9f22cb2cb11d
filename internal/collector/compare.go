package collector

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// Comparison places two summaries side by side.
type Comparison struct {
	Base  *Summary `json:"base"`
	Other *Summary `json:"other"`
	// DeltaAvgMS is Other minus Base; nil unless both runs had successes.
	DeltaAvgMS       *float64 `json:"delta_avg_ms"`
	DeltaP95MS       *float64 `json:"delta_p95_ms"`
	DeltaSuccessRate float64  `json:"delta_success_rate"`
}

// Compare computes the differences of other relative to base.
func Compare(base, other *Summary) *Comparison {
	return &Comparison{
		Base:             base,
		Other:            other,
		DeltaAvgMS:       delta(base.AvgMS, other.AvgMS),
		DeltaP95MS:       delta(base.P95MS, other.P95MS),
		DeltaSuccessRate: other.SuccessRate - base.SuccessRate,
	}
}

func delta(base, other *float64) *float64 {
	if base == nil || other == nil {
		return nil
	}
	return ptr(*other - *base)
}

// FormatComparison writes a two-column table of both summaries.
func FormatComparison(w io.Writer, c *Comparison) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "\t%s\t%s\tdelta\n", c.Base.Protocol, c.Other.Protocol)
	fmt.Fprintf(tw, "Total Requests\t%d\t%d\t\n", c.Base.TotalRequests, c.Other.TotalRequests)
	fmt.Fprintf(tw, "Successful\t%d\t%d\t\n", c.Base.Successful, c.Other.Successful)
	fmt.Fprintf(tw, "Success Rate\t%.2f%%\t%.2f%%\t%+.2f%%\n", c.Base.SuccessRate, c.Other.SuccessRate, c.DeltaSuccessRate)
	fmt.Fprintf(tw, "Avg\t%s\t%s\t%s\n", FormatMS(c.Base.AvgMS), FormatMS(c.Other.AvgMS), formatDelta(c.DeltaAvgMS))
	fmt.Fprintf(tw, "Min\t%s\t%s\t\n", FormatMS(c.Base.MinMS), FormatMS(c.Other.MinMS))
	fmt.Fprintf(tw, "Max\t%s\t%s\t\n", FormatMS(c.Base.MaxMS), FormatMS(c.Other.MaxMS))
	fmt.Fprintf(tw, "P95\t%s\t%s\t%s\n", FormatMS(c.Base.P95MS), FormatMS(c.Other.P95MS), formatDelta(c.DeltaP95MS))
	fmt.Fprintf(tw, "Messages/Request\t%d\t%d\t\n", c.Base.MessagesPerRequest, c.Other.MessagesPerRequest)
	tw.Flush()
}

func formatDelta(d *float64) string {
	if d == nil {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f ms", *d)
}
