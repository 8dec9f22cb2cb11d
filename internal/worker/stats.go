// Package worker implements the stateless functions behind the worker
// endpoints and the JSON shapes exchanged with them.
package worker

import (
	"errors"
	"fmt"
	"math"

	"github.com/tidwall/gjson"
	"gonum.org/v1/gonum/stat"
)

// OperationAnalyzeAndSummarize is the only operation the agent accepts.
const OperationAnalyzeAndSummarize = "analyze_and_summarize"

var (
	ErrEmptyInput           = errors.New("empty input list")
	ErrInvalidStats         = errors.New("missing or invalid 'stats' in args")
	ErrUnsupportedOperation = errors.New("unsupported operation")
)

// Stats describes one numeric array.
type Stats struct {
	Count int     `json:"count"`
	Min   int     `json:"min"`
	Max   int     `json:"max"`
	Mean  float64 `json:"mean"`
}

// ComputeStats returns count, min, max and mean of numbers.
func ComputeStats(numbers []int) (Stats, error) {
	if len(numbers) == 0 {
		return Stats{}, ErrEmptyInput
	}

	values := make([]float64, len(numbers))
	s := Stats{Count: len(numbers), Min: numbers[0], Max: numbers[0]}
	for i, n := range numbers {
		values[i] = float64(n)
		if n < s.Min {
			s.Min = n
		}
		if n > s.Max {
			s.Max = n
		}
	}
	s.Mean = stat.Mean(values, nil)
	return s, nil
}

// Summarize renders stats as a single sentence.
func Summarize(s Stats) string {
	return fmt.Sprintf(
		"The dataset contains %d values. The minimum value is %d, the maximum value is %d, and the average value is %.2f.",
		s.Count, s.Min, s.Max, s.Mean)
}

// Process runs the combined analyze-and-summarize operation.
func Process(operation string, numbers []int) (Stats, string, error) {
	if operation != OperationAnalyzeAndSummarize {
		return Stats{}, "", fmt.Errorf("%w: %s", ErrUnsupportedOperation, operation)
	}
	s, err := ComputeStats(numbers)
	if err != nil {
		return Stats{}, "", err
	}
	return s, Summarize(s), nil
}

// ParseStats decodes a stats payload, requiring an object with numeric
// count, min, max and mean. count, min and max must be integral.
func ParseStats(raw []byte) (Stats, error) {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return Stats{}, ErrInvalidStats
	}
	obj := gjson.ParseBytes(raw)
	if !obj.IsObject() {
		return Stats{}, ErrInvalidStats
	}

	var missing []error
	fields := make(map[string]gjson.Result, 4)
	for _, key := range []string{"count", "min", "max", "mean"} {
		v := obj.Get(key)
		if v.Type != gjson.Number {
			missing = append(missing, fmt.Errorf("field %q missing or not a number", key))
			continue
		}
		if key != "mean" && v.Float() != math.Trunc(v.Float()) {
			missing = append(missing, fmt.Errorf("field %q must be an integer, got %s", key, v.Raw))
			continue
		}
		fields[key] = v
	}
	if len(missing) > 0 {
		return Stats{}, fmt.Errorf("%w: %w", ErrInvalidStats, errors.Join(missing...))
	}

	return Stats{
		Count: int(fields["count"].Int()),
		Min:   int(fields["min"].Int()),
		Max:   int(fields["max"].Int()),
		Mean:  fields["mean"].Float(),
	}, nil
}
