package core

import (
	"context"
)

// NullReporter discards all records (used during warmup).
var NullReporter Reporter = nullReporter{}

type nullReporter struct{}

func (nullReporter) Report(Record) {}

// RunnerConfig controls execution behavior.
type RunnerConfig struct {
	WarmupIters int     // exchanges before the measured pass, never recorded
	Limiter     Limiter // nil = no pacing
}

// Runner drives one exchange strategy over a dataset, strictly in order.
// A Runner is NOT safe for concurrent use.
type Runner struct {
	exchange Exchange
	reporter Reporter
	config   RunnerConfig
}

// NewRunner creates a Runner. reporter may be nil.
func NewRunner(exchange Exchange, reporter Reporter, config RunnerConfig) *Runner {
	if reporter == nil {
		reporter = NullReporter
	}
	return &Runner{
		exchange: exchange,
		reporter: reporter,
		config:   config,
	}
}

// Run executes the warmup iterations, then one exchange per item.
// Records are returned in input order, one per item. If ctx is cancelled the
// records completed before cancellation are returned together with ctx.Err();
// the exchange in flight at that moment is dropped.
func (r *Runner) Run(ctx context.Context, items [][]int) ([]Record, error) {
	if len(items) > 0 {
		for i := 0; i < r.config.WarmupIters; i++ {
			if err := r.wait(ctx); err != nil {
				return nil, err
			}
			rec := r.exchange.Exchange(ctx, i+1, items[i%len(items)])
			NullReporter.Report(rec)
		}
	}

	records := make([]Record, 0, len(items))
	for i, numbers := range items {
		if err := r.wait(ctx); err != nil {
			return records, err
		}
		rec := r.exchange.Exchange(ctx, i+1, numbers)
		if err := ctx.Err(); err != nil {
			// cut short by cancellation, not a worker outcome
			return records, err
		}
		r.reporter.Report(rec)
		records = append(records, rec)
	}
	return records, nil
}

func (r *Runner) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.config.Limiter == nil {
		return nil
	}
	return r.config.Limiter.Wait(ctx)
}
