// Package collector gathers request records and computes experiment
// summaries from them.
package collector

import (
	"context"
	"sync"

	"protobench/internal/core"
)

// Collector accumulates records in arrival order. It implements
// core.Reporter and is safe for concurrent use.
type Collector struct {
	mu      sync.Mutex
	records []core.Record
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{records: make([]core.Record, 0)}
}

// Report appends a record.
func (c *Collector) Report(r core.Record) {
	c.mu.Lock()
	c.records = append(c.records, r)
	c.mu.Unlock()
}

// Records returns a copy of the collected records.
func (c *Collector) Records() []core.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make([]core.Record, len(c.records))
	copy(result, c.records)
	return result
}

// Run executes one protocol over items and summarizes the outcome. Each
// record goes to reporter as it is produced. On cancellation the summary
// covers the records gathered so far and the context error is returned.
func Run(ctx context.Context, protocol string, items [][]int, exchange core.Exchange, reporter core.Reporter, cfg core.RunnerConfig) ([]core.Record, *Summary, error) {
	c := NewCollector()
	reporters := core.Reporters{c}
	if reporter != nil {
		reporters = append(reporters, reporter)
	}

	_, err := core.NewRunner(exchange, reporters, cfg).Run(ctx, items)
	records := c.Records()
	return records, Compute(protocol, records), err
}
