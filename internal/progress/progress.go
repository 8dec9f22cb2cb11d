// Package progress prints per-request status lines while an experiment runs.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"protobench/internal/collector"
	"protobench/internal/core"
)

// Progress is a core.Reporter that writes one line per record.
type Progress struct {
	startTime time.Time
	total     int
	done      int
	failed    int
	quiet     bool
	output    io.Writer
	mu        sync.Mutex
}

func NewProgress(quiet bool) *Progress {
	return &Progress{
		quiet:  quiet,
		output: os.Stderr,
	}
}

func (p *Progress) SetOutput(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.output = w
}

// Start announces a run of total requests for protocol.
func (p *Progress) Start(protocol string, total int) {
	p.mu.Lock()
	p.startTime = time.Now()
	p.total = total
	p.done = 0
	p.failed = 0
	p.mu.Unlock()

	p.Printf("Running %s experiment over %d requests", protocol, total)
}

// Report prints the status line for r.
func (p *Progress) Report(r core.Record) {
	p.mu.Lock()
	p.done++
	if !r.Success {
		p.failed++
	}
	p.mu.Unlock()

	p.Print(collector.FormatRecord(r))
}

// Stop prints the closing tally of the current run.
func (p *Progress) Stop() {
	p.mu.Lock()
	done, failed, total := p.done, p.failed, p.total
	elapsed := time.Since(p.startTime).Round(time.Millisecond)
	p.mu.Unlock()

	p.Printf("Completed %d/%d requests in %v (%d failed)", done, total, elapsed, failed)
}

func (p *Progress) Print(message string) {
	if p.quiet {
		return
	}
	p.mu.Lock()
	fmt.Fprintln(p.output, message)
	p.mu.Unlock()
}

func (p *Progress) Printf(format string, args ...interface{}) {
	if p.quiet {
		return
	}
	p.mu.Lock()
	fmt.Fprintf(p.output, format+"\n", args...)
	p.mu.Unlock()
}
