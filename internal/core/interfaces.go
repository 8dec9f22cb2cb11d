// Package core defines the request record and the interfaces shared by the
// protocol drivers, the experiment runner and the collector.
package core

import (
	"context"
	"time"
)

// MessagesPerRequest is the message/call count recorded for every request.
// A2A counts its single call as two agent messages (request and reply);
// MCP counts its two tool calls. The value is fixed, not measured.
const MessagesPerRequest = 2

// Record is the immutable outcome of one dataset item under one protocol.
type Record struct {
	Protocol        string    `json:"protocol"`
	RequestIndex    int       `json:"request_index"`
	RequestID       string    `json:"request_id,omitempty"`
	StartedAt       time.Time `json:"started_at"`
	DurationMS      float64   `json:"duration_ms"`
	Success         bool      `json:"success"`
	Error           string    `json:"error,omitempty"`
	Summary         string    `json:"summary,omitempty"`
	MessagesOrCalls int       `json:"messages_or_calls"`
}

// NewRecord builds a Record from the outcome of one exchange.
// A nil err marks the request successful; summary is kept only then.
func NewRecord(protocol string, index int, requestID string, startedAt time.Time, elapsed time.Duration, summary string, err error) Record {
	r := Record{
		Protocol:        protocol,
		RequestIndex:    index,
		RequestID:       requestID,
		StartedAt:       startedAt,
		DurationMS:      Milliseconds(elapsed),
		Success:         err == nil,
		MessagesOrCalls: MessagesPerRequest,
	}
	if err != nil {
		r.Error = err.Error()
	} else {
		r.Summary = summary
	}
	return r
}

// Exchange runs one protocol's interaction pattern for one dataset item.
// index is 1-based. Failures are reported in the returned Record, never as
// a panic or a separate error.
type Exchange interface {
	Exchange(ctx context.Context, index int, numbers []int) Record
}

// ExchangeFunc adapts a function to the Exchange interface.
type ExchangeFunc func(ctx context.Context, index int, numbers []int) Record

func (f ExchangeFunc) Exchange(ctx context.Context, index int, numbers []int) Record {
	return f(ctx, index, numbers)
}

// Reporter receives each Record as soon as it is produced.
type Reporter interface {
	Report(Record)
}

// Limiter paces requests. Wait blocks until the next request may start.
type Limiter interface {
	Wait(ctx context.Context) error
}

// Reporters fans a Record out to several reporters in order.
type Reporters []Reporter

func (rs Reporters) Report(r Record) {
	for _, rep := range rs {
		rep.Report(r)
	}
}
