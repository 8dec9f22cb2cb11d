// Package protocol implements the two exchange strategies under comparison:
// the single-call A2A task and the chained two-call MCP tool invocation.
// Both satisfy core.Exchange and produce one core.Record per dataset item.
package protocol

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	transport "protobench/internal/http"
	"protobench/internal/jsonpath"
	"protobench/internal/worker"
)

// Protocol identifiers as written to records and reports.
const (
	NameA2A = "A2A"
	NameMCP = "MCP"
)

var (
	// ErrWorkerFailed wraps a non-2xx reply or a status other than "success".
	ErrWorkerFailed = errors.New("worker failed")
	// ErrEmptySummary marks a successful reply without summary text.
	ErrEmptySummary = errors.New("empty summary returned from worker")
	// ErrInvalidReply marks a successful reply missing required fields.
	ErrInvalidReply = errors.New("invalid reply")
)

// Poster performs one remote call. *http.Client from internal/http
// implements it; tests substitute in-memory fakes.
type Poster interface {
	PostJSON(ctx context.Context, name, url string, payload any) transport.Reply
}

// IDFunc returns a fresh request identifier.
type IDFunc func() string

// NewUUID is the default IDFunc.
func NewUUID() string {
	return uuid.NewString()
}

var statsFields = map[string]string{
	"count": "$.stats.count",
	"min":   "$.stats.min",
	"max":   "$.stats.max",
	"mean":  "$.stats.mean",
}

// checkReply turns a reply into nil or a descriptive error. A worker's own
// error message is included verbatim.
func checkReply(call string, reply transport.Reply) error {
	if reply.Err != nil {
		return fmt.Errorf("%s: %w", call, reply.Err)
	}

	status, _ := jsonpath.String(reply.Body, "$.status")
	if reply.OK() && status == worker.StatusSuccess {
		return nil
	}

	if msg, ok := jsonpath.String(reply.Body, "$.error"); ok && msg != "" {
		return fmt.Errorf("%s: %w: %s", call, ErrWorkerFailed, msg)
	}
	if !reply.OK() {
		return fmt.Errorf("%s: %w: HTTP %s", call, ErrWorkerFailed, reply.Status)
	}
	return fmt.Errorf("%s: %w: status %q", call, ErrWorkerFailed, status)
}

// requireSummary returns the summary string of a reply. Only a missing or
// empty summary is rejected.
func requireSummary(call string, reply transport.Reply) (string, error) {
	summary, _ := jsonpath.String(reply.Body, "$.summary")
	if summary == "" {
		return "", fmt.Errorf("%s: %w", call, ErrEmptySummary)
	}
	return summary, nil
}

// requireStats checks that a reply carries a complete stats object.
func requireStats(call string, reply transport.Reply) error {
	if _, err := jsonpath.Extract(reply.Body, statsFields); err != nil {
		return fmt.Errorf("%s: %w: %w", call, ErrInvalidReply, err)
	}
	return nil
}
