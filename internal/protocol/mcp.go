package protocol

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"protobench/internal/core"
	"protobench/internal/jsonpath"
	"protobench/internal/worker"
)

// MCP invokes analyze_data, then generate_summary with the stats the first
// tool returned. Both calls share one request id.
type MCP struct {
	BaseURL string // tool server root; tool names are appended as paths
	Poster  Poster
	Clock   core.Clock
	NewID   IDFunc
}

// NewMCP creates an MCP driver with a real clock and UUID request ids.
func NewMCP(baseURL string, poster Poster) *MCP {
	return &MCP{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Poster:  poster,
		Clock:   core.RealClock{},
		NewID:   NewUUID,
	}
}

// Exchange runs the chained calls and records the outcome. The duration
// covers both calls. A failed first call is never followed by the second.
func (m *MCP) Exchange(ctx context.Context, index int, numbers []int) core.Record {
	requestID := m.NewID()
	ctx = core.ContextWithRequestID(ctx, requestID)

	start := m.Clock.Now()
	summary, err := m.chain(ctx, requestID, numbers)
	elapsed := m.Clock.Since(start)

	return core.NewRecord(NameMCP, index, requestID, start, elapsed, summary, err)
}

func (m *MCP) chain(ctx context.Context, requestID string, numbers []int) (string, error) {
	stats, err := m.analyze(ctx, requestID, numbers)
	if err != nil {
		return "", err
	}
	return m.summarize(ctx, requestID, stats)
}

func (m *MCP) analyze(ctx context.Context, requestID string, numbers []int) (json.RawMessage, error) {
	args, err := json.Marshal(worker.AnalyzeArgs{Numbers: numbers})
	if err != nil {
		return nil, fmt.Errorf("%s: encoding args: %w", worker.ToolAnalyzeData, err)
	}

	reply := m.Poster.PostJSON(ctx, worker.ToolAnalyzeData, m.toolURL(worker.ToolAnalyzeData), worker.ToolRequest{
		RequestID: requestID,
		Args:      args,
	})
	if err := checkReply(worker.ToolAnalyzeData, reply); err != nil {
		return nil, err
	}
	if err := requireStats(worker.ToolAnalyzeData, reply); err != nil {
		return nil, err
	}

	raw, _ := jsonpath.Raw(reply.Body, "$.stats")
	return json.RawMessage(raw), nil
}

func (m *MCP) summarize(ctx context.Context, requestID string, stats json.RawMessage) (string, error) {
	args, err := json.Marshal(worker.SummaryArgs{Stats: stats})
	if err != nil {
		return "", fmt.Errorf("%s: encoding args: %w", worker.ToolGenerateSummary, err)
	}

	reply := m.Poster.PostJSON(ctx, worker.ToolGenerateSummary, m.toolURL(worker.ToolGenerateSummary), worker.ToolRequest{
		RequestID: requestID,
		Args:      args,
	})
	if err := checkReply(worker.ToolGenerateSummary, reply); err != nil {
		return "", err
	}
	return requireSummary(worker.ToolGenerateSummary, reply)
}

func (m *MCP) toolURL(tool string) string {
	return m.BaseURL + "/" + tool
}
