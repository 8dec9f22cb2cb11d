package worker

import "encoding/json"

// Status values carried in every worker reply.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Tool names double as MCP endpoint paths.
const (
	ToolAnalyzeData     = "analyze_data"
	ToolGenerateSummary = "generate_summary"
)

// TaskRequest is the A2A agent's single combined request.
type TaskRequest struct {
	TaskID    string `json:"task_id"`
	Operation string `json:"operation"`
	Data      []int  `json:"data"`
}

// TaskReply answers a TaskRequest.
type TaskReply struct {
	TaskID     string  `json:"task_id,omitempty"`
	Status     string  `json:"status"`
	Stats      *Stats  `json:"stats,omitempty"`
	Summary    string  `json:"summary,omitempty"`
	Error      string  `json:"error,omitempty"`
	DurationMS float64 `json:"duration_ms,omitempty"`
}

// ToolRequest is an MCP tool invocation. Args is tool specific.
type ToolRequest struct {
	RequestID string          `json:"request_id"`
	Args      json.RawMessage `json:"args"`
}

// AnalyzeArgs are the arguments of analyze_data.
type AnalyzeArgs struct {
	Numbers []int `json:"numbers"`
}

// SummaryArgs are the arguments of generate_summary. Stats is forwarded
// verbatim from the analyze_data reply.
type SummaryArgs struct {
	Stats json.RawMessage `json:"stats"`
}

// ToolReply answers a ToolRequest.
type ToolReply struct {
	RequestID  string  `json:"request_id,omitempty"`
	Tool       string  `json:"tool"`
	Status     string  `json:"status"`
	Stats      *Stats  `json:"stats,omitempty"`
	Summary    string  `json:"summary,omitempty"`
	Error      string  `json:"error,omitempty"`
	DurationMS float64 `json:"duration_ms,omitempty"`
}
