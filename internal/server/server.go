// Package server exposes the worker functions over HTTP: the A2A agent's
// combined task endpoint and the MCP tool server's two tool endpoints.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"protobench/internal/telemetry"
	"protobench/internal/worker"
)

// Role selects which endpoints a Server mounts.
type Role string

const (
	RoleA2A Role = "a2a"
	RoleMCP Role = "mcp"
	RoleAll Role = "all"
)

// maxBodySize caps request bodies read by the worker handlers.
const maxBodySize = 1 << 20

// Server is a stateless worker. Every request is answered from its own
// payload alone.
type Server struct {
	role    Role
	mux     *http.ServeMux
	logger  *slog.Logger
	metrics *telemetry.Instruments
	now     func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the access logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithInstruments records per-route request metrics.
func WithInstruments(in *telemetry.Instruments) Option {
	return func(s *Server) { s.metrics = in }
}

// WithMetricsHandler mounts h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.mux.Handle("GET /metrics", h) }
}

// NewServer creates a worker serving the endpoints of role.
func NewServer(role Role, opts ...Option) (*Server, error) {
	s := &Server{
		role:   role,
		mux:    http.NewServeMux(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}

	s.handle("GET /health", "/health", s.handleHealth)
	switch role {
	case RoleA2A:
		s.registerAgent()
	case RoleMCP:
		s.registerTools()
	case RoleAll:
		s.registerAgent()
		s.registerTools()
	default:
		return nil, fmt.Errorf("unknown role %q (want a2a, mcp or all)", role)
	}

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Handler returns the http.Handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Routes lists the worker endpoints mounted for the server's role.
func (s *Server) Routes() []string {
	var routes []string
	if s.role == RoleA2A || s.role == RoleAll {
		routes = append(routes, "POST /process_task")
	}
	if s.role == RoleMCP || s.role == RoleAll {
		routes = append(routes, "POST /"+worker.ToolAnalyzeData, "POST /"+worker.ToolGenerateSummary)
	}
	return append(routes, "GET  /health")
}

func (s *Server) registerAgent() {
	s.handle("POST /process_task", "/process_task", s.handleProcessTask)
}

func (s *Server) registerTools() {
	s.handle("POST /"+worker.ToolAnalyzeData, "/"+worker.ToolAnalyzeData, s.handleAnalyzeData)
	s.handle("POST /"+worker.ToolGenerateSummary, "/"+worker.ToolGenerateSummary, s.handleGenerateSummary)
}

func (s *Server) handle(pattern, route string, h http.HandlerFunc) {
	s.mux.Handle(pattern, s.instrument(route, h))
}

// instrument logs each request and records its metrics.
func (s *Server) instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := s.now().Sub(start)

		s.metrics.Record(r.Context(), route, rec.status, elapsed)
		s.logger.Info("request",
			"method", r.Method,
			"route", route,
			"status", rec.status,
			"duration", elapsed,
		)
	})
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "role": string(s.role)})
}

// handleProcessTask runs analyze-and-summarize in one step.
func (s *Server) handleProcessTask(w http.ResponseWriter, r *http.Request) {
	start := s.now()

	var req worker.TaskRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, worker.TaskReply{Status: worker.StatusError, Error: err.Error()})
		return
	}

	stats, summary, err := worker.Process(req.Operation, req.Data)
	if err != nil {
		s.logger.Warn("task failed", "task_id", req.TaskID, "error", err)
		writeJSON(w, http.StatusBadRequest, worker.TaskReply{
			TaskID: req.TaskID,
			Status: worker.StatusError,
			Error:  err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, worker.TaskReply{
		TaskID:     req.TaskID,
		Status:     worker.StatusSuccess,
		Stats:      &stats,
		Summary:    summary,
		DurationMS: sinceMS(s.now, start),
	})
}

// handleAnalyzeData computes stats for args.numbers.
func (s *Server) handleAnalyzeData(w http.ResponseWriter, r *http.Request) {
	start := s.now()

	var req worker.ToolRequest
	var args worker.AnalyzeArgs
	err := decode(r, &req)
	if err == nil {
		err = decodeArgs(req.Args, &args)
	}

	var stats worker.Stats
	if err == nil {
		stats, err = worker.ComputeStats(args.Numbers)
	}
	if err != nil {
		s.toolError(w, worker.ToolAnalyzeData, req.RequestID, err)
		return
	}

	writeJSON(w, http.StatusOK, worker.ToolReply{
		RequestID:  req.RequestID,
		Tool:       worker.ToolAnalyzeData,
		Status:     worker.StatusSuccess,
		Stats:      &stats,
		DurationMS: sinceMS(s.now, start),
	})
}

// handleGenerateSummary renders args.stats as a sentence.
func (s *Server) handleGenerateSummary(w http.ResponseWriter, r *http.Request) {
	start := s.now()

	var req worker.ToolRequest
	var args worker.SummaryArgs
	err := decode(r, &req)
	if err == nil {
		err = decodeArgs(req.Args, &args)
	}

	var stats worker.Stats
	if err == nil {
		stats, err = worker.ParseStats(args.Stats)
	}
	if err != nil {
		s.toolError(w, worker.ToolGenerateSummary, req.RequestID, err)
		return
	}

	writeJSON(w, http.StatusOK, worker.ToolReply{
		RequestID:  req.RequestID,
		Tool:       worker.ToolGenerateSummary,
		Status:     worker.StatusSuccess,
		Summary:    worker.Summarize(stats),
		DurationMS: sinceMS(s.now, start),
	})
}

func (s *Server) toolError(w http.ResponseWriter, tool, requestID string, err error) {
	s.logger.Warn("tool failed", "tool", tool, "request_id", requestID, "error", err)
	writeJSON(w, http.StatusBadRequest, worker.ToolReply{
		RequestID: requestID,
		Tool:      tool,
		Status:    worker.StatusError,
		Error:     err.Error(),
	})
}

func decode(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// decodeArgs treats absent args as an empty object.
func decodeArgs(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid args: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func sinceMS(now func() time.Time, start time.Time) float64 {
	return float64(now().Sub(start).Microseconds()) / 1000.0
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
