package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"protobench/internal/core"
	"protobench/internal/telemetry"
	"protobench/internal/worker"
)

func newTestServer(t *testing.T, role Role, opts ...Option) *httptest.Server {
	t.Helper()
	s, err := NewServer(role, opts...)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url, body string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("invalid JSON response %q: %v", raw, err)
	}
	return resp.StatusCode, out
}

func TestNewServer_UnknownRole(t *testing.T) {
	if _, err := NewServer("grpc"); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t, RoleMCP)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}
}

func TestProcessTask(t *testing.T) {
	ts := newTestServer(t, RoleA2A)

	code, body := post(t, ts.URL+"/process_task",
		`{"task_id":"t-1","operation":"analyze_and_summarize","data":[1,2,3]}`)

	if code != 200 {
		t.Fatalf("expected 200, got %d: %v", code, body)
	}
	if body["status"] != "success" || body["task_id"] != "t-1" {
		t.Errorf("unexpected reply: %v", body)
	}
	stats := body["stats"].(map[string]any)
	if stats["count"] != 3.0 || stats["min"] != 1.0 || stats["max"] != 3.0 || stats["mean"] != 2.0 {
		t.Errorf("unexpected stats: %v", stats)
	}
	want := "The dataset contains 3 values. The minimum value is 1, the maximum value is 3, and the average value is 2.00."
	if body["summary"] != want {
		t.Errorf("summary = %q, want %q", body["summary"], want)
	}
}

func TestProcessTask_Errors(t *testing.T) {
	ts := newTestServer(t, RoleA2A)

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"empty data", `{"task_id":"t","operation":"analyze_and_summarize","data":[]}`, "empty input list"},
		{"wrong operation", `{"task_id":"t","operation":"sort","data":[1]}`, "unsupported operation: sort"},
		{"malformed body", `{not json`, "invalid JSON body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := post(t, ts.URL+"/process_task", tt.body)
			if code != 400 {
				t.Errorf("expected 400, got %d", code)
			}
			if body["status"] != "error" {
				t.Errorf("expected status error, got %v", body["status"])
			}
			if msg, _ := body["error"].(string); !strings.Contains(msg, tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", msg, tt.wantErr)
			}
		})
	}
}

func TestAnalyzeData(t *testing.T) {
	ts := newTestServer(t, RoleMCP)

	code, body := post(t, ts.URL+"/analyze_data", `{"request_id":"r-9","args":{"numbers":[10,20,30]}}`)
	if code != 200 {
		t.Fatalf("expected 200, got %d: %v", code, body)
	}
	if body["tool"] != "analyze_data" || body["request_id"] != "r-9" {
		t.Errorf("unexpected reply: %v", body)
	}
	stats := body["stats"].(map[string]any)
	if stats["mean"] != 20.0 {
		t.Errorf("expected mean 20, got %v", stats["mean"])
	}
}

func TestAnalyzeData_EmptyInput(t *testing.T) {
	ts := newTestServer(t, RoleMCP)

	for _, body := range []string{
		`{"request_id":"r","args":{"numbers":[]}}`,
		`{"request_id":"r"}`,
	} {
		code, reply := post(t, ts.URL+"/analyze_data", body)
		if code != 400 || reply["error"] != worker.ErrEmptyInput.Error() {
			t.Errorf("%s: expected 400 empty input list, got %d %v", body, code, reply)
		}
		if reply["request_id"] != "r" {
			t.Errorf("expected request id echoed, got %v", reply["request_id"])
		}
	}
}

func TestGenerateSummary(t *testing.T) {
	ts := newTestServer(t, RoleMCP)

	code, body := post(t, ts.URL+"/generate_summary",
		`{"request_id":"r-1","args":{"stats":{"count":2,"min":4,"max":8,"mean":6}}}`)
	if code != 200 {
		t.Fatalf("expected 200, got %d: %v", code, body)
	}
	want := "The dataset contains 2 values. The minimum value is 4, the maximum value is 8, and the average value is 6.00."
	if body["summary"] != want {
		t.Errorf("summary = %q, want %q", body["summary"], want)
	}
}

func TestGenerateSummary_InvalidStats(t *testing.T) {
	ts := newTestServer(t, RoleMCP)

	for _, body := range []string{
		`{"request_id":"r","args":{}}`,
		`{"request_id":"r","args":{"stats":"nope"}}`,
		`{"request_id":"r","args":{"stats":{"count":1,"min":1}}}`,
		`{"request_id":"r","args":{"stats":{"count":2,"min":1.5,"max":3,"mean":2.25}}}`,
	} {
		code, reply := post(t, ts.URL+"/generate_summary", body)
		if code != 400 {
			t.Errorf("%s: expected 400, got %d", body, code)
		}
		if msg, _ := reply["error"].(string); !strings.HasPrefix(msg, worker.ErrInvalidStats.Error()) {
			t.Errorf("%s: unexpected error %q", body, msg)
		}
	}
}

func TestRoles_MountOnlyTheirEndpoints(t *testing.T) {
	a2a := newTestServer(t, RoleA2A)
	resp, err := http.Post(a2a.URL+"/analyze_data", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("a2a role: expected 404 for analyze_data, got %d", resp.StatusCode)
	}

	all := newTestServer(t, RoleAll)
	for _, path := range []string{"/process_task", "/analyze_data", "/generate_summary"} {
		resp, err := http.Post(all.URL+path, "application/json", strings.NewReader(`{}`))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound {
			t.Errorf("all role: %s not mounted", path)
		}
	}
}

func TestRoutes(t *testing.T) {
	s, _ := NewServer(RoleMCP)
	routes := s.Routes()
	if len(routes) != 3 {
		t.Fatalf("expected 3 routes, got %v", routes)
	}
	if routes[0] != "POST /analyze_data" {
		t.Errorf("unexpected first route %q", routes[0])
	}
}

func TestAccessLogAndMetrics(t *testing.T) {
	logs := &core.MockWriter{}
	logger := slog.New(slog.NewTextHandler(logs, nil))

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(context.Background())
	in, err := telemetry.NewInstruments(provider.Meter(telemetry.MeterName))
	if err != nil {
		t.Fatal(err)
	}

	ts := newTestServer(t, RoleMCP, WithLogger(logger), WithInstruments(in))
	post(t, ts.URL+"/analyze_data", `{"request_id":"a","args":{"numbers":[1]}}`)
	post(t, ts.URL+"/analyze_data", `{"request_id":"b","args":{"numbers":[]}}`)

	if !strings.Contains(logs.String(), "route=/analyze_data") || !strings.Contains(logs.String(), "status=400") {
		t.Errorf("expected access log lines, got:\n%s", logs.String())
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatal(err)
	}
	var requests int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "protobench.worker.requests" {
				continue
			}
			for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
				requests += dp.Value
			}
		}
	}
	if requests != 2 {
		t.Errorf("expected 2 counted requests, got %d", requests)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	provider, handler, err := telemetry.NewPrometheus("protobench-test")
	if err != nil {
		t.Fatal(err)
	}
	defer provider.Shutdown(context.Background())
	in, _ := telemetry.NewInstruments(provider.Meter(telemetry.MeterName))

	ts := newTestServer(t, RoleA2A, WithInstruments(in), WithMetricsHandler(handler))
	post(t, ts.URL+"/process_task", `{"task_id":"x","operation":"analyze_and_summarize","data":[5]}`)

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(raw), `route="/process_task"`) {
		t.Errorf("expected process_task series in metrics, got:\n%s", raw)
	}
}
