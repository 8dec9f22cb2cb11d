package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"protobench/internal/collector"
	"protobench/internal/core"
)

func sampleRecords() []core.Record {
	start := time.Date(2024, 3, 1, 12, 0, 0, 123456789, time.UTC)
	return []core.Record{
		core.NewRecord("A2A", 1, "id-1", start, 3210*time.Microsecond, "The dataset contains 3 values.", nil),
		{
			Protocol:        "A2A",
			RequestIndex:    2,
			RequestID:       "id-2",
			StartedAt:       start.Add(time.Second),
			DurationMS:      0.25,
			Error:           `process_task: worker failed: empty input list, "quoted"`,
			MessagesOrCalls: 2,
		},
	}
}

func TestConventionalPaths(t *testing.T) {
	if got := RecordsFile("out", "A2A"); got != filepath.Join("out", "a2a_results.json") {
		t.Errorf("RecordsFile = %q", got)
	}
	if got := SummaryFile("out", "MCP"); got != filepath.Join("out", "mcp_summary.json") {
		t.Errorf("SummaryFile = %q", got)
	}
	if got := CSVFile("out", "MCP"); got != filepath.Join("out", "mcp_results.csv") {
		t.Errorf("CSVFile = %q", got)
	}
}

func TestWriteReadRecords_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "a2a_results.json")
	in := sampleRecords()

	if err := WriteRecords(path, in); err != nil {
		t.Fatalf("WriteRecords: %v", err)
	}
	out, err := ReadRecords(path)
	if err != nil {
		t.Fatalf("ReadRecords: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch:\n in: %+v\nout: %+v", in, out)
	}
}

func TestWriteRecords_EmptyIsArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := WriteRecords(path, nil); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("expected empty JSON array, got %q", data)
	}
}

func TestReadRecords_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := ReadRecords(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte(`{"not":"an array"}`), 0o644)
	if _, err := ReadRecords(bad); err == nil {
		t.Error("expected error for malformed records")
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a2a_results.csv")
	if err := WriteCSV(path, sampleRecords()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "protocol" || rows[0][len(rows[0])-1] != "error" {
		t.Errorf("unexpected header %v", rows[0])
	}
	if rows[1][4] != "3.210" || rows[1][5] != "true" {
		t.Errorf("unexpected first row %v", rows[1])
	}
	if rows[2][7] != `process_task: worker failed: empty input list, "quoted"` {
		t.Errorf("error column not preserved: %q", rows[2][7])
	}
}

func TestWriteSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a2a_summary.json")
	s := collector.Compute("A2A", sampleRecords())

	err := WriteSummary(path, SummaryReport{
		Summary:       s,
		Dataset:       "common_dataset.json",
		DatasetDigest: "abc123",
	})
	if err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out["protocol"] != "A2A" || out["dataset_digest"] != "abc123" || out["successful_requests"] != 1.0 {
		t.Errorf("unexpected summary file: %v", out)
	}
	if _, ok := out["thresholds"]; ok {
		t.Error("expected thresholds omitted when unset")
	}
}

func TestNewLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, false).Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected debug suppressed, got %q", buf.String())
	}

	NewLogger(&buf, true).Debug("shown", "k", "v")
	if !strings.Contains(buf.String(), "msg=shown") {
		t.Errorf("expected debug line, got %q", buf.String())
	}
}

func TestSetLogger(t *testing.T) {
	prev := Logger
	defer SetLogger(prev)

	var buf bytes.Buffer
	SetLogger(NewLogger(&buf, false))
	Logger.Info("results written", "path", "out/a2a_results.json")

	if !strings.Contains(buf.String(), "path=out/a2a_results.json") {
		t.Errorf("expected log through replaced logger, got %q", buf.String())
	}
}
