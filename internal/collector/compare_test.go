package collector

import (
	"bytes"
	"strings"
	"testing"
)

func TestCompare(t *testing.T) {
	a2a := Compute("A2A", records("A2A", []float64{10, 20, 30}, []bool{true, true, true}))
	mcp := Compute("MCP", records("MCP", []float64{20, 30, 40, 0}, []bool{true, true, true, false}))

	c := Compare(a2a, mcp)

	if *c.DeltaAvgMS != 10 {
		t.Errorf("expected avg delta 10, got %v", *c.DeltaAvgMS)
	}
	if c.DeltaSuccessRate != -25 {
		t.Errorf("expected success rate delta -25, got %v", c.DeltaSuccessRate)
	}
}

func TestCompare_MissingLatency(t *testing.T) {
	ok := Compute("A2A", records("A2A", []float64{10}, []bool{true}))
	failed := Compute("MCP", records("MCP", []float64{10}, []bool{false}))

	c := Compare(ok, failed)
	if c.DeltaAvgMS != nil || c.DeltaP95MS != nil {
		t.Error("expected nil latency deltas when one side has no successes")
	}

	var buf bytes.Buffer
	FormatComparison(&buf, c)
	if !strings.Contains(buf.String(), "n/a") {
		t.Errorf("expected n/a in comparison, got:\n%s", buf.String())
	}
}

func TestFormatComparison(t *testing.T) {
	a2a := Compute("A2A", records("A2A", []float64{10, 20}, []bool{true, true}))
	mcp := Compute("MCP", records("MCP", []float64{12, 22}, []bool{true, true}))

	var buf bytes.Buffer
	FormatComparison(&buf, Compare(a2a, mcp))
	output := buf.String()

	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 9 {
		t.Fatalf("expected 9 lines, got %d:\n%s", len(lines), output)
	}
	if !strings.Contains(lines[0], "A2A") || !strings.Contains(lines[0], "MCP") {
		t.Errorf("expected protocol header, got %q", lines[0])
	}
	if !strings.Contains(output, "+2.00 ms") {
		t.Errorf("expected avg delta, got:\n%s", output)
	}
}
