// Package output persists experiment artifacts: record files, CSV exports
// and summary files.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"protobench/internal/core"
)

// RecordsFile returns the conventional records path for protocol in dir,
// e.g. out/a2a_results.json.
func RecordsFile(dir, protocol string) string {
	return filepath.Join(dir, strings.ToLower(protocol)+"_results.json")
}

// SummaryFile returns the conventional summary path for protocol in dir.
func SummaryFile(dir, protocol string) string {
	return filepath.Join(dir, strings.ToLower(protocol)+"_summary.json")
}

// CSVFile returns the conventional CSV path for protocol in dir.
func CSVFile(dir, protocol string) string {
	return filepath.Join(dir, strings.ToLower(protocol)+"_results.csv")
}

// WriteRecords writes records as an indented JSON array, creating parent
// directories as needed.
func WriteRecords(path string, records []core.Record) error {
	if records == nil {
		records = []core.Record{}
	}
	return writeJSON(path, records)
}

// ReadRecords loads a file written by WriteRecords.
func ReadRecords(path string) ([]core.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	var records []core.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse records %s: %w", path, err)
	}
	return records, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
