package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"protobench/internal/core"
)

var csvHeader = []string{
	"protocol", "request_index", "request_id", "started_at",
	"duration_ms", "success", "messages_or_calls", "error",
}

// CSVWriter streams records to a CSV file, flushing after each row.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
	mu     sync.Mutex
}

// NewCSVWriter creates the file at path, overwriting it, and writes the
// header row.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		f.Close()
		return nil, err
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// Write appends one record. It is thread-safe.
func (cw *CSVWriter) Write(r core.Record) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	row := []string{
		r.Protocol,
		strconv.Itoa(r.RequestIndex),
		r.RequestID,
		r.StartedAt.Format(time.RFC3339Nano),
		strconv.FormatFloat(r.DurationMS, 'f', 3, 64),
		strconv.FormatBool(r.Success),
		strconv.Itoa(r.MessagesOrCalls),
		r.Error,
	}
	if err := cw.writer.Write(row); err != nil {
		return err
	}
	cw.writer.Flush()
	return cw.writer.Error()
}

// Close closes the underlying file.
func (cw *CSVWriter) Close() error {
	cw.writer.Flush()
	return cw.file.Close()
}

// WriteCSV writes all records to path.
func WriteCSV(path string, records []core.Record) error {
	w, err := NewCSVWriter(path)
	if err != nil {
		return err
	}
	for _, r := range records {
		if err := w.Write(r); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}
