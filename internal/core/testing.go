package core

import "sync"

// MockWriter captures progress lines and access logs in tests. Writes may
// come from handler goroutines, so access is serialized.
type MockWriter struct {
	mu  sync.Mutex
	buf []byte
}

// Write appends p to the captured output.
func (w *MockWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf = append(w.buf, p...)
	return len(p), nil
}

// String returns everything written so far.
func (w *MockWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return string(w.buf)
}
