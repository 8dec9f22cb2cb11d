// Package http is the remote-call layer protocol drivers use to reach the
// workers: timed JSON POSTs returning an explicit Reply, plus verbose
// request/response logging.
package http

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

const maxBodyLogSize = 1024

// DebugLogger prints request/response blocks. A nil *DebugLogger is a no-op.
type DebugLogger struct {
	out io.Writer
	mu  sync.Mutex
}

func NewDebugLogger(out io.Writer) *DebugLogger {
	return &DebugLogger{out: out}
}

func (d *DebugLogger) LogRequest(requestID, call string, req *http.Request) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "\n[%s] >>> REQUEST: %s\n", label(requestID), call)
	fmt.Fprintf(&buf, "  %s %s\n", req.Method, req.URL.String())
	writeHeaders(&buf, req.Header)

	if req.Body != nil && req.Body != http.NoBody {
		body, err := io.ReadAll(req.Body)
		if err == nil {
			req.Body = io.NopCloser(bytes.NewReader(body))
			if len(body) > 0 {
				fmt.Fprintf(&buf, "  Body: %s\n", truncateBody(body))
			}
		}
	}
	fmt.Fprint(d.out, buf.String())
}

func (d *DebugLogger) LogResponse(requestID, call string, resp *http.Response, body []byte, duration time.Duration) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "[%s] <<< RESPONSE: %s (%s)\n", label(requestID), call, duration.Round(time.Microsecond))
	fmt.Fprintf(&buf, "  Status: %d %s\n", resp.StatusCode, http.StatusText(resp.StatusCode))
	writeHeaders(&buf, resp.Header)
	if len(body) > 0 {
		fmt.Fprintf(&buf, "  Body: %s\n", truncateBody(body))
	}
	fmt.Fprint(d.out, buf.String())
}

func (d *DebugLogger) LogError(requestID, call, errMsg string, duration time.Duration) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.out, "[%s] !!! ERROR: %s (%s)\n  %s\n",
		label(requestID), call, duration.Round(time.Microsecond), errMsg)
}

func label(requestID string) string {
	if requestID == "" {
		return "request"
	}
	return "request " + requestID
}

func writeHeaders(buf *bytes.Buffer, h http.Header) {
	if len(h) == 0 {
		return
	}
	buf.WriteString("  Headers:\n")
	for name, values := range h {
		fmt.Fprintf(buf, "    %s: %s\n", name, strings.Join(values, ", "))
	}
}

func truncateBody(body []byte) string {
	if len(body) <= maxBodyLogSize {
		return string(body)
	}
	return string(body[:maxBodyLogSize]) + fmt.Sprintf("... (truncated, %d bytes total)", len(body))
}
