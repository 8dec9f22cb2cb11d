package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"protobench/internal/core"
)

const (
	// maxDebugBodySize limits response body logged in verbose mode.
	maxDebugBodySize = 4096
	// maxReplyBodySize limits the reply body read for validation.
	maxReplyBodySize = 10 * 1024 * 1024 // 10MB
)

// Reply is the outcome of one remote call. Err is set for transport
// failures (connection refused, deadline exceeded, unreadable body);
// HTTP-level failures leave Err nil and are visible through StatusCode.
type Reply struct {
	StatusCode int
	Status     string
	Body       []byte
	Duration   time.Duration
	Err        error
}

// OK reports whether the call completed with a 2xx status.
func (r Reply) OK() bool {
	return r.Err == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Client posts JSON payloads to worker endpoints. The per-call deadline is
// the underlying http.Client's Timeout.
type Client struct {
	client *http.Client
	debug  *DebugLogger
}

// NewClient wraps client. debug may be nil.
func NewClient(client *http.Client, debug *DebugLogger) *Client {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{client: client, debug: debug}
}

// PostJSON encodes payload, posts it to url and reads the whole reply.
// name labels the call in debug output.
func (c *Client) PostJSON(ctx context.Context, name, url string, payload any) Reply {
	requestID := core.RequestIDFromContext(ctx)
	start := time.Now()

	body, err := json.Marshal(payload)
	if err != nil {
		return c.fail(requestID, name, start, fmt.Errorf("encoding request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return c.fail(requestID, name, start, err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.debug.LogRequest(requestID, name, req)

	resp, err := c.client.Do(req)
	if err != nil {
		return c.fail(requestID, name, start, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBodySize))
	_, _ = io.Copy(io.Discard, resp.Body) // drain remaining body
	duration := time.Since(start)
	if err != nil {
		return c.fail(requestID, name, start, fmt.Errorf("reading response: %w", err))
	}

	debugBody := respBody
	if len(debugBody) > maxDebugBodySize {
		debugBody = debugBody[:maxDebugBodySize]
	}
	c.debug.LogResponse(requestID, name, resp, debugBody, duration)

	return Reply{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       respBody,
		Duration:   duration,
	}
}

func (c *Client) fail(requestID, name string, start time.Time, err error) Reply {
	duration := time.Since(start)
	c.debug.LogError(requestID, name, err.Error(), duration)
	return Reply{Duration: duration, Err: err}
}
