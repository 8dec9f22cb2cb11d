package main

import (
	"fmt"
	"testing"

	"protobench/internal/config"
	"protobench/internal/server"
)

func TestDefaultPort_MatchesHarnessDefaults(t *testing.T) {
	cfg := config.DefaultConfig()

	if want := fmt.Sprintf("http://127.0.0.1:%d/process_task", defaultPort(server.RoleA2A)); cfg.A2A.URL != want {
		t.Errorf("a2a: config points at %q, worker defaults to %q", cfg.A2A.URL, want)
	}
	if want := fmt.Sprintf("http://127.0.0.1:%d", defaultPort(server.RoleMCP)); cfg.MCP.BaseURL != want {
		t.Errorf("mcp: config points at %q, worker defaults to %q", cfg.MCP.BaseURL, want)
	}
}

func TestHarnessFlags(t *testing.T) {
	tests := []struct {
		role server.Role
		want string
	}{
		{server.RoleA2A, "a2a --a2a-url http://127.0.0.1:5002/process_task"},
		{server.RoleMCP, "mcp --mcp-url http://127.0.0.1:5002"},
		{server.RoleAll, "all --a2a-url http://127.0.0.1:5002/process_task --mcp-url http://127.0.0.1:5002"},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := harnessFlags(tt.role, "127.0.0.1", 5002); got != tt.want {
				t.Errorf("harnessFlags(%s) = %q, want %q", tt.role, got, tt.want)
			}
		})
	}
}
