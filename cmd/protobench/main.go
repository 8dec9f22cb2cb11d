// Command protobench compares the single-call A2A and chained MCP worker
// protocols over a shared deterministic dataset.
//
// Usage:
//
//	protobench generate [flags]
//	protobench run [a2a|mcp|all] [flags]
//	protobench compare BASE OTHER
//
// Exit codes: 0 success, 1 threshold violated, 2 error.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"protobench/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cli.Execute(ctx)
	code := cli.ExitCode(err)
	if code == cli.ExitError {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	stop()
	os.Exit(code)
}
