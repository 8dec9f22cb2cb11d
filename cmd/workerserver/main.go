// Command workerserver runs the A2A agent worker, the MCP tool server, or
// both on one listener.
//
// Usage:
//
//	workerserver [flags]
//
// Flags:
//
//	-role    a2a, mcp or all (default: mcp)
//	-port    Port to listen on (default: 5001 for mcp and all, 5002 for a2a)
//	-host    Host to bind to (default: 127.0.0.1)
//
// The protobench defaults expect the agent on 5002 and the tool server on
// 5001. With -role all both live on one port, so point the harness at it:
//
//	protobench run --a2a-url http://127.0.0.1:5001/process_task --mcp-url http://127.0.0.1:5001
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"protobench/internal/server"
	"protobench/internal/telemetry"
)

func main() {
	role := flag.String("role", string(server.RoleMCP), "endpoints to serve: a2a, mcp, all")
	port := flag.Int("port", 0, "port to listen on (0 = role default)")
	host := flag.String("host", "127.0.0.1", "host to bind to")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := run(logger, server.Role(*role), *host, *port); err != nil {
		logger.Error("worker server failed", "error", err)
		os.Exit(1)
	}
}

// defaultPort matches the endpoints protobench is configured for by default.
func defaultPort(role server.Role) int {
	if role == server.RoleA2A {
		return 5002
	}
	return 5001
}

// harnessFlags returns the protobench run arguments that target this worker.
func harnessFlags(role server.Role, host string, port int) string {
	base := fmt.Sprintf("http://%s:%d", host, port)
	switch role {
	case server.RoleA2A:
		return fmt.Sprintf("a2a --a2a-url %s/process_task", base)
	case server.RoleMCP:
		return fmt.Sprintf("mcp --mcp-url %s", base)
	default:
		return fmt.Sprintf("all --a2a-url %s/process_task --mcp-url %s", base, base)
	}
}

func run(logger *slog.Logger, role server.Role, host string, port int) error {
	if port == 0 {
		port = defaultPort(role)
	}

	provider, metricsHandler, err := telemetry.NewPrometheus("protobench-worker-" + string(role))
	if err != nil {
		return err
	}
	defer provider.Shutdown(context.Background())

	instruments, err := telemetry.NewInstruments(provider.Meter(telemetry.MeterName))
	if err != nil {
		return err
	}

	srv, err := server.NewServer(role,
		server.WithLogger(logger),
		server.WithInstruments(instruments),
		server.WithMetricsHandler(metricsHandler),
	)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	fmt.Printf("protobench worker (%s)\n", role)
	fmt.Println("======================")
	fmt.Printf("Listening on http://%s\n\n", addr)
	fmt.Println("Endpoints:")
	for _, route := range srv.Routes() {
		fmt.Printf("  %s\n", route)
	}
	fmt.Println("  GET  /metrics")
	fmt.Println()
	fmt.Printf("Run against it with:\n  protobench run %s\n\n", harnessFlags(role, host, port))

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		fmt.Println("\nShutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}
