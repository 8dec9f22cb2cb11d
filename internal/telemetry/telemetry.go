// Package telemetry records worker-side request metrics with OpenTelemetry
// and exposes them in Prometheus format.
package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// MeterName scopes every instrument this package creates.
const MeterName = "protobench/worker"

// Instruments holds the worker request instruments. A nil *Instruments
// records nothing.
type Instruments struct {
	requests metric.Int64Counter
	errors   metric.Int64Counter
	latency  metric.Float64Histogram
}

// NewInstruments creates the request counter, error counter and latency
// histogram on meter.
func NewInstruments(meter metric.Meter) (*Instruments, error) {
	requests, err := meter.Int64Counter(
		"protobench.worker.requests",
		metric.WithDescription("Total number of worker requests"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request counter: %w", err)
	}

	errs, err := meter.Int64Counter(
		"protobench.worker.errors",
		metric.WithDescription("Worker requests answered with a non-2xx status"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create error counter: %w", err)
	}

	latency, err := meter.Float64Histogram(
		"protobench.worker.latency",
		metric.WithDescription("Worker handler latency"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create latency histogram: %w", err)
	}

	return &Instruments{requests: requests, errors: errs, latency: latency}, nil
}

// Record counts one handled request on route.
func (in *Instruments) Record(ctx context.Context, route string, status int, d time.Duration) {
	if in == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("route", route),
		attribute.String("status", strconv.Itoa(status)),
	)
	in.requests.Add(ctx, 1, attrs)
	if status < 200 || status >= 300 {
		in.errors.Add(ctx, 1, attrs)
	}
	in.latency.Record(ctx, float64(d.Microseconds())/1000.0, attrs)
}

// NewPrometheus builds a meter provider exporting to a private Prometheus
// registry and the handler serving that registry.
func NewPrometheus(serviceName string) (*sdkmetric.MeterProvider, http.Handler, error) {
	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create resource: %w", err)
	}

	registry := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return provider, handler, nil
}
