package obs

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "delivery-cost-service"

// Tracer returns the service tracer from the global provider.
// Until InitTracing installs an exporter it produces no-op spans.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// InitTracing installs a global tracer provider for the named exporter.
// "none" or "" leaves the no-op provider in place. The returned function
// flushes and stops the provider.
func InitTracing(exporter, serviceName, version string) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	var exp sdktrace.SpanExporter
	switch strings.ToLower(strings.TrimSpace(exporter)) {
	case "", "none":
		return noop, nil
	case "stdout":
		e, err := stdouttrace.New()
		if err != nil {
			return noop, fmt.Errorf("init tracing: stdout exporter: %w", err)
		}
		exp = e
	default:
		return noop, fmt.Errorf("init tracing: unsupported exporter %q", exporter)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", version),
		)),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}
