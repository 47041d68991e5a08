// Package telemetry wires OpenTelemetry tracing for tool dispatch and
// upstream HTTP calls.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/NERVsystems/mapsmcp/pkg/config"
	"github.com/NERVsystems/mapsmcp/pkg/version"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName identifies spans created by this module.
const InstrumentationName = "github.com/NERVsystems/mapsmcp"

// Tracer returns the module tracer from the global provider. Until Setup
// installs an SDK provider this is a no-op tracer.
func Tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(context.Context) error

// Setup installs a global tracer provider exporting over OTLP/HTTP when
// tracing is enabled. With tracing disabled it returns a no-op shutdown.
func Setup(ctx context.Context, cfg config.Tracing, logger *slog.Logger) (ShutdownFunc, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	var opts []otlptracehttp.Option
	if cfg.Endpoint != "" {
		opts = append(opts, otlptracehttp.WithEndpointURL(cfg.Endpoint))
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(Resource(cfg.ServiceName)),
	)
	otel.SetTracerProvider(tp)

	logger.Info("tracing enabled", "endpoint", cfg.Endpoint, "service", cfg.ServiceName)
	return tp.Shutdown, nil
}

// Resource describes this process to the trace backend.
func Resource(serviceName string) *resource.Resource {
	if serviceName == "" {
		serviceName = version.Name
	}
	return resource.NewWithAttributes(
		"",
		attribute.String("service.name", serviceName),
		attribute.String("service.version", version.BuildVersion),
	)
}
