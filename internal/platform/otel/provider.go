// Package otel wires the global OpenTelemetry trace provider for commands.
package otel

import (
	"context"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	endpointEnv = "DIPLOMACY_SPACE_OTEL_ENDPOINT"
	enabledEnv  = "DIPLOMACY_SPACE_OTEL_ENABLED"
)

// ShutdownFunc flushes pending spans; callers defer it.
type ShutdownFunc func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// Setup registers a global OTLP/HTTP trace provider for service.
//
// Tracing is opt-in. Without an endpoint in DIPLOMACY_SPACE_OTEL_ENDPOINT,
// or with DIPLOMACY_SPACE_OTEL_ENABLED set to "false", no provider is
// registered and the returned shutdown is a no-op.
func Setup(ctx context.Context, service string) (ShutdownFunc, error) {
	endpoint := os.Getenv(endpointEnv)
	if endpoint == "" || strings.EqualFold(os.Getenv(enabledEnv), "false") {
		return noopShutdown, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return noopShutdown, err
	}
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(service)))
	if err != nil {
		return noopShutdown, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return provider.Shutdown, nil
}
