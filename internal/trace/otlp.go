// Package trace wires OpenTelemetry tracing for resize gestures.
//
// Export is opt-in: when OTEL_EXPORTER_OTLP_ENDPOINT is unset the package
// hands out a no-op tracer and nothing leaves the process.
package trace

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// InstrumentationName is the tracer name used for gesture spans.
const InstrumentationName = "resizecards/resize"

// Provider owns the tracer used by the drag controller.
type Provider struct {
	sdk    *sdktrace.TracerProvider
	tracer oteltrace.Tracer
}

// NewProvider creates an OTLP/HTTP provider if OTEL_EXPORTER_OTLP_ENDPOINT is
// set. Otherwise it returns a disabled provider backed by a no-op tracer.
func NewProvider(ctx context.Context) (*Provider, error) {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		return Disabled(), nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	serviceName := os.Getenv("OTEL_SERVICE_NAME")
	if serviceName == "" {
		serviceName = "resizecards"
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)

	return NewProviderWithSDK(sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)), nil
}

// NewProviderWithSDK wraps an existing SDK provider. Tests use it with a
// tracetest.SpanRecorder.
func NewProviderWithSDK(tp *sdktrace.TracerProvider) *Provider {
	return &Provider{
		sdk:    tp,
		tracer: tp.Tracer(InstrumentationName),
	}
}

// Disabled returns a provider whose tracer records nothing.
func Disabled() *Provider {
	return &Provider{tracer: noop.NewTracerProvider().Tracer(InstrumentationName)}
}

// Tracer returns the gesture tracer.
func (p *Provider) Tracer() oteltrace.Tracer {
	if p == nil {
		return Disabled().tracer
	}
	return p.tracer
}

// Enabled reports whether spans are exported.
func (p *Provider) Enabled() bool {
	return p != nil && p.sdk != nil
}

// Shutdown flushes pending spans.
func (p *Provider) Shutdown(ctx context.Context) error {
	if !p.Enabled() {
		return nil
	}
	if err := p.sdk.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown tracer provider: %w", err)
	}
	return nil
}
