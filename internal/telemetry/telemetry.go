// Package telemetry exports lifecycle spans (discovery, module loads,
// reload passes) to an OTLP endpoint. Export is opt-in: without
// OTEL_EXPORTER_OTLP_ENDPOINT set, Setup returns a disabled provider whose
// tracer is a no-op, so the dashboard carries zero tracing overhead by
// default.
package telemetry

import (
	"context"
	"os"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const defaultServiceName = "dashgrid"

// Provider owns the tracer used for dashboard lifecycle spans.
type Provider struct {
	provider *sdktrace.TracerProvider
	tracer   oteltrace.Tracer
	enabled  bool
}

// Setup builds a Provider. When OTEL_EXPORTER_OTLP_ENDPOINT is unset the
// returned provider is disabled and all spans are no-ops; the error is
// non-nil only when the endpoint is set but the exporter cannot be built.
func Setup(ctx context.Context) (*Provider, error) {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		return &Provider{tracer: noop.NewTracerProvider().Tracer(defaultServiceName)}, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	serviceName := os.Getenv("OTEL_SERVICE_NAME")
	if serviceName == "" {
		serviceName = defaultServiceName
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	return &Provider{
		provider: provider,
		tracer:   provider.Tracer(defaultServiceName),
		enabled:  true,
	}, nil
}

// Enabled reports whether spans are actually exported.
func (p *Provider) Enabled() bool {
	return p != nil && p.enabled
}

// Tracer returns the tracer for lifecycle spans. Safe on a nil or disabled
// provider.
func (p *Provider) Tracer() oteltrace.Tracer {
	if p == nil || p.tracer == nil {
		return noop.NewTracerProvider().Tracer(defaultServiceName)
	}
	return p.tracer
}

// Shutdown flushes and closes the exporter.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.provider == nil {
		return nil
	}
	return p.provider.Shutdown(ctx)
}
