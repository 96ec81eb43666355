// Package trace wires OpenTelemetry tracing for the layout client and the
// layout API server. Export is enabled only when OTEL_EXPORTER_OTLP_ENDPOINT
// is set; otherwise spans go to a noop tracer.
package trace

import (
	"context"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// EndpointEnv enables OTLP export when set.
const EndpointEnv = "OTEL_EXPORTER_OTLP_ENDPOINT"

// Attribute keys used on inphormed spans.
const (
	AttrRequestID = attribute.Key("inphormed.request.id")
	AttrWidgets   = attribute.Key("inphormed.layout.widgets")
	AttrCommand   = attribute.Key("inphormed.agent.command")
	AttrStatus    = attribute.Key("inphormed.http.status")
)

// Provider hands out the tracer used across the app.
type Provider struct {
	provider *sdktrace.TracerProvider
	tracer   oteltrace.Tracer
}

// NewProvider creates an OTLP-backed provider if OTEL_EXPORTER_OTLP_ENDPOINT
// is set. With no endpoint the returned provider uses a noop tracer.
func NewProvider(ctx context.Context, component string) (*Provider, error) {
	endpoint := os.Getenv(EndpointEnv)
	if endpoint == "" {
		return Noop(), nil
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
		serviceName = "inphormed"
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
		tracer:   provider.Tracer("inphormed/" + component),
	}, nil
}

// Noop returns a provider whose spans are discarded.
func Noop() *Provider {
	return &Provider{tracer: noop.NewTracerProvider().Tracer("inphormed")}
}

// Tracer returns the tracer. A nil provider yields a noop tracer.
func (p *Provider) Tracer() oteltrace.Tracer {
	if p == nil || p.tracer == nil {
		return noop.NewTracerProvider().Tracer("inphormed")
	}
	return p.tracer
}

// Enabled reports whether spans are exported.
func (p *Provider) Enabled() bool {
	return p != nil && p.provider != nil
}

// Shutdown flushes and closes the exporter.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.provider == nil {
		return nil
	}
	return p.provider.Shutdown(ctx)
}
