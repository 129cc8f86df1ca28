package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc"

	"github.com/unkn0wn-root/pickterm/internal/errdef"
)

const instrumentationName = "github.com/unkn0wn-root/pickterm"

// Provider owns the tracer provider for the process lifetime.
type Provider struct {
	tp       trace.TracerProvider
	shutdown func(context.Context) error
}

// Setup installs a tracer provider. Without an endpoint a noop provider is
// used and nothing leaves the process.
func Setup(ctx context.Context, cfg Config) (*Provider, error) {
	if !cfg.Enabled() {
		tp := noop.NewTracerProvider()
		return &Provider{tp: tp, shutdown: func(context.Context) error { return nil }}, nil
	}

	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}

	attrs := []attribute.KeyValue{attribute.String("service.name", cfg.ServiceName)}
	if cfg.Version != "" {
		attrs = append(attrs, attribute.String("service.version", cfg.Version))
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(attrs...)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	)
	otel.SetTracerProvider(tp)
	return &Provider{tp: tp, shutdown: tp.Shutdown}, nil
}

func newExporter(ctx context.Context, cfg Config) (*otlptrace.Exporter, error) {
	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
		otlptracegrpc.WithTimeout(cfg.DialTimeout),
		otlptracegrpc.WithDialOption(grpc.WithUserAgent(cfg.ServiceName + "/" + versionOrDev(cfg.Version))),
	}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, otlptracegrpc.WithHeaders(cfg.Headers))
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeConfig, err, "create otlp exporter")
	}
	return exporter, nil
}

func versionOrDev(v string) string {
	if v == "" {
		return "dev"
	}
	return v
}

// Tracer returns a named tracer from the installed provider.
func (p *Provider) Tracer(name string) trace.Tracer {
	if p == nil || p.tp == nil {
		return otel.Tracer(instrumentationName + "/" + name)
	}
	return p.tp.Tracer(instrumentationName + "/" + name)
}

// Shutdown flushes pending spans.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.shutdown == nil {
		return nil
	}
	return p.shutdown(ctx)
}
