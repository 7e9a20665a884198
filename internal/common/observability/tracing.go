package observability

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"mergington-activities/internal/common/config"
)

// TracerProvider wraps the SDK provider so callers can shut it down without
// caring whether tracing is enabled.
type TracerProvider struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
	enabled  bool
}

// NewTracerProvider builds a tracer provider from config and installs it
// globally. When tracing is disabled a no-op tracer is returned.
func NewTracerProvider(cfg config.TracingConfig) (*TracerProvider, error) {
	return newTracerProvider(cfg, os.Stdout)
}

func newTracerProvider(cfg config.TracingConfig, out io.Writer) (*TracerProvider, error) {
	if !cfg.Enabled {
		return &TracerProvider{
			tracer: noop.NewTracerProvider().Tracer("noop"),
		}, nil
	}

	var exporter sdktrace.SpanExporter
	switch cfg.Exporter {
	case "stdout":
		exp, err := stdouttrace.New(stdouttrace.WithWriter(out))
		if err != nil {
			return nil, fmt.Errorf("create stdout exporter: %w", err)
		}
		exporter = exp
	case "none", "":
		// spans are still created for log correlation
	default:
		return nil, fmt.Errorf("unsupported exporter type: %s", cfg.Exporter)
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "mergington-activities"
	}

	// A rate of 0 samples only spans whose parent was sampled.
	sampleRate := cfg.SampleRate

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", serviceName),
		)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRate))),
	}
	if exporter != nil {
		opts = append(opts, sdktrace.WithSyncer(exporter))
	}

	provider := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(provider)

	return &TracerProvider{
		provider: provider,
		tracer:   provider.Tracer(serviceName),
		enabled:  true,
	}, nil
}

func (p *TracerProvider) Tracer() trace.Tracer {
	return p.tracer
}

func (p *TracerProvider) Enabled() bool {
	return p.enabled
}

// Shutdown flushes pending spans.
func (p *TracerProvider) Shutdown(ctx context.Context) error {
	if p.provider != nil {
		return p.provider.Shutdown(ctx)
	}
	return nil
}
