package observability

import (
	"context"
	"log"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/trace"
)

// Observability bundles the OTel meter instruments used by the roster
// operations and a tracer for request spans.
type Observability struct {
	meterProvider *metric.MeterProvider
	meter         otelmetric.Meter
	opCounter     otelmetric.Int64Counter
	opDuration    otelmetric.Float64Histogram
	tracer        trace.Tracer
}

// New wires an OTel meter provider that exports through the given Prometheus
// registerer. A nil registerer means the process-wide default registry.
func New(serviceName string, reg promclient.Registerer) *Observability {
	obs := &Observability{tracer: otel.Tracer(serviceName)}

	opts := []prometheus.Option{}
	if reg != nil {
		opts = append(opts, prometheus.WithRegisterer(reg))
	}
	exporter, err := prometheus.New(opts...)
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return obs
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	opCounter, _ := meter.Int64Counter(
		"roster.operations",
		otelmetric.WithDescription("Number of roster operations processed"),
	)

	opDuration, _ := meter.Float64Histogram(
		"roster.operation.duration",
		otelmetric.WithDescription("Roster operation processing duration"),
		otelmetric.WithUnit("ms"),
	)

	obs.meterProvider = provider
	obs.meter = meter
	obs.opCounter = opCounter
	obs.opDuration = opDuration
	return obs
}

// StartSpan starts a span on the global tracer provider. It is a no-op span
// unless tracing was enabled via NewTracerProvider.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := o.tracer
	if tracer == nil {
		tracer = otel.Tracer("activities")
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (o *Observability) RecordOperation(ctx context.Context, operation, outcome string) {
	if o.opCounter != nil {
		o.opCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("outcome", outcome),
		))
	}
}

func (o *Observability) RecordOperationDuration(ctx context.Context, operation string, duration time.Duration) {
	if o.opDuration != nil {
		o.opDuration.Record(ctx, float64(duration.Microseconds())/1000.0, otelmetric.WithAttributes(
			attribute.String("operation", operation),
		))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = o.meterProvider.Shutdown(ctx)
	}
}
