// internal/common/observability/metrics.go
package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/trace"
)

// Observability holds the otel meter for upstream calls and the tracer
// used to span them. The zero value is usable and records nothing.
type Observability struct {
	meterProvider    *metric.MeterProvider
	tracer           trace.Tracer
	upstreamCalls    otelmetric.Int64Counter
	upstreamDuration otelmetric.Float64Histogram
}

// New wires the otel meter provider to the Prometheus exporter so upstream
// metrics are served from the same /metrics endpoint.
func New(serviceName string) (*Observability, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return &Observability{tracer: otel.Tracer(serviceName)}, err
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	upstreamCalls, err := meter.Int64Counter(
		"upstream.calls",
		otelmetric.WithDescription("Number of calls to external providers"),
	)
	if err != nil {
		return nil, err
	}

	upstreamDuration, err := meter.Float64Histogram(
		"upstream.duration",
		otelmetric.WithDescription("Upstream call duration"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &Observability{
		meterProvider:    provider,
		tracer:           otel.Tracer(serviceName),
		upstreamCalls:    upstreamCalls,
		upstreamDuration: upstreamDuration,
	}, nil
}

// StartSpan starts a span on the service tracer, or on the global no-op
// tracer when o was never initialized.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer("sahachari")
	if o != nil && o.tracer != nil {
		tracer = o.tracer
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (o *Observability) RecordUpstreamCall(ctx context.Context, provider, model, status string, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("model", model),
		attribute.String("status", status),
	)
	if o.upstreamCalls != nil {
		o.upstreamCalls.Add(ctx, 1, attrs)
	}
	if o.upstreamDuration != nil {
		o.upstreamDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

func (o *Observability) Shutdown() {
	if o != nil && o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
