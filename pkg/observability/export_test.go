package observability

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// BuildResource exposes buildResource for testing.
func BuildResource(cfg Config) (*resource.Resource, error) {
	return buildResource(cfg)
}

// SamplesRootSpan starts a root span under the sampler resolved from cfg
// and reports whether it was recorded.
func SamplesRootSpan(cfg Config) bool {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(selectSampler(cfg)),
	)

	_, span := tp.Tracer("test").Start(context.Background(), "root")
	span.End()

	spans := exporter.GetSpans()

	err := tp.Shutdown(context.Background())
	if err != nil {
		return false
	}

	return len(spans) > 0
}

// NewInstrumentSet builds one instrument of each kind on meter and returns
// the builder's accumulated error.
func NewInstrumentSet(meter metric.Meter) error {
	b := newMetricBuilder(meter)
	b.counter("hibmigrate.test.count", "count", "{file}")
	b.histogram("hibmigrate.test.duration", "duration", "s", 0.1, 1)
	b.upDownCounter("hibmigrate.test.inflight", "inflight", "{request}")

	return b.err
}
