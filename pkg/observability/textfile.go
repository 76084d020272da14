package observability

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Textfile collects a run's metrics into a private Prometheus registry so
// they can be written for the node-exporter textfile collector. Each
// instance owns its registry, so several can coexist in one process.
type Textfile struct {
	registry *prometheus.Registry
	provider *sdkmetric.MeterProvider
}

// NewTextfile creates a meter provider backed by the OTel Prometheus exporter.
func NewTextfile() (*Textfile, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	return &Textfile{
		registry: registry,
		provider: sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter)),
	}, nil
}

// Meter returns the meter whose instruments end up in the file.
func (tf *Textfile) Meter() metric.Meter {
	return tf.provider.Meter(meterName)
}

// Write gathers the registry and atomically writes it to path.
func (tf *Textfile) Write(path string) error {
	err := prometheus.WriteToTextfile(path, tf.registry)
	if err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}

	return nil
}

// Shutdown releases the meter provider.
func (tf *Textfile) Shutdown(ctx context.Context) error {
	err := tf.provider.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("shutdown textfile meter provider: %w", err)
	}

	return nil
}
