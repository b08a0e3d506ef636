package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

const serviceName = "rbtree"

// installMeterProvider replaces the global meter provider, every
// RegisterRBTreeStats with a nil meter reports to the reader afterward.
func installMeterProvider(reader metric.Reader) func(ctx context.Context) error {
	mp := metric.NewMeterProvider(
		metric.WithReader(reader),
		metric.WithResource(resource.NewSchemaless(
			attribute.String("service.name", serviceName),
		)),
	)
	otel.SetMeterProvider(mp)
	return mp.Shutdown
}

// NewConsoleMetricsExporter serves for test/dev environment.
// The stats are pushed to the stdout (or the writer option) every interval.
func NewConsoleMetricsExporter(interval, timeout time.Duration, opts ...stdoutmetric.Option) (func(ctx context.Context) error, error) {
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, err
	}
	return installMeterProvider(metric.NewPeriodicReader(
		exporter,
		metric.WithInterval(interval),
		metric.WithTimeout(timeout),
	)), nil
}

// NewPrometheusMetricsExporter serves for the product environment,
// the stats are pulled by HTTP from the registerer.
func NewPrometheusMetricsExporter(opts ...prometheus.Option) (func(ctx context.Context) error, error) {
	exporter, err := prometheus.New(opts...)
	if err != nil {
		return nil, err
	}
	return installMeterProvider(exporter), nil
}
