package prometheus

import (
	"context"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	promclient "github.com/prometheus/client_golang/prometheus"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"

	"github.com/streamkit/producer/pkg/telemetry"
)

// SetupPrometheusMetrics configures OpenTelemetry to export metrics in Prometheus format only,
// without any console output or other telemetry.
func SetupPrometheusMetrics(
	ctx context.Context,
	serviceName, serviceVersion string,
) (promclient.Gatherer, func(context.Context) error, error) {
	res, err := telemetry.NewResource(ctx, serviceName, serviceVersion)
	if err != nil {
		return nil, nil, err
	}

	registry := promclient.NewRegistry()

	exporter, err := promexporter.New(
		promexporter.WithRegisterer(registry),
	)
	if err != nil {
		return nil, nil, err
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	otel.SetMeterProvider(meterProvider)

	return registry, meterProvider.Shutdown, nil
}
