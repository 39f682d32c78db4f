package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"

	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

// NewResource builds the OTel Resource shared by the demo CLI's trace/log
// exporters and its Prometheus bridge (pkg/prometheus), so both surfaces
// report the same service identity.
func NewResource(
	ctx context.Context,
	serviceName,
	serviceVersion string,
	extraAttrs ...attribute.KeyValue,
) (*resource.Resource, error) {
	attrs := append([]attribute.KeyValue{
		semconv.ServiceName(serviceName),
		semconv.ServiceVersionKey.String(serviceVersion),
	}, extraAttrs...)

	return resource.New(
		ctx,

		// NOTE: bump this import if the detectors below start reporting a
		// different semconv version; a mismatch here fails at startup.
		resource.WithSchemaURL(semconv.SchemaURL),

		resource.WithAttributes(attrs...),

		// OTEL_RESOURCE_ATTRIBUTES / OTEL_SERVICE_NAME overrides.
		resource.WithFromEnv(),

		resource.WithTelemetrySDK(),

		// Process detectors, minus resource.WithProcessCommandArgs(): the
		// demo CLI's own flags (stream-name, server-addr, ...) would end up
		// in every exported span/log resource verbatim, and a caller wiring
		// a real TopologyClient's auth token through a flag rather than an
		// env var would leak it into telemetry. The remaining process
		// attributes carry no caller-supplied values.
		resource.WithProcessPID(),
		resource.WithProcessExecutableName(),
		resource.WithProcessExecutablePath(),
		resource.WithProcessOwner(),
		resource.WithProcessRuntimeName(),
		resource.WithProcessRuntimeVersion(),
		resource.WithProcessRuntimeDescription(),

		resource.WithOS(),
		resource.WithContainer(),
		resource.WithHost(),
	)
}
