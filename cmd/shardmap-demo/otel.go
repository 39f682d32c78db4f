package main

import (
	"context"
	"errors"
	"io"

	"github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"golang.org/x/sync/errgroup"

	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/streamkit/producer/pkg/telemetry"
)

// setupOTelSDK bootstraps tracing and logging. Metrics are bootstrapped
// separately in serveAction, and only when --prometheus-enabled is set;
// otherwise no MeterProvider is installed and no metrics are exported.
// If it does not return an error, call the returned shutdown for cleanup.
func setupOTelSDK(ctx context.Context, cmd *cli.Command) (func(context.Context) error, *sdklog.LoggerProvider, error) {
	var shutdownFuncs []func(context.Context) error

	shutdown := func(ctx context.Context) error {
		defer func() { shutdownFuncs = nil }()

		g, ctx := errgroup.WithContext(ctx)

		for _, fn := range shutdownFuncs {
			g.Go(func() error { return fn(ctx) })
		}

		return g.Wait()
	}

	handleErr := func(inErr error) error {
		return errors.Join(inErr, shutdown(ctx))
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	res, err := telemetry.NewResource(ctx, cmd.Root().Name, Version)
	if err != nil {
		return shutdown, nil, handleErr(err)
	}

	enabled := cmd.Bool("otel-enabled")

	tracerProvider, err := newTraceProvider(enabled, res)
	if err != nil {
		return shutdown, nil, handleErr(err)
	}

	shutdownFuncs = append(shutdownFuncs, tracerProvider.Shutdown)
	otel.SetTracerProvider(tracerProvider)

	loggerProvider, err := newLoggerProvider(enabled, res)
	if err != nil {
		return shutdown, nil, handleErr(err)
	}

	shutdownFuncs = append(shutdownFuncs, loggerProvider.Shutdown)

	return shutdown, loggerProvider, nil
}

func newTraceProvider(enabled bool, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	var (
		exporter sdktrace.SpanExporter
		err      error
	)

	if enabled {
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	} else {
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(io.Discard))
	}

	if err != nil {
		return nil, err
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	), nil
}

func newLoggerProvider(enabled bool, res *resource.Resource) (*sdklog.LoggerProvider, error) {
	var (
		exporter sdklog.Exporter
		err      error
	)

	if enabled {
		exporter, err = stdoutlog.New()
	} else {
		exporter, err = stdoutlog.New(stdoutlog.WithWriter(io.Discard))
	}

	if err != nil {
		return nil, err
	}

	return sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
		sdklog.WithResource(res),
	), nil
}
