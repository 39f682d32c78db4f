package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/streamkit/producer/pkg/otelzerolog"
)

// New builds the shardmap-demo root command: global flags for logging and
// telemetry, wired in Before so every subcommand inherits a context carrying
// both a zerolog.Logger and a configured OTel SDK.
func New() *cli.Command {
	var otelShutdown func(context.Context) error

	return &cli.Command{
		Name:    "shardmap-demo",
		Usage:   "Exercise the shard map routing core against an in-memory topology fake",
		Version: Version,
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			var (
				loggerProvider *sdklog.LoggerProvider
				err            error
			)

			otelShutdown, loggerProvider, err = setupOTelSDK(ctx, cmd)
			if err != nil {
				return ctx, err
			}

			logLvl := cmd.String("log-level")

			lvl, err := zerolog.ParseLevel(logLvl)
			if err != nil {
				return ctx, fmt.Errorf("error parsing the log-level %q: %w", logLvl, err)
			}

			var output io.Writer = os.Stdout

			if cmd.Bool("otel-enabled") {
				otelWriter := otelzerolog.NewOtelWriter(loggerProvider, "shardmap-demo")
				output = zerolog.MultiLevelWriter(os.Stdout, otelWriter)
			}

			if term.IsTerminal(int(os.Stdout.Fd())) {
				output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
			}

			ctx = zerolog.New(output).
				Level(lvl).
				With().
				Timestamp().
				Logger().
				WithContext(ctx)

			zerolog.Ctx(ctx).Info().Str("log_level", lvl.String()).Msg("logger created")

			return ctx, nil
		},
		After: func(ctx context.Context, _ *cli.Command) error {
			if otelShutdown != nil {
				return otelShutdown(ctx)
			}

			return nil
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Set the log level",
				Sources: cli.EnvVars("LOG_LEVEL"),
				Value:   "info",
				Validator: func(lvl string) error {
					_, err := zerolog.ParseLevel(lvl)

					return err
				},
			},
			&cli.BoolFlag{
				Name:    "otel-enabled",
				Usage:   "Emit OpenTelemetry traces and logs to stdout instead of discarding them",
				Sources: cli.EnvVars("OTEL_ENABLED"),
			},
			&cli.BoolFlag{
				Name:    "prometheus-enabled",
				Usage:   "Enable the Prometheus metrics endpoint at /metrics on the debug server",
				Sources: cli.EnvVars("PROMETHEUS_ENABLED"),
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
		},
	}
}
