package main

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/streamkit/producer/pkg/debugserver"
	"github.com/streamkit/producer/pkg/prometheus"
	"github.com/streamkit/producer/pkg/shardmap"
	"github.com/streamkit/producer/pkg/topology"
)

// hashKeySpaceBits mirrors pkg/shardmap's hash-key width: [0, 2^128).
const hashKeySpaceBits = 128

// evenlySplitShards builds n open shards with contiguous, equal-width
// hash-key ranges covering the full space, for the demo's initial topology.
func evenlySplitShards(n int) []shardmap.Shard {
	if n < 1 {
		n = 1
	}

	space := new(big.Int).Lsh(big.NewInt(1), hashKeySpaceBits)
	width := new(big.Int).Div(space, big.NewInt(int64(n)))

	shards := make([]shardmap.Shard, 0, n)

	start := big.NewInt(0)

	for i := 0; i < n; i++ {
		end := new(big.Int).Add(start, width)
		end.Sub(end, big.NewInt(1))

		if i == n-1 {
			end = new(big.Int).Sub(space, big.NewInt(1))
		}

		shards = append(shards, shardmap.Shard{
			ShardID: shardmap.ShardId(i + 1),
			HashKeyRange: shardmap.HashKeyRange{
				Start: shardmap.MustNewHashKey(start),
				End:   shardmap.MustNewHashKey(end),
			},
			SequenceNumberRange: shardmap.SequenceNumberRange{
				StartingSequenceNumber: "0",
			},
		})

		start = new(big.Int).Add(end, big.NewInt(1))
	}

	return shards
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "run a ShardMap against an in-memory topology fake and serve its state over HTTP",
		Action: serveAction,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "stream-name",
				Usage:   "The stream name reported to the topology client",
				Sources: cli.EnvVars("STREAM_NAME"),
				Value:   "demo-stream",
			},
			&cli.IntFlag{
				Name:    "initial-shards",
				Usage:   "Number of equal-width open shards the topology fake starts with",
				Sources: cli.EnvVars("INITIAL_SHARDS"),
				Value:   4,
			},
			&cli.DurationFlag{
				Name:    "min-backoff",
				Usage:   "Minimum refresh retry backoff",
				Sources: cli.EnvVars("MIN_BACKOFF"),
				Value:   shardmap.DefaultMinBackoff,
			},
			&cli.DurationFlag{
				Name:    "max-backoff",
				Usage:   "Maximum refresh retry backoff",
				Sources: cli.EnvVars("MAX_BACKOFF"),
				Value:   shardmap.DefaultMaxBackoff,
			},
			&cli.DurationFlag{
				Name:    "closed-shard-ttl",
				Usage:   "Grace period before a closed shard is evicted from the cache",
				Sources: cli.EnvVars("CLOSED_SHARD_TTL"),
				Value:   shardmap.DefaultClosedShardTTL,
			},
			&cli.StringFlag{
				Name:    "server-addr",
				Usage:   "Address the debug HTTP server listens on",
				Sources: cli.EnvVars("SERVER_ADDR"),
				Value:   ":8080",
			},
		},
	}
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	logger := zerolog.Ctx(ctx).With().Str("cmd", "serve").Logger()
	ctx = logger.WithContext(ctx)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return autoMaxProcs(ctx, 30*time.Second, logger)
	})

	fake := topology.NewFake(evenlySplitShards(cmd.Int("initial-shards")), 1000)

	opts := []shardmap.Option{
		shardmap.WithStreamName(cmd.String("stream-name")),
		shardmap.WithTopologyClient(fake),
		shardmap.WithMinBackoff(cmd.Duration("min-backoff")),
		shardmap.WithMaxBackoff(cmd.Duration("max-backoff")),
		shardmap.WithClosedShardTTL(cmd.Duration("closed-shard-ttl")),
	}

	var gatherer promclient.Gatherer

	if cmd.Root().Bool("prometheus-enabled") {
		reg, shutdown, err := prometheus.SetupPrometheusMetrics(ctx, cmd.Root().Name, Version)
		if err != nil {
			return fmt.Errorf("error setting up Prometheus metrics: %w", err)
		}

		defer func() {
			if err := shutdown(ctx); err != nil {
				logger.Error().Err(err).Msg("error shutting down Prometheus metrics")
			}
		}()

		gatherer = reg

		sink, err := shardmap.NewOtelMetricsSink()
		if err != nil {
			return fmt.Errorf("error setting up shard map metrics: %w", err)
		}

		opts = append(opts, shardmap.WithMetrics(sink))

		logger.Info().Msg("Prometheus metrics enabled at /metrics")
	}

	sm, err := shardmap.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("error creating the shard map: %w", err)
	}
	defer sm.Close()

	handler := debugserver.New(cmd.Root().Name, sm, func() []shardmap.Shard {
		return sm.Shards(ctx)
	}, gatherer)

	server := &http.Server{
		BaseContext:       func(net.Listener) context.Context { return ctx },
		Addr:              cmd.String("server-addr"),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	logger.Info().Str("server_addr", cmd.String("server-addr")).Msg("debug server started")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("error starting the HTTP listener: %w", err)
	}

	return g.Wait()
}
