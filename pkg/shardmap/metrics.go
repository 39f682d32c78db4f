package shardmap

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const otelPackageName = "github.com/streamkit/producer/pkg/shardmap"

// otelMetricsSink is an opt-in MetricsSink (see NewOtelMetricsSink and
// WithMetrics), recording refresh activity as OTel instruments. Unlike
// pkg/lock, which registers its instruments in init(), it registers them
// when NewOtelMetricsSink is called.
type otelMetricsSink struct {
	refreshAttemptsTotal  metric.Int64Counter
	refreshSuccessesTotal metric.Int64Counter
	refreshFailuresTotal  metric.Int64Counter
	shardCount            metric.Int64Gauge
}

// NewOtelMetricsSink returns a MetricsSink backed by the global OTel
// MeterProvider.
func NewOtelMetricsSink() (MetricsSink, error) {
	meter := otel.Meter(otelPackageName)

	attemptsTotal, err := meter.Int64Counter(
		"shardmap_refresh_attempts_total",
		metric.WithDescription("Total number of topology refresh attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	successesTotal, err := meter.Int64Counter(
		"shardmap_refresh_successes_total",
		metric.WithDescription("Total number of successful topology refreshes"),
		metric.WithUnit("{refresh}"),
	)
	if err != nil {
		return nil, err
	}

	failuresTotal, err := meter.Int64Counter(
		"shardmap_refresh_failures_total",
		metric.WithDescription("Total number of failed topology refreshes"),
		metric.WithUnit("{refresh}"),
	)
	if err != nil {
		return nil, err
	}

	shardCount, err := meter.Int64Gauge(
		"shardmap_shard_count",
		metric.WithDescription("Number of shards in the lookup index after the last successful refresh"),
		metric.WithUnit("{shard}"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetricsSink{
		refreshAttemptsTotal:  attemptsTotal,
		refreshSuccessesTotal: successesTotal,
		refreshFailuresTotal:  failuresTotal,
		shardCount:            shardCount,
	}, nil
}

func (m *otelMetricsSink) RefreshAttempted() {
	m.refreshAttemptsTotal.Add(context.Background(), 1)
}

func (m *otelMetricsSink) RefreshSucceeded(shardCount int) {
	m.refreshSuccessesTotal.Add(context.Background(), 1)
	m.shardCount.Record(context.Background(), int64(shardCount))
}

func (m *otelMetricsSink) RefreshFailed() {
	m.refreshFailuresTotal.Add(context.Background(), 1)
}
