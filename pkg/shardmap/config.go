package shardmap

import (
	"errors"
	"time"

	"github.com/streamkit/producer/pkg/executor"
	"github.com/streamkit/producer/pkg/lock"
)

// Default configuration values, per §6.3.
const (
	DefaultMinBackoff     = time.Second
	DefaultMaxBackoff     = 30 * time.Second
	DefaultClosedShardTTL = 60 * time.Second
)

// ErrMissingStreamName is returned by New when no stream name was configured.
var ErrMissingStreamName = errors.New("shardmap: stream name is required")

// Config holds the recognized configuration options (§6.3).
type Config struct {
	StreamName     string
	StreamARN      string
	MinBackoff     time.Duration
	MaxBackoff     time.Duration
	ClosedShardTTL time.Duration

	Topology    TopologyClient
	Executor    executor.Executor
	Metrics     MetricsSink
	Logger      Logger
	IndexLocker lock.RWLocker
	CacheLocker lock.RWLocker
}

// Option configures a ShardMap at construction time.
type Option func(*Config)

// WithStreamName sets the required stream name.
func WithStreamName(name string) Option {
	return func(c *Config) { c.StreamName = name }
}

// WithStreamARN sets the optional stream ARN.
func WithStreamARN(arn string) Option {
	return func(c *Config) { c.StreamARN = arn }
}

// WithMinBackoff overrides the minimum refresh retry backoff.
func WithMinBackoff(d time.Duration) Option {
	return func(c *Config) { c.MinBackoff = d }
}

// WithMaxBackoff overrides the maximum refresh retry backoff.
func WithMaxBackoff(d time.Duration) Option {
	return func(c *Config) { c.MaxBackoff = d }
}

// WithClosedShardTTL overrides the shard-cache eviction grace period.
func WithClosedShardTTL(d time.Duration) Option {
	return func(c *Config) { c.ClosedShardTTL = d }
}

// WithTopologyClient sets the topology collaborator. Required.
func WithTopologyClient(tc TopologyClient) Option {
	return func(c *Config) { c.Topology = tc }
}

// WithExecutor sets the scheduling collaborator. Defaults to a
// time.AfterFunc-based executor (pkg/executor.NewTimerExecutor) if unset.
func WithExecutor(e executor.Executor) Option {
	return func(c *Config) { c.Executor = e }
}

// WithMetrics sets the metrics collaborator. Defaults to NopMetricsSink.
func WithMetrics(m MetricsSink) Option {
	return func(c *Config) { c.Metrics = m }
}

// WithLogger sets the logging collaborator. Defaults to NewZerologLogger.
func WithLogger(l Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// defaultConfig returns a Config populated with every default from §6.3,
// before options are applied.
func defaultConfig() Config {
	return Config{
		MinBackoff:     DefaultMinBackoff,
		MaxBackoff:     DefaultMaxBackoff,
		ClosedShardTTL: DefaultClosedShardTTL,
		Metrics:        NopMetricsSink{},
		Logger:         NewZerologLogger(),
	}
}

// validate checks that required collaborators and options were supplied.
func (c Config) validate() error {
	if c.StreamName == "" {
		return ErrMissingStreamName
	}

	if c.Topology == nil {
		return errors.New("shardmap: topology client is required")
	}

	return nil
}
