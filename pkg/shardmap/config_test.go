package shardmap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTopology struct{}

func (stubTopology) ListShards(context.Context, TopologyRequest) (TopologyPage, error) {
	return TopologyPage{}, nil
}

func TestDefaultConfig_HasSpecDefaults(t *testing.T) {
	cfg := defaultConfig()

	assert.Equal(t, DefaultMinBackoff, cfg.MinBackoff)
	assert.Equal(t, DefaultMaxBackoff, cfg.MaxBackoff)
	assert.Equal(t, DefaultClosedShardTTL, cfg.ClosedShardTTL)
	assert.IsType(t, NopMetricsSink{}, cfg.Metrics)
}

func TestConfig_ValidateRequiresStreamName(t *testing.T) {
	cfg := defaultConfig()
	cfg.Topology = stubTopology{}

	err := cfg.validate()
	assert.ErrorIs(t, err, ErrMissingStreamName)
}

func TestConfig_ValidateRequiresTopologyClient(t *testing.T) {
	cfg := defaultConfig()
	cfg.StreamName = "test-stream"

	err := cfg.validate()
	require.Error(t, err)
}

func TestConfig_ValidatePasses(t *testing.T) {
	cfg := defaultConfig()
	cfg.StreamName = "test-stream"
	cfg.Topology = stubTopology{}

	assert.NoError(t, cfg.validate())
}

func TestOptions_ApplyOverDefaults(t *testing.T) {
	cfg := defaultConfig()

	opts := []Option{
		WithStreamName("s"),
		WithStreamARN("arn:test"),
		WithMinBackoff(2 * time.Second),
		WithMaxBackoff(10 * time.Second),
		WithClosedShardTTL(5 * time.Second),
		WithTopologyClient(stubTopology{}),
		WithMetrics(NopMetricsSink{}),
		WithLogger(NopLogger{}),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	assert.Equal(t, "s", cfg.StreamName)
	assert.Equal(t, "arn:test", cfg.StreamARN)
	assert.Equal(t, 2*time.Second, cfg.MinBackoff)
	assert.Equal(t, 10*time.Second, cfg.MaxBackoff)
	assert.Equal(t, 5*time.Second, cfg.ClosedShardTTL)
	assert.NotNil(t, cfg.Topology)
}
