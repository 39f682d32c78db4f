package shardmap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamkit/producer/pkg/lock/local"
)

func newTestEngine() (*refreshEngine, *shardCache) {
	index := newLookupIndex(local.NewRWLocker(), NopLogger{})
	cache := newShardCache(local.NewRWLocker())
	cfg := defaultConfig()
	cfg.StreamName = "test-stream"

	return newRefreshEngine(cfg, index, cache), cache
}

func TestJanitor_SweepsOnlyWhenReadyPastTTLAndFlagged(t *testing.T) {
	ctx := context.Background()
	engine, cache := newTestEngine()
	j := newJanitor(engine, cache, 20*time.Millisecond)

	require.NoError(t, cache.populate(ctx, []Shard{{ShardID: ShardId(1)}, {ShardID: ShardId(2)}}))

	// Not READY yet: tick is a no-op.
	j.tick()
	assert.Equal(t, 2, cache.size(ctx))

	engine.mu.Lock()
	engine.state = StateReady
	engine.updatedAt = time.Now()
	engine.openSet = map[ShardId]struct{}{ShardId(1): {}}
	engine.mu.Unlock()

	// READY but TTL hasn't elapsed: still a no-op.
	j.tick()
	assert.Equal(t, 2, cache.size(ctx))

	time.Sleep(25 * time.Millisecond)

	j.tick()
	assert.Equal(t, 1, cache.size(ctx))
	_, ok := cache.get(ctx, ShardId(1))
	assert.True(t, ok)
}

func TestJanitor_SkipsSweepWhenNotFlagged(t *testing.T) {
	ctx := context.Background()
	engine, cache := newTestEngine()
	j := newJanitor(engine, cache, 10*time.Millisecond)

	require.NoError(t, cache.populate(ctx, []Shard{{ShardID: ShardId(1)}}))
	require.NoError(t, cache.sweep(ctx, map[ShardId]struct{}{ShardId(1): {}}))

	engine.mu.Lock()
	engine.state = StateReady
	engine.updatedAt = time.Now()
	engine.openSet = map[ShardId]struct{}{}
	engine.mu.Unlock()

	time.Sleep(15 * time.Millisecond)

	// Cleared cleanup flag, so even past TTL with an empty open set the
	// entry survives: populate hasn't run again since the last sweep.
	j.tick()
	assert.Equal(t, 1, cache.size(ctx))
}

func TestTTLSchedule_NextAddsInterval(t *testing.T) {
	s := ttlSchedule{interval: 5 * time.Second}
	now := time.Now()
	assert.Equal(t, now.Add(5*time.Second), s.Next(now))
}
