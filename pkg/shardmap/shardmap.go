// Package shardmap maintains a consistent, self-repairing view of a
// partitioned stream's current shard topology and answers the question
// "which shard owns this hash key, right now?" for every incoming record.
//
// It is the producer-side routing core of a client library for a
// shard-per-hash-range streaming service: the lookup index and refresh
// engine are lock-light and asynchronous respectively, so a record can be
// routed on the hot path without ever waiting on a remote topology call.
package shardmap

import (
	"context"
	"time"

	"github.com/streamkit/producer/pkg/executor"
	"github.com/streamkit/producer/pkg/lock/local"
)

// ShardMap answers ShardID/GetShard queries against the stream's current
// shard topology, refreshing itself asynchronously as the topology changes
// and as the caller reports mis-routes via Invalidate.
type ShardMap struct {
	cfg     Config
	index   *lookupIndex
	cache   *shardCache
	engine  *refreshEngine
	janitor *janitor
}

// New constructs a ShardMap and immediately triggers its first refresh, per
// §2's data-flow description. The returned ShardMap's janitor goroutine runs
// until Close is called.
func New(ctx context.Context, opts ...Option) (*ShardMap, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.Executor == nil {
		cfg.Executor = executor.NewTimerExecutor()
	}

	if cfg.IndexLocker == nil {
		cfg.IndexLocker = local.NewRWLocker()
	}

	if cfg.CacheLocker == nil {
		cfg.CacheLocker = local.NewRWLocker()
	}

	index := newLookupIndex(cfg.IndexLocker, cfg.Logger)
	cache := newShardCache(cfg.CacheLocker)
	engine := newRefreshEngine(cfg, index, cache)
	j := newJanitor(engine, cache, cfg.ClosedShardTTL)

	sm := &ShardMap{
		cfg:     cfg,
		index:   index,
		cache:   cache,
		engine:  engine,
		janitor: j,
	}

	j.start()
	engine.update(ctx)

	return sm, nil
}

// Close stops the janitor. It does not cancel an in-flight refresh; the
// ShardMap remains safe to query (it will simply stop evicting cache
// entries) after Close returns.
func (sm *ShardMap) Close() {
	sm.janitor.stop()
}

// ShardID returns the shard id whose hash-key range contains hk, or false if
// the map is not READY or the lookup index lock was contended (§4.1). It
// never blocks.
func (sm *ShardMap) ShardID(ctx context.Context, hk HashKey) (ShardId, bool) {
	if sm.engine.currentState() != StateReady {
		return 0, false
	}

	return sm.index.lookup(ctx, hk)
}

// GetShard returns the full shard descriptor for id, if still present in the
// shard cache (§4.2). Unlike ShardID, this may take a brief read lock: it is
// intended for the retry path, not the record-enqueue path.
func (sm *ShardMap) GetShard(ctx context.Context, id ShardId) (Shard, bool) {
	return sm.cache.get(ctx, id)
}

// Invalidate reports that a record observed at seenAt landed on a shard
// different from the one predictedShard named (nil if the lookup returned
// absent at enqueue time). It triggers a new refresh only if the policy of
// §4.3 is satisfied.
func (sm *ShardMap) Invalidate(ctx context.Context, seenAt time.Time, predictedShard *ShardId) {
	sm.engine.invalidate(ctx, seenAt, predictedShard)
}

// State returns the ShardMap's current lifecycle state. Exposed for
// introspection and tests; callers routing records should use ShardID's
// (shardID, ok) return instead of checking State first.
func (sm *ShardMap) State() State {
	return sm.engine.currentState()
}

// UpdatedAt returns the timestamp of the last successful refresh, the zero
// Time if none has completed yet.
func (sm *ShardMap) UpdatedAt() time.Time {
	return sm.engine.lastUpdatedAt()
}

// Shards returns every shard currently held in the shard cache, in no
// particular order. It is introspection-only, used by the debug server's
// shard dump; record routing never needs the whole set at once.
func (sm *ShardMap) Shards(ctx context.Context) []Shard {
	return sm.cache.snapshot(ctx)
}
