package shardmap

import (
	"context"

	"github.com/streamkit/producer/pkg/lock"
)

const shardCacheLockKey = "cache"

// shardCache is the secondary shard_id -> Shard mapping of §3/§4.2. It is
// guarded by its own RWLocker, independent of the lookup index's, so a
// janitor sweep never contends with a hot-path lookup.
type shardCache struct {
	locker       lock.RWLocker
	entries      map[ShardId]Shard
	needsCleanup bool
}

func newShardCache(locker lock.RWLocker) *shardCache {
	return &shardCache{
		locker:  locker,
		entries: make(map[ShardId]Shard),
	}
}

// get returns the shard descriptor for id, if present. Unlike the lookup
// index, this may take a short read lock: it is called from the retry path,
// not the enqueue path (§4.2).
func (c *shardCache) get(ctx context.Context, id ShardId) (Shard, bool) {
	if err := c.locker.RLock(ctx, shardCacheLockKey, 0); err != nil {
		return Shard{}, false
	}
	defer c.locker.RUnlock(ctx, shardCacheLockKey) //nolint:errcheck

	s, ok := c.entries[id]

	return s, ok
}

// populate inserts every shard from a completed refresh into the cache
// (§4.4's "cache population" step) and flags the cache as needing a cleanup
// pass.
func (c *shardCache) populate(ctx context.Context, shards []Shard) error {
	if err := c.locker.Lock(ctx, shardCacheLockKey, 0); err != nil {
		return err
	}
	defer c.locker.Unlock(ctx, shardCacheLockKey) //nolint:errcheck

	for _, s := range shards {
		c.entries[s.ShardID] = s
	}

	c.needsCleanup = true

	return nil
}

// sweep removes every cache entry whose shard id is not in openSet. It is
// called only by the janitor, and only once the caller has confirmed the TTL
// and cleanup-flag conditions of §4.5.
func (c *shardCache) sweep(ctx context.Context, openSet map[ShardId]struct{}) error {
	if err := c.locker.Lock(ctx, shardCacheLockKey, 0); err != nil {
		return err
	}
	defer c.locker.Unlock(ctx, shardCacheLockKey) //nolint:errcheck

	for id := range c.entries {
		if _, open := openSet[id]; !open {
			delete(c.entries, id)
		}
	}

	c.needsCleanup = false

	return nil
}

// flaggedForCleanup reports whether populate has run since the last sweep.
func (c *shardCache) flaggedForCleanup(ctx context.Context) bool {
	if err := c.locker.RLock(ctx, shardCacheLockKey, 0); err != nil {
		return false
	}
	defer c.locker.RUnlock(ctx, shardCacheLockKey) //nolint:errcheck

	return c.needsCleanup
}

// snapshot returns a copy of every cached shard, in no particular order.
// Used for introspection (the debug server's shard dump); never on the hot
// path.
func (c *shardCache) snapshot(ctx context.Context) []Shard {
	if err := c.locker.RLock(ctx, shardCacheLockKey, 0); err != nil {
		return nil
	}
	defer c.locker.RUnlock(ctx, shardCacheLockKey) //nolint:errcheck

	out := make([]Shard, 0, len(c.entries))
	for _, s := range c.entries {
		out = append(out, s)
	}

	return out
}

// size returns the number of entries currently cached. Used for
// introspection/tests.
func (c *shardCache) size(ctx context.Context) int {
	if err := c.locker.RLock(ctx, shardCacheLockKey, 0); err != nil {
		return 0
	}
	defer c.locker.RUnlock(ctx, shardCacheLockKey) //nolint:errcheck

	return len(c.entries)
}
