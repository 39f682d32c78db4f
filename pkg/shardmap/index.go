package shardmap

import (
	"context"
	"errors"
	"sort"

	"github.com/streamkit/producer/pkg/lock"
)

// indexEntry is one (end_hash_key, shard_id) pair of the lookup index.
type indexEntry struct {
	end     HashKey
	shardID ShardId
}

// lookupIndex is the sorted, disjoint cover of the hash-key space (§4.1). It
// is immutable once built: a refresh builds a brand new slice and swaps it
// in under the write lock, so readers holding a stale pointer never observe
// a partially rebuilt index.
type lookupIndex struct {
	locker  lock.RWLocker
	logger  Logger
	entries []indexEntry
}

const lookupIndexLockKey = "index"

var errShardMapInconsistency = errors.New("shard map inconsistency")

func newLookupIndex(locker lock.RWLocker, logger Logger) *lookupIndex {
	return &lookupIndex{locker: locker, logger: logger}
}

// lookup performs the binary search of §4.1. It never blocks: on lock
// contention it returns (0, false) immediately, matching the "lookup
// contention" error kind of §7.
func (idx *lookupIndex) lookup(ctx context.Context, hk HashKey) (ShardId, bool) {
	acquired, err := idx.locker.TryRLock(ctx, lookupIndexLockKey, 0)
	if err != nil || !acquired {
		return 0, false
	}
	defer idx.locker.RUnlock(ctx, lookupIndexLockKey) //nolint:errcheck

	entries := idx.entries

	i := sort.Search(len(entries), func(i int) bool {
		return !entries[i].end.Less(hk)
	})

	if i == len(entries) {
		idx.logger.Error(ctx, errShardMapInconsistency, "shard map inconsistency",
			"hash_key", hk.String())

		return 0, false
	}

	return entries[i].shardID, true
}

// replace atomically swaps in a freshly built, ascending-by-end set of
// entries. It blocks briefly for the write lock; this only happens on the
// refresh engine's own completion path, never on the caller hot path.
func (idx *lookupIndex) replace(ctx context.Context, entries []indexEntry) error {
	if err := idx.locker.Lock(ctx, lookupIndexLockKey, 0); err != nil {
		return err
	}
	defer idx.locker.Unlock(ctx, lookupIndexLockKey) //nolint:errcheck

	idx.entries = entries

	return nil
}

// maxEnd returns the final entry's end_hash_key, or false if the index is
// empty. Used only for diagnostics/tests; not on the hot path.
func (idx *lookupIndex) maxEnd(ctx context.Context) (HashKey, bool) {
	acquired, err := idx.locker.TryRLock(ctx, lookupIndexLockKey, 0)
	if err != nil || !acquired {
		return HashKey{}, false
	}
	defer idx.locker.RUnlock(ctx, lookupIndexLockKey) //nolint:errcheck

	if len(idx.entries) == 0 {
		return HashKey{}, false
	}

	return idx.entries[len(idx.entries)-1].end, true
}
