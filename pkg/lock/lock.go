// Package lock provides a small locking abstraction used by the shard map's
// hot-path lookup index and its secondary shard-id cache.
//
// The index and the cache are guarded by independent RWLockers so that a
// cache eviction sweep never contends with an index lookup and vice versa.
// Callers on the lookup path never block: they use TryLock/TryRLock and fall
// through to "not available" on contention, per the non-blocking contract of
// the hot path.
package lock

import (
	"context"
	"time"
)

// Locker provides exclusive locking semantics for a single named resource.
type Locker interface {
	// Lock acquires an exclusive lock for the given key, blocking until it is
	// held or ctx is done. ttl is advisory and ignored by in-process
	// implementations.
	Lock(ctx context.Context, key string, ttl time.Duration) error

	// Unlock releases an exclusive lock previously acquired with Lock or a
	// successful TryLock.
	Unlock(ctx context.Context, key string) error

	// TryLock attempts to acquire an exclusive lock without blocking.
	//
	// Returns:
	//   - (true, nil) if the lock was acquired
	//   - (false, nil) if the lock is currently held by someone else
	//   - (false, error) if an error occurred
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// RWLocker adds shared (read) locking to Locker. Multiple readers may hold
// the lock concurrently; a writer requires exclusive access.
type RWLocker interface {
	Locker

	// RLock acquires a shared read lock, blocking until it is held.
	RLock(ctx context.Context, key string, ttl time.Duration) error

	// RUnlock releases a shared read lock acquired with RLock or a
	// successful TryRLock.
	RUnlock(ctx context.Context, key string) error

	// TryRLock attempts to acquire a shared read lock without blocking.
	// Implementations must never block the caller: on contention with a
	// writer they return (false, nil) immediately.
	TryRLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
}
