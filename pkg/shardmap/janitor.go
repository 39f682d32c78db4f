package shardmap

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

// ttlSchedule is a cron.Schedule that always fires closed_shard_ttl/2 after
// the last tick, implementing the janitor's fixed wake interval (§4.5)
// through the same cron.Schedule abstraction this tree uses for its other
// periodic background workers, rather than a hand-rolled ticker loop.
type ttlSchedule struct {
	interval time.Duration
}

func (s ttlSchedule) Next(t time.Time) time.Time {
	return t.Add(s.interval)
}

// janitor is the long-lived background worker of §4.5. It is started in the
// ShardMap constructor and runs until Close, sweeping the shard cache of
// entries for shards that have fallen out of the open set once both the TTL
// has elapsed since the last successful refresh and a refresh has actually
// populated the cache since the previous sweep.
type janitor struct {
	engine *refreshEngine
	cache  *shardCache
	ttl    time.Duration
	cron   *cron.Cron
}

func newJanitor(engine *refreshEngine, cache *shardCache, ttl time.Duration) *janitor {
	c := cron.New()

	j := &janitor{engine: engine, cache: cache, ttl: ttl, cron: c}

	c.Schedule(ttlSchedule{interval: ttl / 2}, cron.FuncJob(j.tick))

	return j
}

func (j *janitor) start() {
	j.cron.Start()
}

func (j *janitor) stop() {
	<-j.cron.Stop().Done()
}

func (j *janitor) tick() {
	if j.engine.currentState() != StateReady {
		return
	}

	if time.Since(j.engine.lastUpdatedAt()) <= j.ttl {
		return
	}

	if !j.cache.flaggedForCleanup(context.Background()) {
		return
	}

	_ = j.cache.sweep(context.Background(), j.engine.openSetSnapshot())
}
