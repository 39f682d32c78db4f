package shardmap

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/streamkit/producer/pkg/executor"
)

const maxResultsPerPage = 1000

// refreshEngine is the state machine of §4.3: INVALID -> UPDATING -> READY,
// driven by topology page completions and a backed-off retry scheduler. All
// mutable scratch state (staging buffer, open set, continuation token,
// pending retry handle) is touched only here, and only while holding mu,
// which serializes the engine against itself (§5's "touched only between its
// own invocations" rule).
type refreshEngine struct {
	cfg Config

	index *lookupIndex
	cache *shardCache

	tracer trace.Tracer

	mu                sync.Mutex
	state             State
	updatedAt         time.Time
	staging           []Shard
	continuationToken string
	openSet           map[ShardId]struct{}
	pendingRetry      executor.ScheduledCallback
	backoffPolicy     *backoff.ExponentialBackOff
}

func newRefreshEngine(cfg Config, index *lookupIndex, cache *shardCache) *refreshEngine {
	return &refreshEngine{
		cfg:    cfg,
		index:  index,
		cache:  cache,
		tracer: otel.Tracer(otelPackageName),
		state:  StateInvalid,
		backoffPolicy: backoff.NewExponentialBackOff(
			backoff.WithInitialInterval(cfg.MinBackoff),
			backoff.WithMaxInterval(cfg.MaxBackoff),
			// The specification's backoff schedule (§4.3) is a pure
			// multiplier sequence with no jitter; disable the
			// randomization cenkalti/backoff applies by default so the
			// schedule matches exactly.
			backoff.WithRandomizationFactor(0),
		),
	}
}

// currentState returns the engine's state under lock.
func (e *refreshEngine) currentState() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.state
}

// lastUpdatedAt returns the timestamp of the last successful refresh.
func (e *refreshEngine) lastUpdatedAt() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.updatedAt
}

// openSetSnapshot returns a copy of the current open set, safe to range over
// without holding the engine's lock.
func (e *refreshEngine) openSetSnapshot() map[ShardId]struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := make(map[ShardId]struct{}, len(e.openSet))
	for id := range e.openSet {
		snap[id] = struct{}{}
	}

	return snap
}

// update implements the state table of §4.3's "`update()` called" rows. It
// is idempotent while UPDATING, and always starts a fresh pagination chain
// from INVALID or READY.
func (e *refreshEngine) update(ctx context.Context) {
	e.mu.Lock()

	switch e.state {
	case StateUpdating:
		e.mu.Unlock()

		return
	case StateReady, StateInvalid:
		e.staging = nil
		e.continuationToken = ""
		e.state = StateUpdating

		if e.pendingRetry != nil {
			e.pendingRetry.Cancel()
			e.pendingRetry = nil
		}
	}

	e.mu.Unlock()

	e.cfg.Metrics.RefreshAttempted()
	e.requestPage(ctx)
}

// requestPage issues one page request and dispatches its outcome. Per §5,
// the refresh engine is not blocked awaiting the remote call; ListShards is
// invoked on its own goroutine so a slow page never stalls a caller that
// happens to be holding e.mu (none do, by construction, but this also keeps
// the engine responsive to concurrent invalidate/update calls).
func (e *refreshEngine) requestPage(ctx context.Context) {
	e.mu.Lock()
	token := e.continuationToken
	e.mu.Unlock()

	req := TopologyRequest{
		ContinuationToken: token,
		MaxResults:        maxResultsPerPage,
	}

	if token == "" {
		req.StreamName = e.cfg.StreamName
		req.StreamARN = e.cfg.StreamARN
	}

	go func() {
		ctx, span := e.tracer.Start(ctx, "shardmap.refresh")
		defer span.End()

		page, err := e.cfg.Topology.ListShards(ctx, req)
		if err != nil {
			e.onPageFailure(ctx, err)

			return
		}

		e.onPageSuccess(ctx, page)
	}()
}

// onPageSuccess handles a received page: either it is not the last (more
// pages follow the continuation token) or it is (reconcile and go READY).
func (e *refreshEngine) onPageSuccess(ctx context.Context, page TopologyPage) {
	e.mu.Lock()
	e.staging = append(e.staging, page.Shards...)
	e.continuationToken = page.ContinuationToken
	staging := e.staging
	e.mu.Unlock()

	if page.ContinuationToken != "" {
		e.requestPage(ctx)

		return
	}

	e.commit(ctx, staging)
}

// commit builds the reconciled index and cache from a complete staging
// buffer and transitions to READY.
func (e *refreshEngine) commit(ctx context.Context, staging []Shard) {
	cover := Reconcile(staging)

	entries := make([]indexEntry, 0, len(cover))
	for _, s := range cover {
		entries = append(entries, indexEntry{end: s.HashKeyRange.End, shardID: s.ShardID})
	}

	if err := e.index.replace(ctx, entries); err != nil {
		e.onPageFailure(ctx, err)

		return
	}

	if err := e.cache.populate(ctx, staging); err != nil {
		e.onPageFailure(ctx, err)

		return
	}

	openSet := make(map[ShardId]struct{}, len(staging))
	for _, s := range staging {
		if s.Open() {
			openSet[s.ShardID] = struct{}{}
		}
	}

	e.mu.Lock()
	e.state = StateReady
	e.updatedAt = time.Now()
	e.openSet = openSet
	e.staging = nil
	e.backoffPolicy.Reset()
	e.mu.Unlock()

	e.cfg.Metrics.RefreshSucceeded(len(cover))
	e.cfg.Logger.Info(ctx, "shard map refresh succeeded",
		"stream", e.cfg.StreamName, "shards", len(cover))
}

// onPageFailure handles any page-request error: transition to INVALID and
// schedule a backed-off retry (§4.3).
func (e *refreshEngine) onPageFailure(ctx context.Context, err error) {
	e.cfg.Metrics.RefreshFailed()
	e.cfg.Logger.Error(ctx, err, "shard map refresh failed", "stream", e.cfg.StreamName)

	e.mu.Lock()
	e.state = StateInvalid
	e.staging = nil
	e.continuationToken = ""

	delay, backoffErr := e.backoffPolicy.NextBackOff()
	if backoffErr != nil {
		delay = e.cfg.MaxBackoff
	}

	if e.pendingRetry != nil {
		e.pendingRetry.Cancel()
	}

	e.pendingRetry = e.cfg.Executor.Schedule(func() {
		e.update(context.Background())
	}, delay)
	e.mu.Unlock()
}

// invalidate implements §4.3's invalidation policy: a refresh is triggered
// only if the mis-route observation postdates the current view, the engine
// is READY, and either no shard was predicted or the predicted shard is
// still open.
func (e *refreshEngine) invalidate(ctx context.Context, seenAt time.Time, predictedShard *ShardId) {
	e.mu.Lock()

	if !seenAt.After(e.updatedAt) {
		e.mu.Unlock()

		return
	}

	if e.state != StateReady {
		e.mu.Unlock()

		return
	}

	if predictedShard != nil {
		if _, open := e.openSet[*predictedShard]; !open {
			e.mu.Unlock()

			return
		}
	}

	e.mu.Unlock()

	e.update(ctx)
}
