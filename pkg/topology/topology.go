// Package topology provides an in-memory fake of the shardmap package's
// TopologyClient collaborator, used by tests and the demo CLI in place of a
// real stream-metadata service.
package topology

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/streamkit/producer/pkg/shardmap"
)

// Fake is an in-process TopologyClient backed by a configurable shard list.
// It pages responses in fixed-size chunks and mints continuation tokens as
// UUIDs, so callers exercise real pagination-with-opaque-token semantics
// instead of a predictable counter.
type Fake struct {
	mu sync.Mutex

	shards   []shardmap.Shard
	pageSize int

	// pages maps a continuation token to the index into shards where the
	// next page should start.
	pages map[string]int

	// failNext, if non-nil, is returned (and cleared) on the next
	// ListShards call instead of a successful page.
	failNext error
}

// NewFake returns a Fake serving shards, paginated at pageSize per response.
func NewFake(shards []shardmap.Shard, pageSize int) *Fake {
	return &Fake{
		shards:   shards,
		pageSize: pageSize,
		pages:    make(map[string]int),
	}
}

// SetShards replaces the shard list served by subsequent refreshes.
func (f *Fake) SetShards(shards []shardmap.Shard) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.shards = shards
}

// FailNext causes the next ListShards call to return err instead of a page.
func (f *Fake) FailNext(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.failNext = err
}

// ListShards implements shardmap.TopologyClient.
func (f *Fake) ListShards(_ context.Context, req shardmap.TopologyRequest) (shardmap.TopologyPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil

		return shardmap.TopologyPage{}, err
	}

	start := 0

	if req.ContinuationToken != "" {
		idx, ok := f.pages[req.ContinuationToken]
		if !ok {
			return shardmap.TopologyPage{}, errUnknownContinuationToken
		}

		delete(f.pages, req.ContinuationToken)

		start = idx
	}

	end := start + f.pageSize
	if end > len(f.shards) {
		end = len(f.shards)
	}

	page := shardmap.TopologyPage{Shards: append([]shardmap.Shard(nil), f.shards[start:end]...)}

	if end < len(f.shards) {
		token := uuid.NewString()
		f.pages[token] = end
		page.ContinuationToken = token
	}

	return page, nil
}
