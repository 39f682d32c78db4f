package topology_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamkit/producer/pkg/shardmap"
	"github.com/streamkit/producer/pkg/topology"
)

func shard(t *testing.T, id uint64) shardmap.Shard {
	t.Helper()

	return shardmap.Shard{ShardID: shardmap.ShardId(id)}
}

func TestFake_PaginatesAndTerminates(t *testing.T) {
	t.Parallel()

	shards := []shardmap.Shard{shard(t, 1), shard(t, 2), shard(t, 3), shard(t, 4), shard(t, 5)}
	f := topology.NewFake(shards, 2)

	ctx := context.Background()

	var collected []shardmap.Shard

	page, err := f.ListShards(ctx, shardmap.TopologyRequest{StreamName: "s"})
	require.NoError(t, err)

	collected = append(collected, page.Shards...)

	for page.ContinuationToken != "" {
		page, err = f.ListShards(ctx, shardmap.TopologyRequest{ContinuationToken: page.ContinuationToken})
		require.NoError(t, err)

		collected = append(collected, page.Shards...)
	}

	assert.Len(t, collected, 5)
}

func TestFake_UnknownTokenErrors(t *testing.T) {
	t.Parallel()

	f := topology.NewFake(nil, 10)

	_, err := f.ListShards(context.Background(), shardmap.TopologyRequest{ContinuationToken: "bogus"})
	assert.Error(t, err)
}

func TestFake_FailNext(t *testing.T) {
	t.Parallel()

	f := topology.NewFake([]shardmap.Shard{shard(t, 1)}, 10)
	f.FailNext(assert.AnError)

	_, err := f.ListShards(context.Background(), shardmap.TopologyRequest{StreamName: "s"})
	assert.ErrorIs(t, err, assert.AnError)

	// The next call succeeds again.
	page, err := f.ListShards(context.Background(), shardmap.TopologyRequest{StreamName: "s"})
	require.NoError(t, err)
	assert.Len(t, page.Shards, 1)
}
