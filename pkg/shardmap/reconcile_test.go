package shardmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamkit/producer/pkg/shardmap"
)

func rangeShard(t *testing.T, id, start, end uint64) shardmap.Shard {
	t.Helper()

	return shardmap.Shard{
		ShardID: shardmap.ShardId(id),
		HashKeyRange: shardmap.HashKeyRange{
			Start: shardmap.HashKeyFromUint64(start),
			End:   shardmap.HashKeyFromUint64(end),
		},
	}
}

// TestReconcile_ParentPreference is the worked example from §8 of the
// specification: two parents, their first-generation children, and a
// re-merged grandchild spanning a parent boundary. The expected cover is the
// children, never the grandchild.
func TestReconcile_ParentPreference(t *testing.T) {
	t.Parallel()

	p1 := rangeShard(t, 1, 0, 5)
	p2 := rangeShard(t, 2, 6, 10)
	c1 := rangeShard(t, 11, 0, 2)
	c2 := rangeShard(t, 12, 3, 5)
	c3 := rangeShard(t, 13, 6, 8)
	c4 := rangeShard(t, 14, 9, 10)
	g := rangeShard(t, 99, 3, 8)

	got := shardmap.Reconcile([]shardmap.Shard{p1, p2, c1, c2, c3, c4, g})

	require.Len(t, got, 4)

	wantIDs := []shardmap.ShardId{11, 12, 13, 14}
	wantEnds := []uint64{2, 5, 8, 10}

	for i, s := range got {
		assert.Equal(t, wantIDs[i], s.ShardID)
		assert.Equal(t, wantEnds[i], s.HashKeyRange.End.Big().Uint64())
	}
}

func TestReconcile_NonOverlapping(t *testing.T) {
	t.Parallel()

	s1 := rangeShard(t, 1, 0, 49)
	s2 := rangeShard(t, 2, 50, 99)

	got := shardmap.Reconcile([]shardmap.Shard{s2, s1})

	require.Len(t, got, 2)
	assert.Equal(t, shardmap.ShardId(1), got[0].ShardID)
	assert.Equal(t, shardmap.ShardId(2), got[1].ShardID)
}

func TestReconcile_MidReshard(t *testing.T) {
	t.Parallel()

	parent := rangeShard(t, 1, 0, 99)
	c1 := rangeShard(t, 2, 0, 49)
	c2 := rangeShard(t, 3, 50, 99)

	got := shardmap.Reconcile([]shardmap.Shard{parent, c1, c2})

	require.Len(t, got, 2)
	assert.Equal(t, shardmap.ShardId(2), got[0].ShardID)
	assert.Equal(t, shardmap.ShardId(3), got[1].ShardID)
}

func TestReconcile_Ascending(t *testing.T) {
	t.Parallel()

	got := shardmap.Reconcile([]shardmap.Shard{
		rangeShard(t, 3, 20, 29),
		rangeShard(t, 1, 0, 9),
		rangeShard(t, 2, 10, 19),
	})

	for i := 1; i < len(got); i++ {
		assert.True(t, got[i-1].HashKeyRange.End.Less(got[i].HashKeyRange.End))
	}
}
