//nolint:testpackage
package main

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvenlySplitShards_CoversFullSpace(t *testing.T) {
	shards := evenlySplitShards(4)
	require.Len(t, shards, 4)

	assert.Equal(t, "0", shards[0].HashKeyRange.Start.String())

	for i := 1; i < len(shards); i++ {
		prevEnd := shards[i-1].HashKeyRange.End.Big()
		start := shards[i].HashKeyRange.Start.Big()

		gap := new(big.Int).Sub(start, prevEnd)
		assert.Equal(t, big.NewInt(1), gap)
	}

	space := new(big.Int).Lsh(big.NewInt(1), hashKeySpaceBits)
	lastWantEnd := new(big.Int).Sub(space, big.NewInt(1))

	lastGotEnd := shards[len(shards)-1].HashKeyRange.End.Big()
	assert.Equal(t, 0, lastWantEnd.Cmp(lastGotEnd))
}

func TestEvenlySplitShards_ClampsBelowOne(t *testing.T) {
	shards := evenlySplitShards(0)
	assert.Len(t, shards, 1)
}
