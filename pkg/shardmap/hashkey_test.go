package shardmap_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamkit/producer/pkg/shardmap"
)

func TestNewHashKey_Bounds(t *testing.T) {
	t.Parallel()

	t.Run("zero is valid", func(t *testing.T) {
		t.Parallel()

		hk, ok := shardmap.NewHashKey(big.NewInt(0))
		require.True(t, ok)
		assert.Equal(t, "0", hk.String())
	})

	t.Run("2^128 - 1 is valid", func(t *testing.T) {
		t.Parallel()

		max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

		hk, ok := shardmap.NewHashKey(max)
		require.True(t, ok)
		assert.Equal(t, max.String(), hk.String())
	})

	t.Run("2^128 is out of range", func(t *testing.T) {
		t.Parallel()

		tooBig := new(big.Int).Lsh(big.NewInt(1), 128)

		_, ok := shardmap.NewHashKey(tooBig)
		assert.False(t, ok)
	})

	t.Run("negative is out of range", func(t *testing.T) {
		t.Parallel()

		_, ok := shardmap.NewHashKey(big.NewInt(-1))
		assert.False(t, ok)
	})
}

func TestHashKey_Cmp(t *testing.T) {
	t.Parallel()

	a := shardmap.HashKeyFromUint64(10)
	b := shardmap.HashKeyFromUint64(20)

	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.Equal(t, 0, a.Cmp(a))
	assert.Negative(t, a.Cmp(b))
	assert.Positive(t, b.Cmp(a))
}

func TestHashKey_BigIsACopy(t *testing.T) {
	t.Parallel()

	hk := shardmap.HashKeyFromUint64(5)
	b := hk.Big()
	b.SetInt64(999)

	assert.Equal(t, "5", hk.String())
}
