package shardmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamkit/producer/pkg/shardmap"
)

func TestShardID_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, id := range []uint64{0, 1, 42, 999999999999} {
		id := id

		t.Run(shardmap.ShardId(id).String(), func(t *testing.T) {
			t.Parallel()

			s := shardmap.ShardId(id).String()

			parsed, err := shardmap.ParseShardID(s)
			require.NoError(t, err)
			assert.Equal(t, shardmap.ShardId(id), parsed)
		})
	}
}

func TestShardID_String_ZeroPadded(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "shardId-000000000042", shardmap.ShardId(42).String())
}

func TestParseShardID_Malformed(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"shardId-",
		"shardId-abc",
		"bogus-000000000042",
		"shardId--1",
	}

	for _, c := range cases {
		c := c

		t.Run(c, func(t *testing.T) {
			t.Parallel()

			_, err := shardmap.ParseShardID(c)
			require.ErrorIs(t, err, shardmap.ErrMalformedShardID)
		})
	}
}
