package shardmap

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// shardIDPrefix and shardIDDigits define the external string form of a
// ShardId: "shardId-<12-digit-zero-padded-decimal>".
const (
	shardIDPrefix = "shardId-"
	shardIDDigits = 12
)

// ErrMalformedShardID is returned by ParseShardID when the input does not
// match "shardId-<digits>".
var ErrMalformedShardID = errors.New("shardmap: malformed shard id")

// ShardId is the internal representation of a shard identifier: the decimal
// value parsed from the external "shardId-<digits>" string.
type ShardId uint64

// ParseShardID parses the external representation of a shard id. It returns
// ErrMalformedShardID if s does not have the "shardId-" prefix or the suffix
// is not a valid non-negative decimal integer.
func ParseShardID(s string) (ShardId, error) {
	suffix, ok := strings.CutPrefix(s, shardIDPrefix)
	if !ok {
		return 0, fmt.Errorf("%w: %q: missing %q prefix", ErrMalformedShardID, s, shardIDPrefix)
	}

	v, err := strconv.ParseUint(suffix, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrMalformedShardID, s, err)
	}

	return ShardId(v), nil
}

// String renders the shard id in its external "shardId-<12-digit>" form.
func (id ShardId) String() string {
	return fmt.Sprintf("%s%0*d", shardIDPrefix, shardIDDigits, uint64(id))
}
