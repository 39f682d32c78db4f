package shardmap

import "fmt"

// HashKeyRange is a pair of 128-bit hash keys, inclusive on both ends, with
// Start <= End.
type HashKeyRange struct {
	Start HashKey
	End   HashKey
}

// Contains reports whether hk falls within the range, inclusive.
func (r HashKeyRange) Contains(hk HashKey) bool {
	return !hk.Less(r.Start) && !r.End.Less(hk)
}

func (r HashKeyRange) String() string {
	return fmt.Sprintf("[%s, %s]", r.Start, r.End)
}

// SequenceNumberRange describes a shard's position in the stream's sequence
// space. EndingSequenceNumber is empty for an open shard; its presence marks
// the shard as closed.
type SequenceNumberRange struct {
	StartingSequenceNumber string
	EndingSequenceNumber   string
}

// Closed reports whether the shard this range belongs to has stopped
// accepting writes.
func (r SequenceNumberRange) Closed() bool {
	return r.EndingSequenceNumber != ""
}

// Shard is the descriptor returned by the external topology source. The core
// treats ParentShardID/AdjacentParentShardID as opaque passthrough fields; it
// never inspects them to decide parent/child precedence, which is instead
// recovered purely from HashKeyRange containment (§4.4).
type Shard struct {
	ShardID               ShardId
	ParentShardID         *ShardId
	AdjacentParentShardID *ShardId
	HashKeyRange          HashKeyRange
	SequenceNumberRange   SequenceNumberRange
}

// Open reports whether the shard is still accepting writes.
func (s Shard) Open() bool {
	return !s.SequenceNumberRange.Closed()
}

// State is the ShardMap's lifecycle state.
type State int

const (
	// StateInvalid is the initial state, and the state entered whenever a
	// refresh attempt fails. Queries fail (return absent) in this state.
	StateInvalid State = iota
	// StateUpdating means a refresh is in flight (page requests pending).
	StateUpdating
	// StateReady means the lookup index and shard cache reflect the most
	// recent successful refresh. Queries succeed in this state.
	StateReady
)

func (s State) String() string {
	switch s {
	case StateInvalid:
		return "INVALID"
	case StateUpdating:
		return "UPDATING"
	case StateReady:
		return "READY"
	default:
		return "UNKNOWN"
	}
}
