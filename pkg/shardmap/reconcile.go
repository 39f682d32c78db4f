package shardmap

import (
	"container/heap"
	"math/big"
)

// heapItem is one shard in the reconciler's priority queue, tagged with the
// sequence number it was pushed at.
type heapItem struct {
	shard   Shard
	pushSeq int
}

// reconcileHeap orders shards by decreasing end_hash_key, ties broken by
// decreasing start_hash_key, and further ties (equal end AND start, e.g. a
// shard trimmed down to exactly the bounds of a shard not yet examined)
// broken by ascending pushSeq: the entry pushed earlier is examined first, so
// an untrimmed shard wins over one trimmed to the same bounds.
type reconcileHeap []heapItem

func (h reconcileHeap) Len() int { return len(h) }

func (h reconcileHeap) Less(i, j int) bool {
	a, b := h[i].shard.HashKeyRange, h[j].shard.HashKeyRange

	if c := a.End.Cmp(b.End); c != 0 {
		return c > 0
	}

	if c := a.Start.Cmp(b.Start); c != 0 {
		return c > 0
	}

	return h[i].pushSeq < h[j].pushSeq
}

func (h reconcileHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *reconcileHeap) Push(x any) {
	*h = append(*h, x.(heapItem)) //nolint:forcetypeassert
}

func (h *reconcileHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]

	return item
}

// Reconcile builds the minimal disjoint cover of §4.4: given a set of open
// shard descriptors that may include overlapping parents and children,
// returns the subset (trimmed where necessary) forming an ascending,
// non-overlapping index. On overlap the shard examined first (higher end,
// then higher start) keeps its range and the other is trimmed to below it or
// discarded, so a parent whose children cover its whole range is replaced by
// those children.
func Reconcile(shards []Shard) []Shard {
	h := make(reconcileHeap, 0, len(shards))
	pushSeq := 0

	push := func(s Shard) {
		heap.Push(&h, heapItem{shard: s, pushSeq: pushSeq})
		pushSeq++
	}

	for _, s := range shards {
		push(s)
	}

	// lastStart is the watermark of §4.4, initially +infinity: nothing has
	// been committed yet, so the first popped shard is always emitted.
	lastStart := new(big.Int).Set(hashKeySpace)

	var emitted []Shard

	for h.Len() > 0 {
		item := heap.Pop(&h).(heapItem) //nolint:forcetypeassert
		s := item.shard

		end := s.HashKeyRange.End.Big()
		start := s.HashKeyRange.Start.Big()

		switch {
		case end.Cmp(lastStart) < 0:
			// Entirely below the committed region: emit as-is.
			emitted = append(emitted, s)
			lastStart = start

		case start.Cmp(lastStart) < 0:
			// Partial overlap: trim to just below the watermark and re-insert.
			trimmedEnd := new(big.Int).Sub(lastStart, big.NewInt(1))
			s.HashKeyRange.End = MustNewHashKey(trimmedEnd)
			push(s)

		default:
			// Fully shadowed by the committed region: discard.
		}
	}

	// Reverse to ascending-by-end order, suitable for the lookup index.
	for i, j := 0, len(emitted)-1; i < j; i, j = i+1, j-1 {
		emitted[i], emitted[j] = emitted[j], emitted[i]
	}

	return emitted
}
