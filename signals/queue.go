package signals

import (
	"cmp"
	"slices"
)

// heightQueue holds the watched cells waiting for the next flush, bucketed by
// height. A cell is always higher than every cell it read during its last
// evaluation, so draining from the lowest bucket up visits sources before the
// cells that depend on them. Within a bucket cells run in creation order.
//
// Removal is lazy: a removed entry stays in its bucket and is skipped when its
// sequence number no longer matches the node.
type heightQueue struct {
	buckets []bucket
	min     int
	size    int
	seq     uint64
}

type bucket struct {
	entries  []queueEntry
	unsorted bool
}

type queueEntry struct {
	node *node
	seq  uint64
}

func (q *heightQueue) push(n *node) bool {
	if n.flags&fInQueue != 0 {
		return false
	}
	n.flags |= fInQueue
	q.seq++
	n.queueSeq = q.seq

	h := n.height
	for len(q.buckets) <= h {
		q.buckets = append(q.buckets, bucket{})
	}
	b := &q.buckets[h]
	b.entries = append(b.entries, queueEntry{node: n, seq: q.seq})
	b.unsorted = len(b.entries) > 1
	if q.size == 0 || h < q.min {
		q.min = h
	}
	q.size++
	return true
}

func (q *heightQueue) pop() *node {
	for q.size > 0 && q.min < len(q.buckets) {
		b := &q.buckets[q.min]
		if len(b.entries) == 0 {
			q.min++
			continue
		}
		if b.unsorted {
			slices.SortStableFunc(b.entries, func(x, y queueEntry) int {
				return cmp.Compare(x.node.id, y.node.id)
			})
			b.unsorted = false
		}
		entry := b.entries[0]
		b.entries = b.entries[1:]

		n := entry.node
		if n.flags&fInQueue == 0 || n.queueSeq != entry.seq {
			continue
		}
		n.flags &^= fInQueue
		q.size--
		return n
	}
	q.reset()
	return nil
}

func (q *heightQueue) remove(n *node) {
	if n.flags&fInQueue == 0 {
		return
	}
	n.flags &^= fInQueue
	q.size--
	if q.size == 0 {
		q.reset()
	}
}

// discard drops every pending entry.
func (q *heightQueue) discard() {
	for n := q.pop(); n != nil; n = q.pop() {
	}
}

func (q *heightQueue) reset() {
	for i := range q.buckets {
		q.buckets[i] = bucket{}
	}
	q.min = 0
	q.size = 0
}

func (q *heightQueue) len() int {
	return q.size
}
