package simplify

import (
	"container/heap"

	"github.com/Faultbox/proxymesh/pkg/math"
)

// pairKey is the normalized identity of a pair, lower vertex id first.
type pairKey [2]int

func makePairKey(s, t int) pairKey {
	if s > t {
		s, t = t, s
	}
	return pairKey{s, t}
}

// pair is a candidate contraction: v2 is merged into v1 at target.
type pair struct {
	v1, v2 int
	target math.Vec3
	cost   float64
	index  int // position in the queue, -1 when not queued
}

func (p *pair) key() pairKey {
	return pairKey{p.v1, p.v2}
}

// pairQueue is a min-heap of pairs ordered by cost, then by identity so
// equal costs resolve deterministically. Pairs track their own heap index
// so they can be removed or re-sorted in O(log n).
type pairQueue []*pair

func (q pairQueue) Len() int { return len(q) }

func (q pairQueue) Less(i, j int) bool {
	a, b := q[i], q[j]
	if a.cost != b.cost {
		return a.cost < b.cost
	}
	if a.v1 != b.v1 {
		return a.v1 < b.v1
	}
	return a.v2 < b.v2
}

func (q pairQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *pairQueue) Push(x any) {
	p := x.(*pair)
	p.index = len(*q)
	*q = append(*q, p)
}

func (q *pairQueue) Pop() any {
	old := *q
	n := len(old)
	p := old[n-1]
	old[n-1] = nil
	p.index = -1
	*q = old[:n-1]
	return p
}

func (q *pairQueue) insert(p *pair) {
	heap.Push(q, p)
}

func (q *pairQueue) remove(p *pair) {
	if p.index >= 0 {
		heap.Remove(q, p.index)
	}
}

// fix restores heap order after p's cost changed.
func (q *pairQueue) fix(p *pair) {
	if p.index >= 0 {
		heap.Fix(q, p.index)
	}
}

func (q *pairQueue) popMin() *pair {
	return heap.Pop(q).(*pair)
}
