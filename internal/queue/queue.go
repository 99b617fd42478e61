// Package queue provides a bounded priority queue keyed by distance.
package queue

import "cmp"

// Item pairs a candidate point with its distance to the query.
type Item[T any, D cmp.Ordered] struct {
	Point    T
	Distance D
}

// PriorityQueue is a binary heap of Items ordered by Distance.
// Value-based storage for cache locality and zero per-push allocations.
type PriorityQueue[T any, D cmp.Ordered] struct {
	isMaxHeap bool
	items     []Item[T, D]
}

// NewMin initializes a new priority queue with minimum priority on top.
func NewMin[T any, D cmp.Ordered](capacity int) *PriorityQueue[T, D] {
	return &PriorityQueue[T, D]{
		isMaxHeap: false,
		items:     make([]Item[T, D], 0, capacity),
	}
}

// NewMax initializes a new priority queue with maximum priority on top.
func NewMax[T any, D cmp.Ordered](capacity int) *PriorityQueue[T, D] {
	return &PriorityQueue[T, D]{
		isMaxHeap: true,
		items:     make([]Item[T, D], 0, capacity),
	}
}

// Len returns the number of elements in the priority queue.
func (pq *PriorityQueue[T, D]) Len() int { return len(pq.items) }

// TopItem returns the top element of the heap without removing it.
func (pq *PriorityQueue[T, D]) TopItem() (Item[T, D], bool) {
	if len(pq.items) == 0 {
		return Item[T, D]{}, false
	}
	return pq.items[0], true
}

// PushItem inserts an item while maintaining the heap invariant.
func (pq *PriorityQueue[T, D]) PushItem(item Item[T, D]) {
	pq.items = append(pq.items, item)
	pq.siftUp(len(pq.items) - 1)
}

// PopItem removes and returns the top element while maintaining the heap invariant.
func (pq *PriorityQueue[T, D]) PopItem() (Item[T, D], bool) {
	n := len(pq.items)
	if n == 0 {
		return Item[T, D]{}, false
	}
	root := pq.items[0]
	last := pq.items[n-1]
	pq.items[n-1] = Item[T, D]{} // Zero out for GC
	pq.items = pq.items[:n-1]
	if n-1 > 0 {
		pq.items[0] = last
		pq.siftDown(0)
	}
	return root, true
}

// Reset clears the priority queue for reuse.
func (pq *PriorityQueue[T, D]) Reset() {
	pq.items = pq.items[:0]
}

func (pq *PriorityQueue[T, D]) less(i, j int) bool {
	if pq.isMaxHeap {
		return pq.items[i].Distance > pq.items[j].Distance
	}
	return pq.items[i].Distance < pq.items[j].Distance
}

func (pq *PriorityQueue[T, D]) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !pq.less(i, p) {
			return
		}
		pq.items[i], pq.items[p] = pq.items[p], pq.items[i]
		i = p
	}
}

func (pq *PriorityQueue[T, D]) siftDown(i int) {
	n := len(pq.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		best := l
		if r := l + 1; r < n && pq.less(r, l) {
			best = r
		}
		if !pq.less(best, i) {
			return
		}
		pq.items[i], pq.items[best] = pq.items[best], pq.items[i]
		i = best
	}
}
