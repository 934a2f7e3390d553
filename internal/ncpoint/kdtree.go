// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ncpoint

import (
	"math"
	"sort"
)

// kdTree is a static 2D k-d tree over point coordinates, used for nearest
// neighbour queries. No spatial index library appears in the module's
// dependency set, and the query surface needed here (k nearest within an
// optional radius) is small enough to keep in-package.
type kdTree struct {
	// nodes holds point indices arranged as a balanced implicit tree.
	nodes  []int
	coords [][2]float64
}

// newKDTree builds a tree over the points selected by indices.
func newKDTree(coords [][2]float64, indices []int) *kdTree {
	nodes := make([]int, len(indices))
	copy(nodes, indices)
	t := &kdTree{nodes: nodes, coords: coords}
	t.build(0, len(t.nodes), 0)
	return t
}

func (t *kdTree) build(lo, hi, axis int) {
	if hi-lo <= 1 {
		return
	}
	mid := (lo + hi) / 2
	sub := t.nodes[lo:hi]
	sort.Slice(sub, func(i, j int) bool {
		return t.coords[sub[i]][axis] < t.coords[sub[j]][axis]
	})
	t.build(lo, mid, 1-axis)
	t.build(mid+1, hi, 1-axis)
}

// neighbour is one query result.
type neighbour struct {
	index    int
	distance float64
}

// query returns up to k nearest points to target within maxDistance
// (math.Inf(1) for unbounded), ordered nearest first.
func (t *kdTree) query(target [2]float64, k int, maxDistance float64) []neighbour {
	if k <= 0 || len(t.nodes) == 0 {
		return nil
	}
	best := &neighbourHeap{limit: k, radius: maxDistance}
	t.search(0, len(t.nodes), 0, target, best)

	out := make([]neighbour, len(best.items))
	copy(out, best.items)
	sort.Slice(out, func(i, j int) bool { return out[i].distance < out[j].distance })
	return out
}

func (t *kdTree) search(lo, hi, axis int, target [2]float64, best *neighbourHeap) {
	if hi <= lo {
		return
	}
	mid := (lo + hi) / 2
	idx := t.nodes[mid]
	p := t.coords[idx]
	best.offer(neighbour{index: idx, distance: math.Hypot(p[0]-target[0], p[1]-target[1])})

	delta := target[axis] - p[axis]
	nearLo, nearHi, farLo, farHi := lo, mid, mid+1, hi
	if delta > 0 {
		nearLo, nearHi, farLo, farHi = mid+1, hi, lo, mid
	}

	t.search(nearLo, nearHi, 1-axis, target, best)
	// Only descend the far side when the splitting plane is within reach.
	if math.Abs(delta) <= best.bound() {
		t.search(farLo, farHi, 1-axis, target, best)
	}
}

// neighbourHeap keeps the k best candidates seen so far. Linear replacement
// is fine for the small k values used in practice.
type neighbourHeap struct {
	items  []neighbour
	limit  int
	radius float64
}

func (h *neighbourHeap) offer(n neighbour) {
	if n.distance > h.radius {
		return
	}
	if len(h.items) < h.limit {
		h.items = append(h.items, n)
		return
	}
	worst := 0
	for i, item := range h.items {
		if item.distance > h.items[worst].distance {
			worst = i
		}
	}
	if n.distance < h.items[worst].distance {
		h.items[worst] = n
	}
}

// bound is the current search radius: the worst kept distance once the heap
// is full, otherwise the query radius.
func (h *neighbourHeap) bound() float64 {
	if len(h.items) < h.limit {
		return h.radius
	}
	worst := 0.0
	for _, item := range h.items {
		if item.distance > worst {
			worst = item.distance
		}
	}
	return worst
}
