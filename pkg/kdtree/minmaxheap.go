// pkg/kdtree/minmaxheap.go
package kdtree

// minMaxHeap is a double-ended priority queue supporting O(1) access to
// both the minimum and maximum element and O(log n) insertion/removal,
// per the GLOSSARY's "Min-max heap" entry. NearestN bounds its candidate
// set with one of these rather than a plain min-heap so it can cheaply
// test "is this candidate better than our current worst kept result"
// while still being able to drain results in ascending order at the end.
//
// Implementation follows the classic Atkinson/Sack/Santoro/Strothotte
// layout: even-depth nodes (0, 1-2 skipped... root is depth 0) form a
// min-heap over their descendants, odd-depth nodes form a max-heap over
// theirs. No third-party module in the retrieval pack ships a ready-made
// min-max heap (the Rust source this tree is ported from reaches for the
// min_max_heap crate, which has no Go ecosystem analogue in the pack), so
// this is a from-scratch implementation of the published algorithm rather
// than a wrapped library.
type minMaxHeap[A Float, Item ItemID] struct {
	dist []A
	item []Item
	cap  int
}

func newMinMaxHeap[A Float, Item ItemID](capacity int) *minMaxHeap[A, Item] {
	return &minMaxHeap[A, Item]{
		dist: make([]A, 0, capacity),
		item: make([]Item, 0, capacity),
		cap:  capacity,
	}
}

func (h *minMaxHeap[A, Item]) Len() int { return len(h.dist) }

func (h *minMaxHeap[A, Item]) Full() bool { return len(h.dist) >= h.cap }

// PeekMax returns the current worst (largest) distance held. ok is false
// when the heap is empty.
func (h *minMaxHeap[A, Item]) PeekMax() (A, bool) {
	n := len(h.dist)
	switch n {
	case 0:
		var zero A
		return zero, false
	case 1:
		return h.dist[0], true
	case 2:
		return h.dist[1], true
	default:
		if h.dist[1] >= h.dist[2] {
			return h.dist[1], true
		}
		return h.dist[2], true
	}
}

// Push adds dist/item, growing the heap. Callers must only call this when
// Len() < capacity; see ReplaceMax for the full case.
func (h *minMaxHeap[A, Item]) Push(dist A, item Item) {
	h.dist = append(h.dist, dist)
	h.item = append(h.item, item)
	h.bubbleUp(len(h.dist) - 1)
}

// ReplaceMax removes the current maximum and inserts dist/item in its
// place. Callers should only call this when the heap is full and dist is
// known to improve on the current maximum.
func (h *minMaxHeap[A, Item]) ReplaceMax(dist A, item Item) {
	h.popMax()
	h.Push(dist, item)
}

// PopMin removes and returns the minimum element. ok is false when empty.
func (h *minMaxHeap[A, Item]) PopMin() (A, Item, bool) {
	n := len(h.dist)
	if n == 0 {
		var zd A
		var zi Item
		return zd, zi, false
	}
	d, it := h.dist[0], h.item[0]
	last := n - 1
	h.dist[0], h.item[0] = h.dist[last], h.item[last]
	h.dist = h.dist[:last]
	h.item = h.item[:last]
	if last > 0 {
		h.trickleDownMin(0)
	}
	return d, it, true
}

func (h *minMaxHeap[A, Item]) popMax() {
	n := len(h.dist)
	if n == 0 {
		return
	}
	idx := 0
	if n == 2 {
		idx = 1
	} else if n > 2 {
		if h.dist[1] >= h.dist[2] {
			idx = 1
		} else {
			idx = 2
		}
	}
	last := n - 1
	h.dist[idx], h.item[idx] = h.dist[last], h.item[last]
	h.dist = h.dist[:last]
	h.item = h.item[:last]
	if idx < len(h.dist) {
		h.trickleDownMax(idx)
	}
}

func isMinLevel(i int) bool {
	level := 0
	for n := i + 1; n > 1; n >>= 1 {
		level++
	}
	return level%2 == 0
}

func (h *minMaxHeap[A, Item]) swap(i, j int) {
	h.dist[i], h.dist[j] = h.dist[j], h.dist[i]
	h.item[i], h.item[j] = h.item[j], h.item[i]
}

func (h *minMaxHeap[A, Item]) bubbleUp(i int) {
	if i == 0 {
		return
	}
	parent := (i - 1) / 2
	if isMinLevel(i) {
		if h.dist[i] > h.dist[parent] {
			h.swap(i, parent)
			h.bubbleUpMax(parent)
		} else {
			h.bubbleUpMin(i)
		}
	} else {
		if h.dist[i] < h.dist[parent] {
			h.swap(i, parent)
			h.bubbleUpMin(parent)
		} else {
			h.bubbleUpMax(i)
		}
	}
}

func (h *minMaxHeap[A, Item]) bubbleUpMin(i int) {
	for {
		gp := grandparent(i)
		if gp < 0 || h.dist[i] >= h.dist[gp] {
			return
		}
		h.swap(i, gp)
		i = gp
	}
}

func (h *minMaxHeap[A, Item]) bubbleUpMax(i int) {
	for {
		gp := grandparent(i)
		if gp < 0 || h.dist[i] <= h.dist[gp] {
			return
		}
		h.swap(i, gp)
		i = gp
	}
}

func grandparent(i int) int {
	parent := (i - 1) / 2
	if parent < 1 {
		return -1
	}
	return (parent - 1) / 2
}

func (h *minMaxHeap[A, Item]) trickleDownMin(i int) {
	for {
		smallest := smallestDescendant(h, i)
		if smallest == -1 {
			return
		}
		if isChild(i, smallest) {
			if h.dist[smallest] < h.dist[i] {
				h.swap(i, smallest)
			}
			return
		}
		// smallest is a grandchild
		if h.dist[smallest] < h.dist[i] {
			h.swap(i, smallest)
			parent := (smallest - 1) / 2
			if h.dist[smallest] > h.dist[parent] {
				h.swap(smallest, parent)
			}
			i = smallest
		} else {
			return
		}
	}
}

func (h *minMaxHeap[A, Item]) trickleDownMax(i int) {
	for {
		largest := largestDescendant(h, i)
		if largest == -1 {
			return
		}
		if isChild(i, largest) {
			if h.dist[largest] > h.dist[i] {
				h.swap(i, largest)
			}
			return
		}
		if h.dist[largest] > h.dist[i] {
			h.swap(i, largest)
			parent := (largest - 1) / 2
			if h.dist[largest] < h.dist[parent] {
				h.swap(largest, parent)
			}
			i = largest
		} else {
			return
		}
	}
}

func isChild(parent, candidate int) bool {
	return candidate == 2*parent+1 || candidate == 2*parent+2
}

// smallestDescendant returns the index, among i's children and
// grandchildren that exist, holding the smallest distance. -1 if i has no
// children.
func smallestDescendant[A Float, Item ItemID](h *minMaxHeap[A, Item], i int) int {
	n := len(h.dist)
	best := -1
	consider := func(idx int) {
		if idx < n && (best == -1 || h.dist[idx] < h.dist[best]) {
			best = idx
		}
	}
	l, r := 2*i+1, 2*i+2
	consider(l)
	consider(r)
	if l < n {
		consider(2*l + 1)
		consider(2*l + 2)
	}
	if r < n {
		consider(2*r + 1)
		consider(2*r + 2)
	}
	return best
}

func largestDescendant[A Float, Item ItemID](h *minMaxHeap[A, Item], i int) int {
	n := len(h.dist)
	best := -1
	consider := func(idx int) {
		if idx < n && (best == -1 || h.dist[idx] > h.dist[best]) {
			best = idx
		}
	}
	l, r := 2*i+1, 2*i+2
	consider(l)
	consider(r)
	if l < n {
		consider(2*l + 1)
		consider(2*l + 2)
	}
	if r < n {
		consider(2*r + 1)
		consider(2*r + 2)
	}
	return best
}
