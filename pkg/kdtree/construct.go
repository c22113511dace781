// pkg/kdtree/construct.go
package kdtree

// Add inserts point/item unconditionally. Duplicates (same point, same or
// different item) are permitted. Never errors; panics only if point's
// dimension disagrees with the tree's (a programmer error, spec section 7).
func (t *Tree[A, Item]) Add(point []A, item Item) {
	t.checkPoint(point)

	dim := t.config.Dimension
	nodeIdx := t.rootIndex
	splitDim := 0
	parentIdx := noParent
	wasParentsLeft := false

	for isStemIndex(nodeIdx) {
		stem := &t.stems[nodeIdx]
		parentIdx = nodeIdx
		if point[splitDim] <= stem.splitVal {
			wasParentsLeft = true
			nodeIdx = stem.left
		} else {
			wasParentsLeft = false
			nodeIdx = stem.right
		}
		splitDim = (splitDim + 1) % dim
	}

	leafIdx := leafArenaIndex(nodeIdx)
	leaf := t.leaves[leafIdx]

	if leaf.size == t.config.BucketSize {
		newStemIdx := t.split(leafIdx, splitDim, parentIdx, wasParentsLeft)
		stem := &t.stems[newStemIdx]
		var target uint32
		if point[splitDim] <= stem.splitVal {
			target = stem.left
		} else {
			target = stem.right
		}
		leafIdx = leafArenaIndex(target)
		leaf = t.leaves[leafIdx]
	}

	leaf.append(point, item)
	t.size++
}

// Remove deletes every entry in the leaf reached by descending on point
// whose point and item both match exactly, per spec section 4.4. Returns
// the number of entries removed (0 if none matched). Never touches other
// leaves or stems, and never rebalances — see spec section 9's remove
// caveat: an entry that is no longer reachable via the current descent
// rule (possible only after a borderline split, per that caveat) is not
// found, even if it is still present somewhere in the arena.
func (t *Tree[A, Item]) Remove(point []A, item Item) int {
	t.checkPoint(point)

	dim := t.config.Dimension
	nodeIdx := t.rootIndex
	splitDim := 0

	for isStemIndex(nodeIdx) {
		stem := &t.stems[nodeIdx]
		if point[splitDim] <= stem.splitVal {
			nodeIdx = stem.left
		} else {
			nodeIdx = stem.right
		}
		splitDim = (splitDim + 1) % dim
	}

	leaf := t.leaves[leafArenaIndex(nodeIdx)]
	removed := 0

	i := 0
	for i < leaf.size {
		if pointEqual(leaf.pointAt(i, dim), point) && leaf.items[i] == item {
			last := leaf.size - 1
			copy(leaf.pointAt(i, dim), leaf.pointAt(last, dim))
			leaf.items[i] = leaf.items[last]
			leaf.points = leaf.points[:last*dim]
			leaf.items = leaf.items[:last]
			leaf.size = last
			t.size--
			removed++
		} else {
			i++
		}
	}

	return removed
}

func pointEqual[A Float](a, b []A) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// split partitions a full leaf about the median along splitDim, replaces
// the original leaf's contents with the left half, appends the right half
// as a new leaf, and promotes a new stem linking them. Returns the new
// stem's arena index. Follows spec section 4.3, except that entries equal
// to the split value are kept in the left leaf (see below).
func (t *Tree[A, Item]) split(leafIdx uint32, splitDim int, parentIdx uint32, wasParentsLeft bool) uint32 {
	assert(uint64(len(t.stems)) < uint64(leafOffset) && uint64(len(t.leaves)) < uint64(leafOffset),
		"kdtree: arena index overflow: %d stems, %d leaves, limit %d each", len(t.stems), len(t.leaves), leafOffset)
	dim := t.config.Dimension
	orig := t.leaves[leafIdx]
	b := orig.size
	pivot := b / 2

	quickselectByAxis(orig, dim, splitDim, pivot)
	splitVal := orig.pointAt(pivot, dim)[splitDim]

	// Descent sends coordinates equal to splitVal left, so entries equal to
	// it are moved out of the right half. When every right-half entry equals
	// splitVal the halves stay as selected, and those entries are then not
	// reachable by Remove's descent.
	mid := pivot
	for i := pivot; i < b; i++ {
		if orig.pointAt(i, dim)[splitDim] == splitVal {
			swapSlots(orig, dim, i, mid)
			mid++
		}
	}
	if mid < b {
		pivot = mid
	}

	left := newLeafNode[A, Item](t.config.BucketSize, dim)
	right := newLeafNode[A, Item](t.config.BucketSize, dim)

	left.points = append(left.points, orig.points[:pivot*dim]...)
	left.items = append(left.items, orig.items[:pivot]...)
	left.size = pivot

	right.points = append(right.points, orig.points[pivot*dim:b*dim]...)
	right.items = append(right.items, orig.items[pivot:b]...)
	right.size = b - pivot

	t.leaves[leafIdx] = left
	t.leaves = append(t.leaves, right)
	newLeafIdx := uint32(len(t.leaves) - 1)

	t.stems = append(t.stems, stemNode[A]{
		splitVal: splitVal,
		left:     leafIdx + leafOffset,
		right:    newLeafIdx + leafOffset,
	})
	newStemIdx := uint32(len(t.stems) - 1)

	if parentIdx != noParent {
		parent := &t.stems[parentIdx]
		if wasParentsLeft {
			parent.left = newStemIdx
		} else {
			parent.right = newStemIdx
		}
	} else {
		t.rootIndex = newStemIdx
	}

	return newStemIdx
}

// quickselectByAxis partitions l's first l.size entries in place so that
// the entry at index k holds the value it would hold if the leaf were
// fully sorted by coordinate splitDim, with every entry before k no
// greater and every entry from k onward no less. Points and items move in
// tandem (spec section 9's tandem quickselect); allocation-free.
func quickselectByAxis[A Float, Item ItemID](l *leafNode[A, Item], dim, splitDim, k int) {
	lo, hi := 0, l.size-1
	for lo < hi {
		pivotVal := l.pointAt((lo+hi)/2, dim)[splitDim]
		i, j := lo, hi
		for i <= j {
			for l.pointAt(i, dim)[splitDim] < pivotVal {
				i++
			}
			for l.pointAt(j, dim)[splitDim] > pivotVal {
				j--
			}
			if i <= j {
				swapSlots(l, dim, i, j)
				i++
				j--
			}
		}
		if k <= j {
			hi = j
		} else if k >= i {
			lo = i
		} else {
			break
		}
	}
}

func swapSlots[A Float, Item ItemID](l *leafNode[A, Item], dim, i, j int) {
	if i == j {
		return
	}
	pi := l.pointAt(i, dim)
	pj := l.pointAt(j, dim)
	for d := 0; d < dim; d++ {
		pi[d], pj[d] = pj[d], pi[d]
	}
	l.items[i], l.items[j] = l.items[j], l.items[i]
}
