// pkg/kdtree/nearest_n.go
package kdtree

import "iter"

// NearestN returns up to qty items closest to query under distFn, in
// ascending order of distance. qty <= 0 yields nothing. Fewer than qty
// pairs are yielded when the tree holds fewer than qty items.
//
// Results are produced lazily via a range-over-func iterator rather than
// a returned slice, the idiomatic Go stand-in for what a lazily-evaluated
// iterator gives callers in the source this package was ported from: a
// caller that only consumes the first few results never pays for sorting
// the rest.
func (t *Tree[A, Item]) NearestN(query []A, qty int, distFn DistanceFunc[A]) iter.Seq2[A, Item] {
	t.checkPoint(query)

	return func(yield func(A, Item) bool) {
		if qty <= 0 || t.size == 0 {
			return
		}

		heap := newMinMaxHeap[A, Item](qty)
		off := make([]A, t.config.Dimension)
		var zero A

		t.nearestNRecurse(query, distFn, t.rootIndex, 0, heap, off, zero)

		for {
			d, it, ok := heap.PopMin()
			if !ok || !yield(d, it) {
				return
			}
		}
	}
}

func (t *Tree[A, Item]) nearestNRecurse(
	query []A,
	distFn DistanceFunc[A],
	nodeIdx uint32,
	splitDim int,
	heap *minMaxHeap[A, Item],
	off []A,
	rd A,
) {
	dim := t.config.Dimension

	if isStemIndex(nodeIdx) {
		stem := &t.stems[nodeIdx]
		nextSplitDim := (splitDim + 1) % dim

		oldOff := off[splitDim]
		newOff := query[splitDim] - stem.splitVal
		if newOff < 0 {
			newOff = -newOff
		}

		var closer, further uint32
		if query[splitDim] <= stem.splitVal {
			closer, further = stem.left, stem.right
		} else {
			closer, further = stem.right, stem.left
		}

		t.nearestNRecurse(query, distFn, closer, nextSplitDim, heap, off, rd)

		rd = rd + newOff*newOff - oldOff*oldOff

		descend := !heap.Full()
		if !descend {
			bound, _ := heap.PeekMax()
			descend = rd <= bound
		}
		if descend {
			off[splitDim] = newOff
			t.nearestNRecurse(query, distFn, further, nextSplitDim, heap, off, rd)
			off[splitDim] = oldOff
		}
		return
	}

	leaf := t.leaves[leafArenaIndex(nodeIdx)]
	for i := 0; i < leaf.size; i++ {
		d := distFn(query, leaf.pointAt(i, dim))
		if !heap.Full() {
			heap.Push(d, leaf.items[i])
			continue
		}
		if bound, _ := heap.PeekMax(); d < bound {
			heap.ReplaceMax(d, leaf.items[i])
		}
	}
}
