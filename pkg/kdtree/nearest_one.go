// pkg/kdtree/nearest_one.go
package kdtree

// NearestOne returns the item with minimum distance to query under distFn,
// along with that distance. ok is false only when the tree holds no
// items — the Go-idiomatic resolution of the open question in spec section
// 9 about the sentinel-MAX/zero-item empty-tree result being a sharp edge.
func (t *Tree[A, Item]) NearestOne(query []A, distFn DistanceFunc[A]) (dist A, item Item, ok bool) {
	t.checkPoint(query)

	if t.size == 0 {
		return
	}

	off := make([]A, t.config.Dimension)
	var best A = maxFloat[A]()
	var bestItem Item
	var zero A

	best, bestItem = t.nearestOneRecurse(query, distFn, t.rootIndex, 0, bestItem, best, off, zero)
	return best, bestItem, true
}

func (t *Tree[A, Item]) nearestOneRecurse(
	query []A,
	distFn DistanceFunc[A],
	nodeIdx uint32,
	splitDim int,
	bestItem Item,
	bestDist A,
	off []A,
	rd A,
) (A, Item) {
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

		dist, item := t.nearestOneRecurse(query, distFn, closer, nextSplitDim, bestItem, bestDist, off, rd)
		if dist < bestDist {
			bestDist, bestItem = dist, item
		}

		rd = rd + newOff*newOff - oldOff*oldOff

		if rd <= bestDist {
			off[splitDim] = newOff
			dist, item := t.nearestOneRecurse(query, distFn, further, nextSplitDim, bestItem, bestDist, off, rd)
			off[splitDim] = oldOff

			if dist < bestDist {
				bestDist, bestItem = dist, item
			}
		}

		return bestDist, bestItem
	}

	leaf := t.leaves[leafArenaIndex(nodeIdx)]
	for i := 0; i < leaf.size; i++ {
		d := distFn(query, leaf.pointAt(i, dim))
		if d < bestDist {
			bestDist = d
			bestItem = leaf.items[i]
		}
	}
	return bestDist, bestItem
}
