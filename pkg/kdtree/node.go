// pkg/kdtree/node.go
package kdtree

// leafOffset is the sentinel that distinguishes a stem index from a leaf
// index in a single child-pointer integer: idx < leafOffset addresses
// stems[idx], idx >= leafOffset addresses leaves[idx-leafOffset]. Fixed at
// a power of two near the midpoint of the uint32 range (spec section 9's
// "unified node arena via sentinel offset").
const leafOffset uint32 = 1 << 31

// noParent marks the absence of a parent stem during descent (the root has
// no parent to re-link on split).
const noParent uint32 = ^uint32(0)

func isStemIndex(idx uint32) bool {
	return idx < leafOffset
}

func leafArenaIndex(idx uint32) uint32 {
	return idx - leafOffset
}

// stemNode is an internal node: a partition of its subtree's points along
// the dimension implied by its depth (depth mod Dimension). The split
// dimension itself is not stored, matching spec section 3.
type stemNode[A Float] struct {
	splitVal A
	left     uint32
	right    uint32
}

// leafNode is a bucket holding up to Config.BucketSize point/item pairs in
// parallel, fixed-capacity slices. Slot order is not meaningful.
type leafNode[A Float, Item ItemID] struct {
	points []A // len == size*dimension, laid out point-major
	items  []Item
	size   int
}

func newLeafNode[A Float, Item ItemID](bucketSize, dimension int) *leafNode[A, Item] {
	return &leafNode[A, Item]{
		points: make([]A, 0, bucketSize*dimension),
		items:  make([]Item, 0, bucketSize),
		size:   0,
	}
}

// pointAt returns the slice of coordinates for slot i. The returned slice
// aliases the leaf's backing array; callers must not retain it past a
// mutation of the leaf.
func (l *leafNode[A, Item]) pointAt(i, dimension int) []A {
	return l.points[i*dimension : (i+1)*dimension]
}

func (l *leafNode[A, Item]) append(point []A, item Item) {
	l.points = append(l.points, point...)
	l.items = append(l.items, item)
	l.size++
}
