// pkg/kdtree/tree.go
package kdtree

// Tree is a bucket k-d tree over fixed-dimension points of coordinate type
// A, storing integer item identifiers of type Item as payload.
//
// A Tree has exactly one logical owner at a time (spec section 5): queries
// require shared read access, mutation (Add/Remove) requires exclusive
// access, and the type itself holds no lock. Callers needing concurrent
// reads should wrap a Tree in their own sync.RWMutex discipline.
type Tree[A Float, Item ItemID] struct {
	config Config

	stems  []stemNode[A]
	leaves []*leafNode[A, Item]

	rootIndex uint32
	size      uint64
}

// New creates an empty tree. The root starts as a single empty leaf.
func New[A Float, Item ItemID](config Config) *Tree[A, Item] {
	config.validate()
	t := &Tree[A, Item]{
		config:    config,
		rootIndex: leafOffset,
	}
	t.leaves = append(t.leaves, newLeafNode[A, Item](config.BucketSize, config.Dimension))
	return t
}

// NewWithCapacity creates an empty tree whose leaf arena is preallocated to
// hold approximately n items without reallocation, per spec section 5.
// Matches kiddo's with_capacity: only the leaf arena is sized up front,
// since stems are only ever created as a side effect of splits.
func NewWithCapacity[A Float, Item ItemID](config Config, n int) *Tree[A, Item] {
	config.validate()
	leafCount := n / ((config.BucketSize + 1) / 2)
	if leafCount < 1 {
		leafCount = 1
	}
	t := &Tree[A, Item]{
		config:    config,
		rootIndex: leafOffset,
		leaves:    make([]*leafNode[A, Item], 0, leafCount),
	}
	t.leaves = append(t.leaves, newLeafNode[A, Item](config.BucketSize, config.Dimension))
	return t
}

// Size returns the total number of items stored in the tree.
func (t *Tree[A, Item]) Size() uint64 {
	return t.size
}

// Dimension returns the fixed coordinate count of every point in the tree.
func (t *Tree[A, Item]) Dimension() int {
	return t.config.Dimension
}

// BucketSize returns the configured leaf capacity.
func (t *Tree[A, Item]) BucketSize() int {
	return t.config.BucketSize
}

// StemBytes and LeafBytes return the approximate backing-array footprint
// of the stem and leaf arenas respectively, for callers tracking arena
// growth against a budget (see pkg/arenastats).
func (t *Tree[A, Item]) StemBytes() int64 {
	var a A
	var stemFloatSize = int64(sizeofFloat(a))
	return int64(len(t.stems)) * (stemFloatSize + 2*4)
}

func (t *Tree[A, Item]) LeafBytes() int64 {
	var a A
	floatSize := int64(sizeofFloat(a))
	var total int64
	for _, leaf := range t.leaves {
		total += int64(cap(leaf.points))*floatSize + int64(cap(leaf.items))*8
	}
	return total
}

func sizeofFloat[A Float](_ A) int {
	var zero A
	if _, ok := any(zero).(float32); ok {
		return 4
	}
	return 8
}

func (t *Tree[A, Item]) checkPoint(point []A) {
	assert(len(point) == t.config.Dimension,
		"kdtree: point has %d coordinates, tree dimension is %d", len(point), t.config.Dimension)
}
