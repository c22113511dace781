// pkg/kdtree/config.go
package kdtree

// Config holds the construction-time parameters of a Tree.
//
// K and B are compile-time constants in the data structure this package
// ports; Go has no const-generic array lengths, so they live here as
// validated runtime fields instead.
type Config struct {
	// Dimension is the number of coordinates in every point stored in the
	// tree (K in the literature). Fixed for the lifetime of the tree.
	Dimension int

	// BucketSize is the maximum number of point/item pairs a leaf may hold
	// before it splits (B in the literature).
	BucketSize int
}

// DefaultConfig returns a Config with sensible defaults for the given
// dimension: a bucket size of 32, matching the teacher pack's common
// default neighbor/bucket fan-out.
func DefaultConfig(dimension int) Config {
	return Config{
		Dimension:  dimension,
		BucketSize: 32,
	}
}

func (c Config) validate() {
	assert(c.Dimension >= 1, "kdtree: Dimension must be >= 1, got %d", c.Dimension)
	assert(c.BucketSize >= 1, "kdtree: BucketSize must be >= 1, got %d", c.BucketSize)
}
