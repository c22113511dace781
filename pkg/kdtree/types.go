// pkg/kdtree/types.go
package kdtree

import "math"

// Float is the set of coordinate types a Tree can be built over.
type Float interface {
	~float32 | ~float64
}

// ItemID is the set of item-identifier types a Tree can store. Spec section
// 3 describes items as "a small integer identifier (typically 32-bit)";
// constraining to integer types lets Serialize/Deserialize use fixed-width
// binary encoding with no caller-supplied codec.
type ItemID interface {
	~int32 | ~int64 | ~uint32 | ~uint64 | ~int
}

// maxFloat returns the largest finite value representable by A, used as the
// initial "nothing found yet" distance bound during queries.
func maxFloat[A Float]() A {
	var zero A
	switch any(zero).(type) {
	case float32:
		return A(math.MaxFloat32)
	default:
		m := math.MaxFloat64
		return A(m)
	}
}

// DistanceFunc computes a pseudo-metric between two points of the same
// dimension. Must satisfy the contract in spec section 6: nonnegative,
// zero iff equal, and dominated coordinate-wise by the squared-difference
// bound the pruning logic in NearestOne/NearestN assumes.
type DistanceFunc[A Float] func(a, b []A) A
