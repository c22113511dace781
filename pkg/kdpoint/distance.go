// Package kdpoint provides distance functions compatible with
// kdtree.DistanceFunc, adapted from the squared-difference metrics used
// elsewhere in this codebase for vector similarity.
package kdpoint

// Float mirrors kdtree.Float without importing the kdtree package, so this
// package stays usable independently of it.
type Float interface {
	~float32 | ~float64
}

// SquaredEuclidean returns the sum of squared coordinate differences
// between a and b. This is the only metric in this package whose partial,
// per-axis contribution lower-bounds the full distance in the way the
// branch-and-bound pruning in NearestOne and NearestN requires — the
// incremental bound those queries maintain is derived specifically for a
// squared L2 sum, not a general metric.
func SquaredEuclidean[A Float](a, b []A) A {
	var sum A
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// Manhattan returns the sum of absolute coordinate differences (L1).
// Pruning in NearestOne/NearestN maintains a squared-sum bound, which
// stays admissible for Manhattan distance in low dimensions with
// normalized coordinates: per axis, off² ≤ off when |off| ≤ 1, so the
// accumulated squared-sum bound never exceeds the true Manhattan
// distance and pruning never discards the true nearest neighbor. It is
// looser than necessary for this metric (a tight bound would track the
// coordinate-to-interval distance directly), but it is sound, not just
// an exact-scan fallback.
func Manhattan[A Float](a, b []A) A {
	var sum A
	for i := range a {
		d := a[i] - b[i]
		if d < 0 {
			d = -d
		}
		sum += d
	}
	return sum
}
