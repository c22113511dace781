package kdtree

import (
	"testing"

	"kdtree/pkg/kdpoint"
)

func linearNearestOne(entries []fixtureEntry, query []float64) (float64, int32) {
	best := maxFloat[float64]()
	var bestItem int32
	for _, e := range entries {
		d := kdpoint.SquaredEuclidean(query, e.point)
		if d < best {
			best, bestItem = d, e.item
		}
	}
	return best, bestItem
}

func TestNearestOneAgreesWithLinearScan(t *testing.T) {
	entries := fixture16()
	tree := newFixtureTree(t, 4)

	queries := [][]float64{
		{0.78, 0.55, 0.78, 0.55},
		{0.0, 0.0, 0.0, 0.0},
		{1.0, 1.0, 1.0, 1.0},
		{0.5, 0.5, 0.5, 0.5},
		{0.11, 0.19, 0.31, 0.42},
	}

	for _, q := range queries {
		wantDist, wantItem := linearNearestOne(entries, q)
		gotDist, gotItem, ok := tree.NearestOne(q, kdpoint.SquaredEuclidean[float64])
		if !ok {
			t.Fatalf("NearestOne(%v) returned ok=false", q)
		}
		if gotDist != wantDist {
			t.Errorf("NearestOne(%v) dist = %v, want %v", q, gotDist, wantDist)
		}
		if gotItem != wantItem {
			t.Errorf("NearestOne(%v) item = %v, want %v", q, gotItem, wantItem)
		}
	}
}

func TestNearestOneManhattanFixtureScenario(t *testing.T) {
	tree := newFixtureTree(t, 4)

	dist, item, ok := tree.NearestOne([]float64{0.78, 0.55, 0.78, 0.55}, kdpoint.Manhattan[float64])
	if !ok {
		t.Fatal("NearestOne returned ok=false")
	}
	if item != 4 {
		t.Errorf("item = %d, want 4", item)
	}
	if diff := dist - 0.86; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("dist = %v, want 0.86", dist)
	}
}

func TestNearestOneOnEmptyTreeReturnsNotOk(t *testing.T) {
	tree := New[float64, int32](Config{Dimension: 2, BucketSize: 4})
	_, _, ok := tree.NearestOne([]float64{0, 0}, kdpoint.SquaredEuclidean[float64])
	if ok {
		t.Fatal("NearestOne on empty tree returned ok=true")
	}
}

func TestNearestOnePanicsOnDimensionMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on dimension mismatch")
		}
	}()
	tree := newFixtureTree(t, 4)
	tree.NearestOne([]float64{0, 0}, kdpoint.SquaredEuclidean[float64])
}

func TestNearestOneExactMatchReturnsZeroDistance(t *testing.T) {
	entries := fixture16()
	tree := newFixtureTree(t, 4)

	for _, e := range entries {
		dist, item, ok := tree.NearestOne(e.point, kdpoint.SquaredEuclidean[float64])
		if !ok {
			t.Fatalf("NearestOne(%v) ok=false", e.point)
		}
		if dist != 0 {
			t.Errorf("NearestOne(%v) dist = %v, want 0", e.point, dist)
		}
		_ = item // exact duplicates may legitimately collide on item identity
	}
}

func TestNearestOneLargeScaleAgreesWithLinearScan(t *testing.T) {
	const n = 2000
	cfg := Config{Dimension: 2, BucketSize: 16}
	tree := NewWithCapacity[float64, int32](cfg, n)

	state := uint64(2463534242)
	next := func() float64 {
		state ^= state << 13
		state ^= state >> 7
		state ^= state << 17
		return float64(state%1_000_000) / 1_000_000
	}

	entries := make([]fixtureEntry, n)
	for i := 0; i < n; i++ {
		p := []float64{next(), next()}
		entries[i] = fixtureEntry{point: p, item: int32(i)}
		tree.Add(p, int32(i))
	}

	for q := 0; q < 20; q++ {
		query := []float64{next(), next()}
		wantDist, _ := linearNearestOne(entries, query)
		gotDist, _, ok := tree.NearestOne(query, kdpoint.SquaredEuclidean[float64])
		if !ok {
			t.Fatalf("NearestOne(%v) ok=false", query)
		}
		if gotDist != wantDist {
			t.Errorf("NearestOne(%v) dist = %v, want %v", query, gotDist, wantDist)
		}
	}
}
