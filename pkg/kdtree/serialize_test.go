package kdtree

import (
	"bytes"
	"testing"

	"kdtree/pkg/kdpoint"
)

func TestSerializeRoundTrip(t *testing.T) {
	tree := newFixtureTree(t, 4)

	var buf bytes.Buffer
	if err := tree.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	restored, err := Deserialize[float64, int32](&buf)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	if restored.Size() != tree.Size() {
		t.Fatalf("restored size %d, want %d", restored.Size(), tree.Size())
	}
	if restored.Dimension() != tree.Dimension() {
		t.Fatalf("restored dimension %d, want %d", restored.Dimension(), tree.Dimension())
	}
	if restored.BucketSize() != tree.BucketSize() {
		t.Fatalf("restored bucket size %d, want %d", restored.BucketSize(), tree.BucketSize())
	}
	if len(restored.stems) != len(tree.stems) {
		t.Fatalf("restored stem count %d, want %d", len(restored.stems), len(tree.stems))
	}
	if len(restored.leaves) != len(tree.leaves) {
		t.Fatalf("restored leaf count %d, want %d", len(restored.leaves), len(tree.leaves))
	}

	for _, e := range fixture16() {
		wantDist, wantItem, _ := tree.NearestOne(e.point, kdpoint.SquaredEuclidean[float64])
		gotDist, gotItem, _ := restored.NearestOne(e.point, kdpoint.SquaredEuclidean[float64])
		if gotDist != wantDist || gotItem != wantItem {
			t.Errorf("NearestOne(%v) after round trip = (%v, %v), want (%v, %v)",
				e.point, gotDist, gotItem, wantDist, wantItem)
		}

		var wantN, gotN []float64
		for d := range tree.NearestN(e.point, 3, kdpoint.SquaredEuclidean[float64]) {
			wantN = append(wantN, d)
		}
		for d := range restored.NearestN(e.point, 3, kdpoint.SquaredEuclidean[float64]) {
			gotN = append(gotN, d)
		}
		if len(gotN) != len(wantN) {
			t.Fatalf("NearestN(%v) after round trip returned %d results, want %d", e.point, len(gotN), len(wantN))
		}
		for i := range wantN {
			if gotN[i] != wantN[i] {
				t.Errorf("NearestN(%v) after round trip result %d = %v, want %v", e.point, i, gotN[i], wantN[i])
			}
		}
	}
}

func TestDeserializeRejectsBadMagic(t *testing.T) {
	buf := make([]byte, headerSize)
	_, err := Deserialize[float64, int32](bytes.NewReader(buf))
	if err != ErrInvalidMagic {
		t.Fatalf("err = %v, want ErrInvalidMagic", err)
	}
}

func TestDeserializeRejectsWidthMismatch(t *testing.T) {
	tree := New[float32, int32](Config{Dimension: 2, BucketSize: 4})
	tree.Add([]float32{1, 2}, 1)

	var buf bytes.Buffer
	if err := tree.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	_, err := Deserialize[float64, int32](&buf)
	if err == nil {
		t.Fatal("expected error deserializing float32 tree as float64")
	}
}
