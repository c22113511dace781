package kdtree

import "testing"

func TestMinMaxHeapPeekMax(t *testing.T) {
	h := newMinMaxHeap[float64, int32](8)
	values := []float64{5, 1, 9, 3, 7, 2, 8, 4}
	for i, v := range values {
		h.Push(v, int32(i))
	}

	max, ok := h.PeekMax()
	if !ok || max != 9 {
		t.Fatalf("PeekMax() = %v, %v, want 9, true", max, ok)
	}
}

func TestMinMaxHeapPopMinAscending(t *testing.T) {
	h := newMinMaxHeap[float64, int32](8)
	values := []float64{5, 1, 9, 3, 7, 2, 8, 4}
	for i, v := range values {
		h.Push(v, int32(i))
	}

	prev := -1.0
	count := 0
	for {
		d, _, ok := h.PopMin()
		if !ok {
			break
		}
		if d < prev {
			t.Fatalf("PopMin not ascending: %v after %v", d, prev)
		}
		prev = d
		count++
	}
	if count != len(values) {
		t.Fatalf("drained %d elements, want %d", count, len(values))
	}
}

func TestMinMaxHeapReplaceMaxKeepsSmallest(t *testing.T) {
	h := newMinMaxHeap[float64, int32](3)
	h.Push(10, 0)
	h.Push(20, 1)
	h.Push(30, 2)

	if !h.Full() {
		t.Fatal("heap should report full at capacity")
	}

	h.ReplaceMax(5, 99)

	var drained []float64
	for {
		d, _, ok := h.PopMin()
		if !ok {
			break
		}
		drained = append(drained, d)
	}

	want := []float64{5, 10, 20}
	if len(drained) != len(want) {
		t.Fatalf("drained %v, want %v", drained, want)
	}
	for i := range want {
		if drained[i] != want[i] {
			t.Fatalf("drained %v, want %v", drained, want)
		}
	}
}

func TestMinMaxHeapSingleElement(t *testing.T) {
	h := newMinMaxHeap[float64, int32](1)
	h.Push(42, 7)

	min, _, ok := h.PopMin()
	if !ok || min != 42 {
		t.Fatalf("PopMin() = %v, want 42", min)
	}
}
