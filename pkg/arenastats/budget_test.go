package arenastats

import "testing"

func TestReportAccumulatesTotalUsage(t *testing.T) {
	b := NewBudget(1000, 0.8)
	b.Report("stems", 100, PriorityWarm)
	b.Report("leaves", 200, PriorityHot)

	snap := b.Snapshot()
	if snap.TotalUsage != 300 {
		t.Fatalf("TotalUsage = %d, want 300", snap.TotalUsage)
	}
}

func TestReportReplacesPriorValue(t *testing.T) {
	b := NewBudget(1000, 0.8)
	b.Report("stems", 100, PriorityWarm)
	b.Report("stems", 150, PriorityWarm)

	snap := b.Snapshot()
	if snap.TotalUsage != 150 {
		t.Fatalf("TotalUsage = %d, want 150", snap.TotalUsage)
	}
	if snap.ComponentUsage["stems"] != 150 {
		t.Fatalf("ComponentUsage[stems] = %d, want 150", snap.ComponentUsage["stems"])
	}
}

func TestForgetRemovesComponent(t *testing.T) {
	b := NewBudget(1000, 0.8)
	b.Report("stems", 100, PriorityWarm)
	b.Forget("stems")

	snap := b.Snapshot()
	if snap.TotalUsage != 0 {
		t.Fatalf("TotalUsage = %d, want 0 after Forget", snap.TotalUsage)
	}
	if _, ok := snap.ComponentUsage["stems"]; ok {
		t.Fatal("stems still present after Forget")
	}
}

func TestPressureCallbackFiresOnThresholdCrossing(t *testing.T) {
	b := NewBudget(1000, 0.8)

	var calls int
	var lastUsage int64
	b.OnPressure(func(usage, limit int64) {
		calls++
		lastUsage = usage
	})

	b.Report("a", 500, PriorityCold)
	if calls != 0 {
		t.Fatalf("pressure fired early: calls = %d", calls)
	}

	b.Report("b", 400, PriorityCold) // total 900, 90% of 1000
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 after crossing threshold", calls)
	}
	if lastUsage != 900 {
		t.Fatalf("lastUsage = %d, want 900", lastUsage)
	}

	b.Forget("b") // total 500, back under threshold
	if calls != 2 {
		t.Fatalf("calls = %d, want 2 after dropping below threshold", calls)
	}
}

func TestSnapshotIsExceeded(t *testing.T) {
	b := NewBudget(100, 0.8)
	b.Report("a", 150, PriorityHot)

	snap := b.Snapshot()
	if !snap.IsExceeded {
		t.Fatal("expected IsExceeded true when usage exceeds limit")
	}
}
