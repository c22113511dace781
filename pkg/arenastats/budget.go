// Package arenastats tracks the byte footprint of a tree's stem and leaf
// arenas against a configured budget, invoking a callback when growth
// crosses a pressure threshold. Adapted from the memory-budget tracker
// used elsewhere in this codebase for cache sizing, repointed at arena
// growth instead of cache entries.
package arenastats

import (
	"sync"
	"time"
)

// Priority classifies how reluctant the caller should be to let an arena
// keep growing once under pressure. It doesn't affect this package's own
// behavior; it's carried per-component for the callback to act on.
type Priority int

const (
	PriorityCold Priority = iota
	PriorityWarm
	PriorityHot
)

const (
	// DefaultLimit caps total tracked arena bytes at 256 MiB.
	DefaultLimit = int64(256 * 1024 * 1024)
	// DefaultPressureThreshold fires PressureCallback once usage crosses
	// 80% of the limit.
	DefaultPressureThreshold = 0.8
)

// ComponentInfo records the last known size of one tracked component
// (e.g. "stems" or "leaves" for a given tree).
type ComponentInfo struct {
	Key         string
	Size        int64
	Priority    Priority
	AccessCount int64
	LastGrowth  time.Time
}

// Stats is a point-in-time snapshot of budget usage.
type Stats struct {
	Limit           int64
	TotalUsage      int64
	ComponentUsage  map[string]int64
	IsUnderPressure bool
	IsExceeded      bool
}

// PressureCallback is invoked whenever total usage crosses the pressure
// threshold, in either direction (entering or leaving pressure).
type PressureCallback func(currentUsage, limit int64)

// Budget tracks byte usage across named components under a single limit.
// Safe for concurrent use: queries against a tree only need a read lock
// on the tree itself, but arena growth during Add can be reported from
// any goroutine responsible for bulk-loading, so this type guards its own
// state independently.
type Budget struct {
	mu                sync.RWMutex
	limit             int64
	pressureThreshold float64
	totalUsage        int64
	components        map[string]*ComponentInfo
	onPressure        PressureCallback
	wasUnderPressure  bool
}

// NewBudget creates a Budget with the given limit and pressure threshold
// (a fraction of limit, e.g. 0.8).
func NewBudget(limit int64, pressureThreshold float64) *Budget {
	return &Budget{
		limit:             limit,
		pressureThreshold: pressureThreshold,
		components:        make(map[string]*ComponentInfo),
	}
}

// NewDefaultBudget creates a Budget using DefaultLimit and
// DefaultPressureThreshold.
func NewDefaultBudget() *Budget {
	return NewBudget(DefaultLimit, DefaultPressureThreshold)
}

// OnPressure registers the callback invoked on pressure-state transitions.
func (b *Budget) OnPressure(cb PressureCallback) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onPressure = cb
}

// Report records the current byte size of a named component (e.g. one
// tree's "stems" or "leaves" arena), replacing any prior size for that
// key, and fires the pressure callback on a threshold crossing.
func (b *Budget) Report(key string, size int64, priority Priority) {
	b.mu.Lock()
	defer b.mu.Unlock()

	prev := int64(0)
	if info, ok := b.components[key]; ok {
		prev = info.Size
		info.Size = size
		info.Priority = priority
		info.AccessCount++
		info.LastGrowth = time.Now()
	} else {
		b.components[key] = &ComponentInfo{
			Key:         key,
			Size:        size,
			Priority:    priority,
			AccessCount: 1,
			LastGrowth:  time.Now(),
		}
	}
	b.totalUsage += size - prev

	b.checkPressureLocked()
}

// Forget removes a component from tracking entirely, e.g. when a tree is
// discarded.
func (b *Budget) Forget(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if info, ok := b.components[key]; ok {
		b.totalUsage -= info.Size
		delete(b.components, key)
	}
	b.checkPressureLocked()
}

func (b *Budget) checkPressureLocked() {
	if b.onPressure == nil {
		return
	}
	underPressure := b.limit > 0 && float64(b.totalUsage) >= float64(b.limit)*b.pressureThreshold
	if underPressure != b.wasUnderPressure {
		b.wasUnderPressure = underPressure
		b.onPressure(b.totalUsage, b.limit)
	}
}

// Snapshot returns the current usage stats.
func (b *Budget) Snapshot() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	usage := make(map[string]int64, len(b.components))
	for k, v := range b.components {
		usage[k] = v.Size
	}
	return Stats{
		Limit:           b.limit,
		TotalUsage:      b.totalUsage,
		ComponentUsage:  usage,
		IsUnderPressure: b.wasUnderPressure,
		IsExceeded:      b.limit > 0 && b.totalUsage > b.limit,
	}
}
