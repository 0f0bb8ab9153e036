package status

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
)

// MetricMap is a lazily populated map of named atomic metrics. Subsystems
// cache the returned pointers during init; tick loops write to the atomics
// directly.
type MetricMap[T any] struct {
	mu sync.RWMutex
	m  map[string]*T
}

// NewMetricMap creates an empty metric map.
func NewMetricMap[T any]() *MetricMap[T] {
	return &MetricMap[T]{m: make(map[string]*T)}
}

// Get returns the metric with the given name, creating it on first use.
func (mm *MetricMap[T]) Get(name string) *T {
	mm.mu.RLock()
	v, ok := mm.m[name]
	mm.mu.RUnlock()
	if ok {
		return v
	}

	mm.mu.Lock()
	defer mm.mu.Unlock()
	if v, ok := mm.m[name]; ok {
		return v
	}
	v = new(T)
	mm.m[name] = v
	return v
}

// Count returns the number of registered metrics.
func (mm *MetricMap[T]) Count() int {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	return len(mm.m)
}

// Names returns the sorted metric names.
func (mm *MetricMap[T]) Names() []string {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	names := make([]string, 0, len(mm.m))
	for n := range mm.m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// AtomicFloat is a float64 stored through atomic bit operations.
type AtomicFloat struct {
	bits atomic.Uint64
}

func (f *AtomicFloat) Load() float64 {
	return math.Float64frombits(f.bits.Load())
}

func (f *AtomicFloat) Store(v float64) {
	f.bits.Store(math.Float64bits(v))
}

// Registry is the central metrics facade. There is no logging library in
// this engine; counters here are how subsystems surface what happened
// (ticks, edge cues, pivot fallbacks, render-sync failures).
type Registry struct {
	Bools  *MetricMap[atomic.Bool]
	Ints   *MetricMap[atomic.Int64]
	Floats *MetricMap[AtomicFloat]
}

// NewRegistry creates an initialized Registry.
func NewRegistry() *Registry {
	return &Registry{
		Bools:  NewMetricMap[atomic.Bool](),
		Ints:   NewMetricMap[atomic.Int64](),
		Floats: NewMetricMap[AtomicFloat](),
	}
}

// TotalCount returns total metrics across all types.
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count()
}
