package engine

import (
	"sync"
	"time"
)

// CancelFunc cancels a deferred callback. It reports whether the callback
// was cancelled before firing.
type CancelFunc func() bool

// Scheduler schedules a one-shot deferred callback: the cross-tick
// suspension primitive used by signal phases. It is injectable so sequencer
// tests drive completion deterministically.
type Scheduler interface {
	After(d time.Duration, fn func()) CancelFunc
}

// TimerScheduler is the production scheduler backed by the runtime timer.
type TimerScheduler struct{}

// After schedules fn after d on a runtime timer.
func (TimerScheduler) After(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, fn)
	return t.Stop
}

// ManualScheduler collects deferred callbacks and fires them on demand.
// Tests use it to complete signal phases at exact points.
type ManualScheduler struct {
	mu      sync.Mutex
	pending []*manualEntry
}

type manualEntry struct {
	d     time.Duration
	fn    func()
	fired bool
	dead  bool
}

// NewManualScheduler creates an empty manual scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// After records fn for a later Fire call.
func (m *ManualScheduler) After(d time.Duration, fn func()) CancelFunc {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := &manualEntry{d: d, fn: fn}
	m.pending = append(m.pending, e)
	return func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		if e.fired || e.dead {
			return false
		}
		e.dead = true
		return true
	}
}

// Fire runs every pending callback that has not been cancelled and returns
// how many ran.
func (m *ManualScheduler) Fire() int {
	m.mu.Lock()
	var due []*manualEntry
	for _, e := range m.pending {
		if !e.fired && !e.dead {
			e.fired = true
			due = append(due, e)
		}
	}
	m.pending = m.pending[:0]
	m.mu.Unlock()

	for _, e := range due {
		e.fn()
	}
	return len(due)
}

// PendingCount returns the number of live deferred callbacks.
func (m *ManualScheduler) PendingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.pending {
		if !e.fired && !e.dead {
			n++
		}
	}
	return n
}
