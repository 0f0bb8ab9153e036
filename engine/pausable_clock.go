package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// PausableClock provides pausable animation time with pause duration
// tracking. While paused, Now is frozen at the pause point; waveform phase
// and flight progress stop accumulating with it.
type PausableClock struct {
	mu sync.RWMutex

	source TimeSource

	realStartTime time.Time // when the clock was created (real time)
	gameStartTime time.Time // animation time epoch (adjusted for pauses)

	isPaused        atomic.Bool
	pauseStartTime  time.Time
	totalPausedTime time.Duration
}

// NewPausableClock creates a pausable clock over the given time source.
// A nil source uses the monotonic wall clock.
func NewPausableClock(source TimeSource) *PausableClock {
	if source == nil {
		source = MonotonicTime{}
	}
	now := source.Now()
	return &PausableClock{
		source:        source,
		realStartTime: now,
		gameStartTime: now,
	}
}

// Now returns the current animation time (affected by pause).
func (pc *PausableClock) Now() time.Time {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	if pc.isPaused.Load() {
		return pc.gameStartTime.Add(pc.pauseStartTime.Sub(pc.realStartTime) - pc.totalPausedTime)
	}

	realElapsed := pc.source.Now().Sub(pc.realStartTime)
	return pc.gameStartTime.Add(realElapsed - pc.totalPausedTime)
}

// RealTime returns the wall clock time (unaffected by pause).
func (pc *PausableClock) RealTime() time.Time {
	return pc.source.Now()
}

// Pause stops animation time advancement.
func (pc *PausableClock) Pause() {
	if pc.isPaused.CompareAndSwap(false, true) {
		pc.mu.Lock()
		defer pc.mu.Unlock()
		pc.pauseStartTime = pc.source.Now()
	}
}

// Resume continues animation time advancement.
func (pc *PausableClock) Resume() {
	if pc.isPaused.CompareAndSwap(true, false) {
		pc.mu.Lock()
		defer pc.mu.Unlock()

		if !pc.pauseStartTime.IsZero() {
			pc.totalPausedTime += pc.source.Now().Sub(pc.pauseStartTime)
			pc.pauseStartTime = time.Time{}
		}
	}
}

// IsPaused returns the current pause state.
func (pc *PausableClock) IsPaused() bool {
	return pc.isPaused.Load()
}

// TotalPauseDuration returns cumulative pause time, including the current
// pause if one is active.
func (pc *PausableClock) TotalPauseDuration() time.Duration {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	total := pc.totalPausedTime
	if pc.isPaused.Load() && !pc.pauseStartTime.IsZero() {
		total += pc.source.Now().Sub(pc.pauseStartTime)
	}
	return total
}
