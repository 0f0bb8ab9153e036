package engine

import (
	"sync"
	"time"
)

// TimeSource abstracts the wall clock so tick timing is testable.
type TimeSource interface {
	Now() time.Time
}

// MonotonicTime is the production time source.
type MonotonicTime struct{}

// Now returns the current time with monotonic clock reading.
func (MonotonicTime) Now() time.Time {
	return time.Now()
}

// MockTime is a controllable time source for tests.
type MockTime struct {
	mu      sync.RWMutex
	current time.Time
}

// NewMockTime creates a mock time source starting at the given instant.
func NewMockTime(start time.Time) *MockTime {
	return &MockTime{current: start}
}

// Now returns the current mocked time.
func (m *MockTime) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Set replaces the current mocked time.
func (m *MockTime) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = t
}

// Advance moves the mocked time forward by d.
func (m *MockTime) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.current.Add(d)
}
