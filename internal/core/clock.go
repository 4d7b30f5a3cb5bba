package core

import (
	"sync"
	"time"
)

// TimeProvider provides time-related functionality that can be swapped for testing.
type TimeProvider interface {
	// Now returns the current time
	Now() time.Time
}

// RealTimeProvider implements TimeProvider using real system time.
type RealTimeProvider struct{}

// Now returns the current system time.
func (RealTimeProvider) Now() time.Time {
	return time.Now()
}

// FakeTimeProvider implements TimeProvider with a controllable time for tests.
type FakeTimeProvider struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeTimeProvider creates a FakeTimeProvider starting at the given time.
func NewFakeTimeProvider(start time.Time) *FakeTimeProvider {
	return &FakeTimeProvider{now: start}
}

// Now returns the current fake time.
func (f *FakeTimeProvider) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance moves the fake clock forward.
func (f *FakeTimeProvider) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// Set pins the fake clock to the given instant.
func (f *FakeTimeProvider) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = t
}
