// Package clock contains the injected time source and time helpers
package clock

import (
	"sync"
	"time"
)

// Clock is the time source seam; inject Fake in tests for determinism
type Clock interface {
	Now() time.Time
}

// System reads the wall clock in UTC
type System struct{}

// Now implements Clock
func (System) Now() time.Time { return time.Now().UTC() }

// Fake is a settable clock for tests
type Fake struct {
	mu sync.Mutex
	t  time.Time
}

// NewFake constructs a Fake pinned to t (UTC)
func NewFake(t time.Time) *Fake { return &Fake{t: t.UTC()} }

// Now implements Clock
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

// Advance moves the fake clock forward by d
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

// Set pins the fake clock to t
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	f.t = t.UTC()
	f.mu.Unlock()
}

// Ptr returns a pointer to t or nil if t is zero
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
