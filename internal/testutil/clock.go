// Package testutil provides shared helpers for dutrun tests: a manually
// advanced clock for deterministic timeout testing and test script
// fixtures.
package testutil

import (
	"sync"
	"time"
)

// Clock is a manually advanced clock. Its Now method can be injected
// wherever a `func() time.Time` is accepted, and its Advance method is
// typically wired to a MockTransport so scripted reads consume simulated
// time instead of real time.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock creates a Clock at an arbitrary fixed instant.
func NewClock() *Clock {
	return &Clock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now returns the current simulated time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the simulated time forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
