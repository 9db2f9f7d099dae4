// ABOUTME: Deterministic clock and id generators for tests.
// ABOUTME: Shared by store, transfer, and mcp tests.

package testutil

import (
	"fmt"
	"sync"
	"time"
)

// StubClock returns a fixed time. Safe for concurrent use.
type StubClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewStubClock creates a StubClock set to the given time.
func NewStubClock(t time.Time) *StubClock {
	return &StubClock{now: t}
}

// FixedClock returns a StubClock set to 2024-01-15 10:30:00 UTC.
func FixedClock() *StubClock {
	return NewStubClock(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC))
}

func (c *StubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Millis returns the current stub time as epoch milliseconds.
func (c *StubClock) Millis() int64 {
	return c.Now().UnixMilli()
}

// Advance moves the clock forward by d.
func (c *StubClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// StubIDGenerator returns sequential IDs: "id-1", "id-2", etc.
type StubIDGenerator struct {
	mu      sync.Mutex
	counter int
}

func NewStubIDGenerator() *StubIDGenerator {
	return &StubIDGenerator{}
}

func (g *StubIDGenerator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("id-%d", g.counter)
}

// RepeatIDGenerator hands out the given IDs in order, then falls back to a
// sequential generator. Useful for forcing collisions.
type RepeatIDGenerator struct {
	mu   sync.Mutex
	ids  []string
	next *StubIDGenerator
}

func NewRepeatIDGenerator(ids ...string) *RepeatIDGenerator {
	return &RepeatIDGenerator{ids: ids, next: NewStubIDGenerator()}
}

func (g *RepeatIDGenerator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.ids) > 0 {
		id := g.ids[0]
		g.ids = g.ids[1:]
		return id
	}
	return g.next.New()
}
