// ABOUTME: Time and ID sources used by the store and the import normalizer.
// ABOUTME: Interfaces allow deterministic clocks and IDs in tests.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Clock abstracts time retrieval so business logic is deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// NowMillis returns the clock's current time as epoch milliseconds.
func NowMillis(c Clock) int64 {
	return c.Now().UnixMilli()
}

// IDGenerator abstracts unique ID generation so tests are deterministic.
type IDGenerator interface {
	New() string
}

// UUIDGenerator produces random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.NewString() }

// FreshID asks gen for IDs until taken reports one as unused.
func FreshID(gen IDGenerator, taken func(string) bool) string {
	for {
		id := gen.New()
		if id != "" && !taken(id) {
			return id
		}
	}
}
