package shop

import (
	"strconv"
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

// IDGenerator abstracts record ID generation so tests are deterministic.
type IDGenerator interface {
	New() string
}

// TimestampIDGenerator produces millisecond-timestamp IDs. Collisions are
// accepted as negligible under single-admin usage.
type TimestampIDGenerator struct {
	Clock Clock
}

func (g TimestampIDGenerator) New() string {
	c := g.Clock
	if c == nil {
		c = RealClock{}
	}
	return strconv.FormatInt(c.Now().UnixMilli(), 10)
}

// UUIDGenerator produces random UUIDs. Use when more than one admin
// writes concurrently.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.New().String() }
