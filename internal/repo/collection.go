package repo

import (
	"sync"

	"github.com/ResetToBasics/M-Ecosmeticos/internal/revision"
	"github.com/ResetToBasics/M-Ecosmeticos/internal/shop"
)

// Collection persists one named JSON value and couples every mutation
// to a revision bump. It owns the load/seed/persist machinery shared by
// the product and settings repositories.
//
// Load never returns an error: an absent or unreadable snapshot is
// replaced by the seed value, which is persisted before being returned.
// Mutate persists before bumping, so a poller woken by the bump always
// reads the new snapshot.
type Collection[T any] struct {
	key    string
	store  shop.KVStore
	rev    *revision.Clock
	wall   shop.Clock
	logger shop.Logger
	seed   func() T

	mu sync.Mutex
}

// NewCollection creates a collection bound to the given store key.
// seed produces the default value used when nothing usable is stored.
func NewCollection[T any](key string, store shop.KVStore, rev *revision.Clock, wall shop.Clock, logger shop.Logger, seed func() T) *Collection[T] {
	return &Collection[T]{
		key:    key,
		store:  store,
		rev:    rev,
		wall:   wall,
		logger: logger,
		seed:   seed,
	}
}

// Load returns the stored value, seeding defaults when the key is
// absent or its contents cannot be decoded.
func (c *Collection[T]) Load() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load()
}

func (c *Collection[T]) load() T {
	raw, ok, err := c.store.Get(c.key)
	if err != nil {
		c.logger.Warn("reading collection failed", "key", c.key, "error", err)
		return c.seedAndPersist()
	}
	if !ok {
		return c.seedAndPersist()
	}

	var value T
	if _, err := shop.DecodeSnapshot(raw, &value); err != nil {
		c.logger.Warn("stored collection malformed, reseeding", "key", c.key, "error", err)
		return c.seedAndPersist()
	}
	return value
}

// seedAndPersist writes the default value so the next load finds valid
// JSON. Seeding is not a mutation: the revision is not bumped.
func (c *Collection[T]) seedAndPersist() T {
	value := c.seed()

	raw, err := shop.EncodeSnapshot(value, c.rev.Read(), c.wall.Now())
	if err != nil {
		c.logger.Error("encoding seed collection failed", "key", c.key, "error", err)
		return value
	}
	if err := c.store.Put(c.key, raw); err != nil {
		c.logger.Warn("persisting seed collection failed", "key", c.key, "error", err)
	}
	return value
}

// Mutate loads the current value, applies fn, and when fn reports a
// change persists the result and bumps the revision clock. The snapshot
// and the bumped marker carry the same millisecond value. When fn
// reports no change, nothing is written and nothing bumps.
func (c *Collection[T]) Mutate(fn func(T) (T, bool)) T {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.load()
	next, changed := fn(current)
	if !changed {
		return current
	}

	now := c.wall.Now()
	rev := now.UnixMilli()

	raw, err := shop.EncodeSnapshot(next, rev, now)
	if err != nil {
		c.logger.Error("encoding collection failed", "key", c.key, "error", err)
		return current
	}
	if err := c.store.Put(c.key, raw); err != nil {
		// Persist failed, so the bump is skipped: other sessions must
		// not be told about a write that never landed.
		c.logger.Error("persisting collection failed", "key", c.key, "error", err)
		return next
	}

	c.rev.BumpTo(rev)
	return next
}

// Key returns the store key this collection persists under.
func (c *Collection[T]) Key() string {
	return c.key
}
