package revision

import (
	"strconv"
	"sync"
	"time"

	"github.com/ResetToBasics/M-Ecosmeticos/internal/shop"
)

// Reloader restarts the consuming surface so it picks up fresh
// repository reads. For the server this flushes caches and tells
// connected clients to reload; tests substitute a recorder.
type Reloader interface {
	Reload()
}

// ReloaderFunc adapts a function to the Reloader interface.
type ReloaderFunc func()

func (f ReloaderFunc) Reload() { f() }

// Clock is the global revision clock: a single millisecond marker
// standing in for "version of all admin-managed data". Every admin
// write bumps it; pollers in other sessions compare against it to
// detect staleness.
//
// Storage failures never propagate: Read falls back to the process
// start time and Bump logs and carries on, degrading to "always seems
// synced" rather than crashing anything.
type Clock struct {
	store    shop.KVStore
	wall     shop.Clock
	logger   shop.Logger
	notifier *Notifier
	reloader Reloader

	// reloadDelay is how long ForceBump waits before reloading the
	// triggering session, giving in-flight writes time to land.
	reloadDelay time.Duration

	// initial is the fallback revision when the store has no marker.
	initial int64

	mu          sync.Mutex
	reloadTimer *time.Timer
}

// NewClock creates a revision clock backed by store. The initial
// revision defaults to the current wall time, mirroring a fresh
// deployment where nothing has been edited yet.
func NewClock(store shop.KVStore, wall shop.Clock, logger shop.Logger, notifier *Notifier, reloader Reloader, reloadDelay time.Duration) *Clock {
	return &Clock{
		store:       store,
		wall:        wall,
		logger:      logger,
		notifier:    notifier,
		reloader:    reloader,
		reloadDelay: reloadDelay,
		initial:     wall.Now().UnixMilli(),
	}
}

// Read returns the currently stored revision, or the initial value when
// the marker is absent or unreadable. Never fails.
func (c *Clock) Read() int64 {
	raw, ok, err := c.store.Get(shop.KeyGlobalTimestamp)
	if err != nil {
		c.logger.Warn("reading revision marker failed", "error", err)
		return c.initial
	}
	if !ok {
		return c.initial
	}

	v, err := ParseRevision(raw)
	if err != nil {
		c.logger.Warn("stored revision marker malformed", "value", string(raw), "error", err)
		return c.initial
	}
	return v
}

// Bump writes the current wall time as the new revision and returns it.
func (c *Clock) Bump() int64 {
	return c.BumpTo(c.wall.Now().UnixMilli())
}

// BumpTo writes value as the new revision, then notifies same-session
// listeners. The write happens before the notification, so a listener
// reading the store observes the bumped value, never a prior one.
// On storage failure the bump is logged and dropped, and the previous
// revision is returned.
func (c *Clock) BumpTo(value int64) int64 {
	if err := c.store.Put(shop.KeyGlobalTimestamp, FormatRevision(value)); err != nil {
		c.logger.Error("bumping revision marker failed", "revision", value, "error", err)
		return c.Read()
	}

	c.notifier.Publish(value)
	return value
}

// ForceBump bumps the revision and additionally schedules a reload of
// the triggering session after the configured delay. Rapid successive
// calls each bump, but the scheduled reload coalesces: the last call
// wins and exactly one reload fires.
func (c *Clock) ForceBump() int64 {
	now := c.wall.Now().UnixMilli()

	if err := c.store.Put(shop.KeyForceUpdate, FormatRevision(now)); err != nil {
		c.logger.Error("writing force-update marker failed", "error", err)
	}

	v := c.BumpTo(now)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reloadTimer != nil {
		c.reloadTimer.Stop()
	}
	c.reloadTimer = time.AfterFunc(c.reloadDelay, func() {
		if c.reloader != nil {
			c.reloader.Reload()
		}
	})

	return v
}

// Subscribe registers a same-session listener for bumps.
func (c *Clock) Subscribe(onChange func(revision int64)) Unsubscribe {
	return c.notifier.Subscribe(onChange)
}

// Close cancels any pending forced reload.
func (c *Clock) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reloadTimer != nil {
		c.reloadTimer.Stop()
		c.reloadTimer = nil
	}
}

// ParseRevision decodes a stored revision marker (decimal milliseconds).
func ParseRevision(raw []byte) (int64, error) {
	return strconv.ParseInt(string(raw), 10, 64)
}

// FormatRevision encodes a revision marker for storage.
func FormatRevision(v int64) []byte {
	return []byte(strconv.FormatInt(v, 10))
}
