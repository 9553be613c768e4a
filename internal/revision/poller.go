package revision

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/ResetToBasics/M-Ecosmeticos/internal/shop"
)

// State is the poller's lifecycle state.
type State int

const (
	// StateIdle means the last check found nothing newer.
	StateIdle State = iota
	// StateChecking means a comparison against the store is in progress.
	StateChecking
	// StateUpdateAvailable means a newer revision was observed and the
	// session should reload to pick it up.
	StateUpdateAvailable
)

func (s State) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateUpdateAvailable:
		return "update-available"
	default:
		return "idle"
	}
}

// Poller decides, on a cadence and on change signals, whether this
// session's last known revision is stale. One Poller exists per
// session; all of them share the same store and clock.
//
// A check never panics out of a tick: storage errors and malformed
// markers are logged and treated as "no update this cycle".
type Poller struct {
	store    shop.KVStore
	rev      *Clock
	reloader Reloader
	wall     shop.Clock
	logger   shop.Logger
	interval time.Duration

	// checking guards against overlapping check cycles: a tick arriving
	// while a check is in flight is a no-op.
	checking atomic.Bool

	mu              sync.Mutex
	lastKnown       int64
	lastCheckedAt   time.Time
	updateAvailable bool

	stop        chan struct{}
	done        chan struct{}
	unsubscribe Unsubscribe
}

// NewPoller creates a poller whose baseline is the currently stored
// revision. Start must be called to begin the periodic checks; Check
// can always be invoked explicitly.
func NewPoller(store shop.KVStore, rev *Clock, reloader Reloader, wall shop.Clock, logger shop.Logger, interval time.Duration) *Poller {
	return &Poller{
		store:     store,
		rev:       rev,
		reloader:  reloader,
		wall:      wall,
		logger:    logger,
		interval:  interval,
		lastKnown: rev.Read(),
	}
}

// Start launches the periodic check loop and subscribes to same-session
// bump notifications. Calling Start on a running poller is a no-op.
func (p *Poller) Start() {
	p.mu.Lock()
	if p.stop != nil {
		p.mu.Unlock()
		return
	}
	p.stop = make(chan struct{})
	p.done = make(chan struct{})
	stop, done := p.stop, p.done
	p.mu.Unlock()

	p.unsubscribe = p.rev.Subscribe(func(int64) {
		p.Check()
	})

	go p.run(stop, done)
}

// Stop cancels the check loop and the bump subscription. Any result of
// an in-flight check is discarded by virtue of the poller no longer
// being consulted.
func (p *Poller) Stop() {
	p.mu.Lock()
	if p.stop == nil {
		p.mu.Unlock()
		return
	}
	stop, done := p.stop, p.done
	p.stop = nil
	p.done = nil
	p.mu.Unlock()

	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
	close(stop)
	<-done
}

func (p *Poller) run(stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Check()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p.Check()
		}
	}
}

// Check compares the stored revision (forced first, then normal)
// against the last known one. Returns true when a newer revision was
// adopted and the update flag raised. A call overlapping an in-flight
// check is a no-op returning false.
func (p *Poller) Check() bool {
	if !p.checking.CompareAndSwap(false, true) {
		return false
	}
	defer p.checking.Store(false)

	p.mu.Lock()
	lastKnown := p.lastKnown
	p.mu.Unlock()

	if forced, ok := p.readMarker(shop.KeyForceUpdate); ok && forced > lastKnown {
		p.adopt(forced)
		return true
	}

	if stored, ok := p.readMarker(shop.KeyGlobalTimestamp); ok && stored > lastKnown {
		p.adopt(stored)
		return true
	}

	now := p.wall.Now()
	p.mu.Lock()
	p.lastCheckedAt = now
	p.mu.Unlock()

	// Informational marker; failure to write it never fails the check.
	if err := p.store.Put(shop.KeyLastCheck, FormatRevision(now.UnixMilli())); err != nil {
		p.logger.Warn("writing last-check marker failed", "error", err)
	}

	return false
}

// readMarker reads and parses a revision marker, absorbing all failures.
func (p *Poller) readMarker(key string) (int64, bool) {
	raw, ok, err := p.store.Get(key)
	if err != nil {
		p.logger.Warn("reading revision marker failed", "key", key, "error", err)
		return 0, false
	}
	if !ok {
		return 0, false
	}

	v, err := ParseRevision(raw)
	if err != nil {
		p.logger.Warn("revision marker malformed", "key", key, "value", string(raw), "error", err)
		return 0, false
	}
	return v, true
}

// adopt records a newly observed revision and raises the update flag.
func (p *Poller) adopt(v int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastKnown = v
	p.updateAvailable = true
	p.lastCheckedAt = p.wall.Now()
}

// Apply accepts the pending update: cached snapshots are re-stamped to
// the adopted revision and the session reloads. In practice this is
// terminal for the session, which starts over with fresh reads.
func (p *Poller) Apply() {
	p.mu.Lock()
	adopted := p.lastKnown
	p.updateAvailable = false
	p.mu.Unlock()

	now := p.wall.Now()
	for _, key := range []string{shop.KeyProducts, shop.KeySettings} {
		raw, ok, err := p.store.Get(key)
		if err != nil || !ok {
			continue
		}
		restamped, err := shop.RestampSnapshot(raw, adopted, now)
		if err != nil {
			p.logger.Warn("re-stamping snapshot failed", "key", key, "error", err)
			continue
		}
		if err := p.store.Put(key, restamped); err != nil {
			p.logger.Warn("writing re-stamped snapshot failed", "key", key, "error", err)
		}
	}

	if p.reloader != nil {
		p.reloader.Reload()
	}
}

// Dismiss drops the pending update without reloading. The observed
// revision stays adopted as known-good, so the same value does not
// raise the flag again.
func (p *Poller) Dismiss() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updateAvailable = false
}

// UpdateAvailable reports whether a newer revision has been observed
// and not yet applied or dismissed.
func (p *Poller) UpdateAvailable() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.updateAvailable
}

// LastKnownRevision returns the most recently adopted revision.
func (p *Poller) LastKnownRevision() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastKnown
}

// LastCheckedAt returns when the poller last completed a comparison.
func (p *Poller) LastCheckedAt() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastCheckedAt
}

// State derives the poller's current lifecycle state.
func (p *Poller) State() State {
	if p.checking.Load() {
		return StateChecking
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.updateAvailable {
		return StateUpdateAvailable
	}
	return StateIdle
}
