package revision

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ResetToBasics/M-Ecosmeticos/internal/shop"
	"github.com/ResetToBasics/M-Ecosmeticos/internal/testutil"
)

func newTestClock(store shop.KVStore, wall shop.Clock, reloader Reloader, delay time.Duration) *Clock {
	return NewClock(store, wall, shop.NewNopLogger(), NewNotifier(), reloader, delay)
}

func TestClockReadFallsBackToInitial(t *testing.T) {
	wall := testutil.FixedClock()
	initial := wall.Now().UnixMilli()

	tests := []struct {
		name  string
		setup func(store *testutil.StubStore)
		want  int64
	}{
		{
			name:  "absent marker",
			setup: func(store *testutil.StubStore) {},
			want:  initial,
		},
		{
			name: "stored marker",
			setup: func(store *testutil.StubStore) {
				store.Seed(shop.KeyGlobalTimestamp, FormatRevision(12345))
			},
			want: 12345,
		},
		{
			name: "malformed marker",
			setup: func(store *testutil.StubStore) {
				store.Seed(shop.KeyGlobalTimestamp, []byte("not-a-number"))
			},
			want: initial,
		},
		{
			name: "read error",
			setup: func(store *testutil.StubStore) {
				store.FailGets = errors.New("disk gone")
			},
			want: initial,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewStubStore()
			tt.setup(store)
			c := newTestClock(store, wall, nil, time.Millisecond)
			if got := c.Read(); got != tt.want {
				t.Errorf("Expected revision %d, got %d", tt.want, got)
			}
		})
	}
}

func TestClockBumpIsMonotonic(t *testing.T) {
	store := testutil.NewStubStore()
	wall := testutil.FixedClock()
	c := newTestClock(store, wall, nil, time.Millisecond)

	first := c.Bump()
	wall.Advance(5 * time.Millisecond)
	second := c.Bump()

	if second <= first {
		t.Errorf("Expected second bump %d > first %d", second, first)
	}
	if got := c.Read(); got != second {
		t.Errorf("Expected stored revision %d, got %d", second, got)
	}
}

func TestClockBumpWritesBeforeNotifying(t *testing.T) {
	store := testutil.NewStubStore()
	wall := testutil.FixedClock()
	c := newTestClock(store, wall, nil, time.Millisecond)

	var observed int64
	var parseErr error
	c.Subscribe(func(rev int64) {
		// The marker must already hold the published revision.
		raw, ok := store.Raw(shop.KeyGlobalTimestamp)
		if !ok {
			parseErr = errors.New("marker missing during notification")
			return
		}
		observed, parseErr = ParseRevision(raw)
	})

	bumped := c.Bump()

	if parseErr != nil {
		t.Fatalf("Reading marker inside listener: %v", parseErr)
	}
	if observed != bumped {
		t.Errorf("Expected listener to observe %d, got %d", bumped, observed)
	}
}

func TestClockBumpStorageFailure(t *testing.T) {
	store := testutil.NewStubStore()
	wall := testutil.FixedClock()
	c := newTestClock(store, wall, nil, time.Millisecond)

	before := c.Bump()
	store.FailPuts = errors.New("disk full")

	notified := false
	c.Subscribe(func(int64) { notified = true })

	wall.Advance(10 * time.Millisecond)
	got := c.Bump()

	if got != before {
		t.Errorf("Expected failed bump to return previous revision %d, got %d", before, got)
	}
	if notified {
		t.Error("Expected no notification when the write fails")
	}
}

func TestClockForceBumpWritesMarkerAndReloads(t *testing.T) {
	store := testutil.NewStubStore()
	wall := testutil.FixedClock()

	var reloads atomic.Int64
	reloaded := make(chan struct{}, 1)
	reloader := ReloaderFunc(func() {
		reloads.Add(1)
		select {
		case reloaded <- struct{}{}:
		default:
		}
	})

	c := newTestClock(store, wall, reloader, 10*time.Millisecond)
	defer c.Close()

	v := c.ForceBump()

	raw, ok := store.Raw(shop.KeyForceUpdate)
	if !ok {
		t.Fatal("Expected force-update marker to be written")
	}
	forced, err := ParseRevision(raw)
	if err != nil {
		t.Fatalf("Parsing force-update marker: %v", err)
	}
	if forced != v {
		t.Errorf("Expected force marker %d, got %d", v, forced)
	}

	select {
	case <-reloaded:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected a reload after the delay")
	}
	if reloads.Load() != 1 {
		t.Errorf("Expected exactly one reload, got %d", reloads.Load())
	}
}

func TestClockForceBumpCoalescesReloads(t *testing.T) {
	store := testutil.NewStubStore()
	wall := testutil.FixedClock()

	var mu sync.Mutex
	reloads := 0
	reloaded := make(chan struct{}, 8)
	reloader := ReloaderFunc(func() {
		mu.Lock()
		reloads++
		mu.Unlock()
		reloaded <- struct{}{}
	})

	c := newTestClock(store, wall, reloader, 20*time.Millisecond)
	defer c.Close()

	bumps := 0
	c.Subscribe(func(int64) { bumps++ })

	for i := 0; i < 5; i++ {
		wall.Advance(time.Millisecond)
		c.ForceBump()
	}

	select {
	case <-reloaded:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected a reload after the delay")
	}
	// Give any stray timers a chance to misfire.
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if reloads != 1 {
		t.Errorf("Expected reloads to coalesce to 1, got %d", reloads)
	}
	if bumps != 5 {
		t.Errorf("Expected 5 bump notifications, got %d", bumps)
	}
}

func TestClockCloseCancelsPendingReload(t *testing.T) {
	store := testutil.NewStubStore()
	wall := testutil.FixedClock()

	var reloads atomic.Int64
	reloader := ReloaderFunc(func() { reloads.Add(1) })

	c := newTestClock(store, wall, reloader, 20*time.Millisecond)
	c.ForceBump()
	c.Close()

	time.Sleep(60 * time.Millisecond)
	if reloads.Load() != 0 {
		t.Errorf("Expected no reload after Close, got %d", reloads.Load())
	}
}
