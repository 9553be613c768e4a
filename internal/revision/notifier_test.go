package revision

import (
	"testing"
)

func TestNotifierSubscribePublish(t *testing.T) {
	n := NewNotifier()

	var got []int64
	unsub := n.Subscribe(func(rev int64) {
		got = append(got, rev)
	})

	n.Publish(100)
	n.Publish(200)

	if len(got) != 2 || got[0] != 100 || got[1] != 200 {
		t.Errorf("Expected [100 200], got %v", got)
	}

	unsub()
	n.Publish(300)

	if len(got) != 2 {
		t.Errorf("Expected no delivery after unsubscribe, got %v", got)
	}
	if n.Len() != 0 {
		t.Errorf("Expected 0 listeners, got %d", n.Len())
	}
}

func TestNotifierMultipleListeners(t *testing.T) {
	n := NewNotifier()

	countA, countB := 0, 0
	n.Subscribe(func(int64) { countA++ })
	unsubB := n.Subscribe(func(int64) { countB++ })

	n.Publish(1)
	unsubB()
	n.Publish(2)

	if countA != 2 {
		t.Errorf("Expected listener A called twice, got %d", countA)
	}
	if countB != 1 {
		t.Errorf("Expected listener B called once, got %d", countB)
	}
}

func TestNotifierUnsubscribeFromCallback(t *testing.T) {
	n := NewNotifier()

	calls := 0
	var unsub Unsubscribe
	unsub = n.Subscribe(func(int64) {
		calls++
		unsub()
	})

	n.Publish(1)
	n.Publish(2)

	if calls != 1 {
		t.Errorf("Expected exactly one call, got %d", calls)
	}
}

func TestNotifierUnsubscribeIdempotent(t *testing.T) {
	n := NewNotifier()

	unsub := n.Subscribe(func(int64) {})
	unsub()
	unsub()

	if n.Len() != 0 {
		t.Errorf("Expected 0 listeners, got %d", n.Len())
	}
}
