package revision

import "sync"

// Unsubscribe removes a listener registered with Subscribe.
type Unsubscribe func()

// Notifier fans revision-change notifications out to in-process
// listeners. It is the same-session channel: cross-session listeners
// learn about changes through polling or the WebSocket feed, but the
// session that performed a bump would otherwise never hear about it.
//
// Listeners run synchronously on the publisher's goroutine, after the
// new revision is durably written, so a listener that reads the store
// always observes the published value or newer.
type Notifier struct {
	mu        sync.Mutex
	nextID    int64
	listeners map[int64]func(revision int64)
}

// NewNotifier creates an empty Notifier.
func NewNotifier() *Notifier {
	return &Notifier{listeners: make(map[int64]func(int64))}
}

// Subscribe registers onChange and returns its Unsubscribe. The same
// interface is satisfiable by a push-based backend, so pollers do not
// care where notifications come from.
func (n *Notifier) Subscribe(onChange func(revision int64)) Unsubscribe {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	id := n.nextID
	n.listeners[id] = onChange

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.listeners, id)
	}
}

// Publish invokes every listener with the new revision. Listeners are
// called outside the notifier lock so they may subscribe or unsubscribe
// from within the callback.
func (n *Notifier) Publish(revision int64) {
	n.mu.Lock()
	callbacks := make([]func(int64), 0, len(n.listeners))
	for _, cb := range n.listeners {
		callbacks = append(callbacks, cb)
	}
	n.mu.Unlock()

	for _, cb := range callbacks {
		cb(revision)
	}
}

// Len reports the number of registered listeners.
func (n *Notifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.listeners)
}
