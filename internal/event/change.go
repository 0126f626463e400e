// Package event carries store change notifications inside the process and,
// optionally, between server instances over Kafka.
package event

import "sync"

// Topic names what kind of store changed.
type Topic string

const (
	TopicCart     Topic = "cart"
	TopicWishlist Topic = "wishlist"
)

// Valid reports whether t is a known topic.
func (t Topic) Valid() bool {
	return t == TopicCart || t == TopicWishlist
}

// Change says that a session's store changed. It carries no state;
// listeners re-query the store. Remote marks changes picked up from
// another instance; they are not relayed again.
type Change struct {
	Topic     Topic  `json:"topic"`
	SessionID string `json:"session_id"`
	Remote    bool   `json:"-"`
}

// Listener receives changes.
type Listener func(Change)

// Notifier is an owned list of listeners. The zero value is ready to use.
type Notifier struct {
	mu        sync.Mutex
	nextID    int
	listeners []subscription
}

type subscription struct {
	id int
	fn Listener
}

// Subscribe adds l and returns a function that removes it. Calling the
// returned function more than once is harmless.
func (n *Notifier) Subscribe(l Listener) (unsubscribe func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	id := n.nextID
	n.listeners = append(n.listeners, subscription{id: id, fn: l})

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		for i, s := range n.listeners {
			if s.id == id {
				n.listeners = append(n.listeners[:i:i], n.listeners[i+1:]...)
				return
			}
		}
	}
}

// Notify calls every listener, in subscription order, with c. Listeners
// are called without the notifier lock held, so they may subscribe or
// unsubscribe.
func (n *Notifier) Notify(c Change) {
	n.mu.Lock()
	snapshot := make([]Listener, len(n.listeners))
	for i, s := range n.listeners {
		snapshot[i] = s.fn
	}
	n.mu.Unlock()

	for _, fn := range snapshot {
		fn(c)
	}
}

// Len reports the number of listeners.
func (n *Notifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.listeners)
}
