// Package notify provides the synchronous change-notification primitive shared
// by records and collections.
//
// A Notifier holds two tiers of handlers. Subscribe handlers are the direct
// observers of a value. Relay handlers forward the value's notifications
// somewhere else (a collection's fan-in) and always run after every Subscribe
// handler for the same emission:
//
//	var n notify.Notifier[string]
//	sub := n.Subscribe(func(s string) { fmt.Println("direct", s) })
//	n.Relay(func(s string) { fmt.Println("forwarded", s) })
//	n.Emit("changed")
//	sub.Cancel()
//
// Handlers run on the caller's goroutine before Emit returns. Emit takes a
// snapshot of the handlers, so handlers may subscribe, cancel, or emit again
// without deadlocking.
package notify

import (
	"sort"
	"sync"
)

// Handler receives one notification.
type Handler[E any] func(E)

type tier int

const (
	tierDirect tier = iota
	tierRelay
)

type entry[E any] struct {
	tier    tier
	handler Handler[E]
}

// Notifier is a registry of handlers. The zero value is ready to use.
// All methods are safe for concurrent use.
type Notifier[E any] struct {
	mu       sync.RWMutex
	next     uint64
	handlers map[uint64]entry[E]
}

// Subscribe registers a direct observer.
func (n *Notifier[E]) Subscribe(h Handler[E]) *Subscription {
	return n.add(tierDirect, h)
}

// Relay registers a forwarding handler that runs after all direct observers.
func (n *Notifier[E]) Relay(h Handler[E]) *Subscription {
	return n.add(tierRelay, h)
}

func (n *Notifier[E]) add(t tier, h Handler[E]) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.handlers == nil {
		n.handlers = make(map[uint64]entry[E])
	}
	n.next++
	key := n.next
	n.handlers[key] = entry[E]{tier: t, handler: h}

	return newSubscription(func() { n.remove(key) })
}

func (n *Notifier[E]) remove(key uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.handlers, key)
}

// Emit delivers event to every direct observer in registration order, then
// to every relay in registration order.
func (n *Notifier[E]) Emit(event E) {
	for _, h := range n.snapshot() {
		h(event)
	}
}

// Len returns the number of live handlers across both tiers.
func (n *Notifier[E]) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.handlers)
}

func (n *Notifier[E]) snapshot() []Handler[E] {
	n.mu.RLock()
	defer n.mu.RUnlock()

	keys := make([]uint64, 0, len(n.handlers))
	for k := range n.handlers {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := n.handlers[keys[i]], n.handlers[keys[j]]
		if a.tier != b.tier {
			return a.tier < b.tier
		}
		return keys[i] < keys[j]
	})

	out := make([]Handler[E], len(keys))
	for i, k := range keys {
		out[i] = n.handlers[k].handler
	}
	return out
}

// Subscription is a live registration. Cancel releases it; calling Cancel
// more than once is a no-op.
type Subscription struct {
	once   sync.Once
	cancel func()
}

func newSubscription(cancel func()) *Subscription {
	return &Subscription{cancel: cancel}
}

// Cancel removes the handler from its Notifier.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}
