// Package collection implements an ordered, observable sequence of records of
// one declared type.
//
// A Collection emits an Event whenever its sequence mutates and, once
// ObserveChildren has been called, whenever any member emits a record.Change
// (fan-in). The fan-in registry is keyed by member UUID: members are
// subscribed on insert and unsubscribed on removal, so the registry always
// matches the live member set.
//
//	users, err := collection.New[*model.User]("users", nil)
//	users.ObserveChildren()
//	users.Subscribe(func(e collection.Event) { render(users.Items()) })
//	err = users.Append(model.NewUser("1", "Alice"))
//
// Notifications are delivered synchronously on the mutating goroutine, after
// the collection's lock has been released and before the mutating call
// returns.
package collection

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tailored-agentic-units/recordstore/notify"
	"github.com/tailored-agentic-units/recordstore/observability"
	"github.com/tailored-agentic-units/recordstore/record"
)

// Kind identifies what caused an Event.
type Kind string

const (
	KindAppend Kind = "append"
	KindRemove Kind = "remove"
	KindMember Kind = "member"
)

// Event is a collection-level change notification.
//
// For KindAppend and KindRemove, Members lists the affected member UUIDs in
// order. For KindMember, Members holds the single changed member and Field
// names the field that changed.
type Event struct {
	Collection string
	Kind       Kind
	Members    []string
	Field      string
}

// Option configures a Collection.
type Option func(*config)

type config struct {
	observer observability.Observer
}

// WithObserver sets the observer receiving collection lifecycle events.
func WithObserver(o observability.Observer) Option {
	return func(c *config) { c.observer = o }
}

// Collection is an ordered sequence of T. All methods are safe for
// concurrent use; mutations are serialized.
type Collection[T record.Record] struct {
	name      string
	items     []T
	members   map[string]*notify.Subscription
	guards    map[string]func()
	observing bool
	mu        sync.RWMutex

	changes  notify.Notifier[Event]
	observer observability.Observer
}

// New creates a collection holding initial in order. No fan-in subscriptions
// exist until ObserveChildren is called. initial must not contain nil
// records, duplicate instances or duplicate ids.
func New[T record.Record](name string, initial []T, opts ...Option) (*Collection[T], error) {
	cfg := config{observer: observability.NoOpObserver{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.observer == nil {
		cfg.observer = observability.NoOpObserver{}
	}

	c := &Collection[T]{
		name:     name,
		members:  make(map[string]*notify.Subscription),
		guards:   make(map[string]func()),
		observer: cfg.observer,
	}

	if err := c.validate(initial); err != nil {
		return nil, err
	}
	c.items = append(make([]T, 0, len(initial)), initial...)
	for _, item := range c.items {
		c.guardLocked(item)
	}

	return c, nil
}

// Name returns the collection name.
func (c *Collection[T]) Name() string {
	return c.name
}

// ObserveChildren starts forwarding member changes into this collection's
// events and returns the collection for chaining. Calling it again only
// subscribes members that are not subscribed yet.
func (c *Collection[T]) ObserveChildren() *Collection[T] {
	c.mu.Lock()
	c.observing = true
	added := 0
	for _, item := range c.items {
		if c.subscribeLocked(item) {
			added++
		}
	}
	size := len(c.items)
	c.mu.Unlock()

	c.record(context.Background(), EventObserve, observability.LevelVerbose, map[string]any{
		"subscribed": added,
		"size":       size,
	})

	return c
}

// Observed returns the number of live fan-in subscriptions.
func (c *Collection[T]) Observed() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.members)
}

// Subscribe registers fn for every collection-level Event.
func (c *Collection[T]) Subscribe(fn func(Event)) *notify.Subscription {
	return c.changes.Subscribe(fn)
}

// Append adds item at the end and emits one KindAppend event.
func (c *Collection[T]) Append(item T) error {
	return c.AppendContext(context.Background(), item)
}

// AppendContext is Append with ctx passed to the observer, so a span carried
// by ctx receives the collection's events.
func (c *Collection[T]) AppendContext(ctx context.Context, item T) error {
	return c.insert(ctx, []T{item})
}

// AppendMany adds items at the end, in order, as a single mutation: either
// every item is appended or none is, and exactly one KindAppend event is
// emitted. Appending nothing emits nothing.
func (c *Collection[T]) AppendMany(items ...T) error {
	return c.AppendManyContext(context.Background(), items...)
}

// AppendManyContext is AppendMany with ctx passed to the observer.
func (c *Collection[T]) AppendManyContext(ctx context.Context, items ...T) error {
	if len(items) == 0 {
		return nil
	}
	return c.insert(ctx, items)
}

func (c *Collection[T]) insert(ctx context.Context, items []T) error {
	c.mu.Lock()
	if err := c.validateLocked(items); err != nil {
		c.mu.Unlock()
		c.record(ctx, EventError, observability.LevelWarning, map[string]any{
			"operation": "append",
			"error":     err.Error(),
		})
		return err
	}

	uuids := make([]string, len(items))
	for i, item := range items {
		c.items = append(c.items, item)
		c.guardLocked(item)
		if c.observing {
			c.subscribeLocked(item)
		}
		uuids[i] = item.UUID()
	}
	size := len(c.items)
	c.mu.Unlock()

	c.record(ctx, EventAppend, observability.LevelInfo, map[string]any{
		"count": len(items),
		"size":  size,
	})
	c.changes.Emit(Event{Collection: c.name, Kind: KindAppend, Members: uuids})
	return nil
}

// Remove removes item by identity, releases its fan-in subscription and id
// guard, and emits one KindRemove event. It reports whether item was a member.
func (c *Collection[T]) Remove(item T) bool {
	return c.RemoveContext(context.Background(), item)
}

// RemoveContext is Remove with ctx passed to the observer.
func (c *Collection[T]) RemoveContext(ctx context.Context, item T) bool {
	if record.IsNil(item) {
		return false
	}
	target := item.UUID()

	c.mu.Lock()
	index := -1
	for i, member := range c.items {
		if member.UUID() == target {
			index = i
			break
		}
	}
	if index < 0 {
		c.mu.Unlock()
		return false
	}

	c.items = append(c.items[:index:index], c.items[index+1:]...)
	if sub, ok := c.members[target]; ok {
		sub.Cancel()
		delete(c.members, target)
	}
	if release, ok := c.guards[target]; ok {
		release()
		delete(c.guards, target)
	}
	size := len(c.items)
	c.mu.Unlock()

	c.record(ctx, EventRemove, observability.LevelInfo, map[string]any{
		"count": 1,
		"size":  size,
	})
	c.changes.Emit(Event{Collection: c.name, Kind: KindRemove, Members: []string{target}})
	return true
}

// Close releases every fan-in subscription. Members stay in the collection
// and keep their id guards; a later ObserveChildren resubscribes them.
func (c *Collection[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, sub := range c.members {
		sub.Cancel()
		delete(c.members, key)
	}
	c.observing = false
}

// Items returns a copy of the members in order.
func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of members.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Find returns the first member whose id equals id.
func (c *Collection[T]) Find(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var zero T
	if id == "" {
		return zero, false
	}
	for _, item := range c.items {
		if item.ID() == id {
			return item, true
		}
	}
	return zero, false
}

func (c *Collection[T]) subscribeLocked(item T) bool {
	key := item.UUID()
	if _, ok := c.members[key]; ok {
		return false
	}

	c.members[key] = item.Changes().Relay(func(change record.Change) {
		c.record(context.Background(), EventMemberChange, observability.LevelVerbose, map[string]any{
			"member": change.UUID,
			"field":  change.Field,
		})
		c.changes.Emit(Event{
			Collection: c.name,
			Kind:       KindMember,
			Members:    []string{change.UUID},
			Field:      change.Field,
		})
	})
	return true
}

// guardLocked makes item's later SetID calls fail with ErrDuplicateID when
// another member already holds the id.
func (c *Collection[T]) guardLocked(item T) {
	key := item.UUID()
	if _, ok := c.guards[key]; ok {
		return
	}

	c.guards[key] = item.GuardID(func(id string, assign func() error) error {
		c.mu.Lock()
		defer c.mu.Unlock()

		for _, member := range c.items {
			if member.UUID() != key && member.ID() == id {
				return fmt.Errorf("%w: %s/%s", ErrDuplicateID, c.name, id)
			}
		}
		return assign()
	})
}

func (c *Collection[T]) validate(items []T) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.validateLocked(items)
}

func (c *Collection[T]) validateLocked(items []T) error {
	uuids := make(map[string]bool, len(c.items)+len(items))
	ids := make(map[string]bool, len(c.items)+len(items))
	for _, item := range c.items {
		uuids[item.UUID()] = true
		if id := item.ID(); id != "" {
			ids[id] = true
		}
	}

	for i, item := range items {
		if record.IsNil(item) {
			return fmt.Errorf("%w: %s[%d]", ErrNilRecord, c.name, i)
		}
		if item.UUID() == "" {
			return fmt.Errorf("%w: %s[%d]", ErrUninitialized, c.name, i)
		}
		if uuids[item.UUID()] {
			return fmt.Errorf("%w: %s %s", ErrDuplicateMember, c.name, item.UUID())
		}
		uuids[item.UUID()] = true

		id := item.ID()
		if id == "" {
			continue
		}
		if ids[id] {
			return fmt.Errorf("%w: %s/%s", ErrDuplicateID, c.name, id)
		}
		ids[id] = true
	}
	return nil
}

func (c *Collection[T]) record(ctx context.Context, t observability.EventType, level observability.Level, data map[string]any) {
	data["collection"] = c.name
	c.observer.OnEvent(ctx, observability.Event{
		Type:      t,
		Level:     level,
		Timestamp: time.Now(),
		Source:    "collection",
		Data:      data,
	})
}
