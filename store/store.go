// Package store implements the registry that maps collection names to
// observable collections and resolves relationships between records.
//
// A Store is an explicit object: components that resolve relationships take
// it as a record.Resolver. The process-wide instance is created once at the
// composition root, its collections are registered, and the store is sealed:
//
//	cfg := store.DefaultConfig()
//	s, err := store.New(&cfg)
//	users, err := store.Register[*model.User](s, "users")
//	products, err := store.Register[*model.Product](s, "products")
//	s.Seal()
//
// Every collection is wrapped in fan-in observation as soon as it is
// registered, so subscribers of a collection see both membership changes and
// field changes of any member.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tailored-agentic-units/recordstore/collection"
	"github.com/tailored-agentic-units/recordstore/notify"
	"github.com/tailored-agentic-units/recordstore/observability"
	"github.com/tailored-agentic-units/recordstore/record"
)

var _ record.Resolver = (*Store)(nil)

// Option configures a Store after config-driven initialization.
type Option func(*Store)

// WithObserver overrides the observer resolved from Config.Observer.
func WithObserver(o observability.Observer) Option {
	return func(s *Store) { s.observer = o }
}

// Store is a named registry of collections. Registration is expected at
// startup; data operations are safe for concurrent use.
type Store struct {
	name        string
	collections map[string]collection.Untyped
	sealed      bool
	mu          sync.RWMutex

	observer observability.Observer
}

// New creates an empty Store from configuration.
func New(cfg *Config, opts ...Option) (*Store, error) {
	observer, err := observability.GetObserver(cfg.Observer)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve observer: %w", err)
	}

	s := &Store{
		name:        cfg.Name,
		collections: make(map[string]collection.Untyped),
		observer:    observer,
	}

	for _, opt := range opts {
		opt(s)
	}
	if s.observer == nil {
		s.observer = observability.NoOpObserver{}
	}

	return s, nil
}

// Register creates the collection name holding values of T, seeded with
// initial, and starts observing its members.
func Register[T record.Record](s *Store, name string, initial ...T) (*collection.Collection[T], error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	s.mu.Lock()
	if s.sealed {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: cannot register %s", ErrSealed, name)
	}
	if _, exists := s.collections[name]; exists {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrAlreadyRegistered, name)
	}

	c, err := collection.New(name, initial, collection.WithObserver(s.observer))
	if err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("failed to create collection %s: %w", name, err)
	}
	s.collections[name] = c
	s.mu.Unlock()

	c.ObserveChildren()

	var zero T
	s.record(context.Background(), EventRegister, observability.LevelInfo, map[string]any{
		"collection": name,
		"type":       fmt.Sprintf("%T", zero),
		"size":       c.Len(),
	})

	return c, nil
}

// Typed returns the collection name as a *collection.Collection[T].
func Typed[T record.Record](s *Store, name string) (*collection.Collection[T], error) {
	u, err := s.lookup(context.Background(), name)
	if err != nil {
		return nil, err
	}

	c, ok := u.(*collection.Collection[T])
	if !ok {
		var zero T
		return nil, fmt.Errorf("%w: %s does not hold %T", ErrTypeMismatch, name, zero)
	}
	return c, nil
}

// Seal fixes the set of collection names. Register fails afterwards.
func (s *Store) Seal() {
	s.mu.Lock()
	if s.sealed {
		s.mu.Unlock()
		return
	}
	s.sealed = true
	count := len(s.collections)
	s.mu.Unlock()

	s.record(context.Background(), EventSealed, observability.LevelInfo, map[string]any{
		"collections": count,
	})
}

// Name returns the configured store name.
func (s *Store) Name() string {
	return s.name
}

// Names returns the registered collection names in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns the members of the named collection in order. An empty
// collection returns an empty slice; an unknown name returns
// ErrUnknownCollection.
func (s *Store) All(name string) ([]record.Record, error) {
	c, err := s.lookup(context.Background(), name)
	if err != nil {
		return nil, err
	}
	return c.Records(), nil
}

// Find returns the first member of the named collection whose id equals id.
func (s *Store) Find(name, id string) (record.Record, error) {
	c, err := s.lookup(context.Background(), name)
	if err != nil {
		return nil, err
	}

	r, ok := c.FindRecord(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, name, id)
	}
	return r, nil
}

// Append adds r to the end of the named collection and emits one collection
// event. A record whose type differs from the collection's element type is
// rejected with ErrTypeMismatch.
func (s *Store) Append(name string, r record.Record) error {
	return s.AppendContext(context.Background(), name, r)
}

// AppendContext is Append with ctx passed to the observer, so a span carried
// by ctx receives the store and collection events of the call.
func (s *Store) AppendContext(ctx context.Context, name string, r record.Record) error {
	c, err := s.lookup(ctx, name)
	if err != nil {
		return err
	}
	return c.AppendRecord(ctx, r)
}

// AppendMany adds rs to the end of the named collection, in order, as one
// mutation that emits one collection event. If any record is rejected none
// are appended.
func (s *Store) AppendMany(name string, rs ...record.Record) error {
	return s.AppendManyContext(context.Background(), name, rs...)
}

// AppendManyContext is AppendMany with ctx passed to the observer.
func (s *Store) AppendManyContext(ctx context.Context, name string, rs ...record.Record) error {
	c, err := s.lookup(ctx, name)
	if err != nil {
		return err
	}
	return c.AppendRecords(ctx, rs...)
}

// Subscribe registers fn for every event of the named collection.
func (s *Store) Subscribe(name string, fn func(collection.Event)) (*notify.Subscription, error) {
	c, err := s.lookup(context.Background(), name)
	if err != nil {
		return nil, err
	}
	return c.Subscribe(fn), nil
}

// Close releases the fan-in subscriptions of every collection.
func (s *Store) Close() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.collections {
		c.Close()
	}
}

func (s *Store) lookup(ctx context.Context, name string) (collection.Untyped, error) {
	s.mu.RLock()
	c, ok := s.collections[name]
	s.mu.RUnlock()

	if !ok {
		s.record(ctx, EventError, observability.LevelWarning, map[string]any{
			"collection": name,
			"error":      ErrUnknownCollection.Error(),
		})
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, name)
	}
	return c, nil
}

func (s *Store) record(ctx context.Context, t observability.EventType, level observability.Level, data map[string]any) {
	data["store"] = s.name
	s.observer.OnEvent(ctx, observability.Event{
		Type:      t,
		Level:     level,
		Timestamp: time.Now(),
		Source:    "store",
		Data:      data,
	})
}
