// Package record defines the unit of data held by the store and the
// relationship helpers that resolve foreign keys through it.
//
// A concrete record type embeds Base and declares its collection name:
//
//	type User struct {
//	    record.Base
//	    name string
//	}
//
//	func NewUser(id, name string) *User {
//	    return &User{Base: record.NewBase(id), name: name}
//	}
//
//	func (*User) Collection() string { return "users" }
//
//	func (u *User) SetName(name string) {
//	    u.Update("name", func() { u.name = name })
//	}
package record

import (
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/tailored-agentic-units/recordstore/notify"
)

// Record is a polymorphic unit of data. An empty ID means the record has not
// been assigned an identity yet.
type Record interface {
	// ID returns the store identity, or "" when absent.
	ID() string
	// UUID returns a local identifier assigned once at construction.
	UUID() string
	// Collection returns the name of the collection the type belongs to.
	Collection() string
	// Changes exposes the record's change notifier.
	Changes() *notify.Notifier[Change]
	// GuardID installs g around every later id assignment and returns the
	// function that removes it.
	GuardID(g IDGuard) (release func())
	// Fields returns the type-specific fields for presentation.
	Fields() map[string]any
}

// Change describes one mutation of a record field.
type Change struct {
	UUID  string
	Field string
}

// IDGuard vets id before it is assigned. A guard that accepts id must call
// assign while still holding whatever lock makes its check valid, and return
// assign's error. Owning collections install one to keep ids unique.
type IDGuard func(id string, assign func() error) error

type state struct {
	mu      sync.RWMutex
	id      string
	uuid    string
	changes notify.Notifier[Change]

	guards    map[uint64]IDGuard
	nextGuard uint64
}

// Base carries the identity and change notification shared by every record
// type. Copies of a Base share the same underlying state.
//
// Records must be built with NewBase. The zero Base has no identity: its
// accessors return empty values, its notifier is detached, and SetID returns
// ErrUninitialized. Collections reject such records.
type Base struct {
	s *state
}

// NewBase returns a Base with the given id (may be empty) and a fresh UUIDv7.
func NewBase(id string) Base {
	return Base{s: &state{
		id:   id,
		uuid: uuid.Must(uuid.NewV7()).String(),
	}}
}

func (b Base) ID() string {
	if b.s == nil {
		return ""
	}
	b.s.mu.RLock()
	defer b.s.mu.RUnlock()
	return b.s.id
}

func (b Base) UUID() string {
	if b.s == nil {
		return ""
	}
	return b.s.uuid
}

func (b Base) Changes() *notify.Notifier[Change] {
	if b.s == nil {
		return &notify.Notifier[Change]{}
	}
	return &b.s.changes
}

func (b Base) GuardID(g IDGuard) func() {
	if b.s == nil || g == nil {
		return func() {}
	}

	b.s.mu.Lock()
	defer b.s.mu.Unlock()

	if b.s.guards == nil {
		b.s.guards = make(map[uint64]IDGuard)
	}
	b.s.nextGuard++
	key := b.s.nextGuard
	b.s.guards[key] = g

	return func() {
		b.s.mu.Lock()
		defer b.s.mu.Unlock()
		delete(b.s.guards, key)
	}
}

// SetID assigns the record's id. The id can be assigned once; setting the
// same value again is a no-op and any other value returns ErrIDAssigned.
// Guards installed by owning collections run first and may reject id.
func (b Base) SetID(id string) error {
	if b.s == nil {
		return ErrUninitialized
	}
	if id == "" {
		return fmt.Errorf("%w: empty id", ErrIDAssigned)
	}

	changed := false
	commit := func() error {
		b.s.mu.Lock()
		defer b.s.mu.Unlock()

		switch b.s.id {
		case id:
			return nil
		case "":
			b.s.id = id
			changed = true
			return nil
		default:
			return fmt.Errorf("%w: %s", ErrIDAssigned, b.s.id)
		}
	}

	for _, g := range b.guardsSnapshot() {
		next := commit
		commit = func() error { return g(id, next) }
	}
	if err := commit(); err != nil {
		return err
	}

	if changed {
		b.emit("id")
	}
	return nil
}

// guardsSnapshot returns the guards in reverse installation order so that
// wrapping them yields the earliest guard outermost.
func (b Base) guardsSnapshot() []IDGuard {
	b.s.mu.RLock()
	defer b.s.mu.RUnlock()

	keys := make([]uint64, 0, len(b.s.guards))
	for k := range b.s.guards {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	slices.Reverse(keys)

	out := make([]IDGuard, len(keys))
	for i, k := range keys {
		out[i] = b.s.guards[k]
	}
	return out
}

// Update runs fn under the record's write lock, then notifies direct
// subscribers followed by relays. Every call emits exactly one Change.
func (b Base) Update(field string, fn func()) {
	if b.s == nil {
		fn()
		return
	}
	b.s.mu.Lock()
	fn()
	b.s.mu.Unlock()

	b.emit(field)
}

// View runs fn under the record's read lock.
func (b Base) View(fn func()) {
	if b.s == nil {
		fn()
		return
	}
	b.s.mu.RLock()
	defer b.s.mu.RUnlock()
	fn()
}

func (b Base) emit(field string) {
	b.s.changes.Emit(Change{UUID: b.s.uuid, Field: field})
}

// IsNil reports whether r is nil or a typed nil pointer.
func IsNil(r Record) bool {
	if r == nil {
		return true
	}
	v := reflect.ValueOf(r)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return v.IsNil()
	}
	return false
}
