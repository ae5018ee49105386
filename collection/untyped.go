package collection

import (
	"context"
	"fmt"

	"github.com/tailored-agentic-units/recordstore/notify"
	"github.com/tailored-agentic-units/recordstore/record"
)

// Untyped is the element-type-erased view of a Collection used by registries
// that hold collections of different types under one map.
type Untyped interface {
	Name() string
	Len() int
	Records() []record.Record
	FindRecord(id string) (record.Record, bool)
	AppendRecord(ctx context.Context, r record.Record) error
	AppendRecords(ctx context.Context, rs ...record.Record) error
	Subscribe(fn func(Event)) *notify.Subscription
	Close()
}

var _ Untyped = (*Collection[record.Record])(nil)

// Records returns a copy of the members as record.Record values.
func (c *Collection[T]) Records() []record.Record {
	items := c.Items()
	out := make([]record.Record, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

// FindRecord is Find returning a record.Record.
func (c *Collection[T]) FindRecord(id string) (record.Record, bool) {
	item, ok := c.Find(id)
	if !ok {
		return nil, false
	}
	return item, true
}

// AppendRecord appends r after asserting it to the collection's element
// type. A record of another type returns ErrTypeMismatch.
func (c *Collection[T]) AppendRecord(ctx context.Context, r record.Record) error {
	item, err := c.assert(0, r)
	if err != nil {
		return err
	}
	return c.AppendContext(ctx, item)
}

// AppendRecords is AppendMany for untyped records. Every record is checked
// before any is appended.
func (c *Collection[T]) AppendRecords(ctx context.Context, rs ...record.Record) error {
	items := make([]T, len(rs))
	for i, r := range rs {
		item, err := c.assert(i, r)
		if err != nil {
			return err
		}
		items[i] = item
	}
	return c.AppendManyContext(ctx, items...)
}

func (c *Collection[T]) assert(index int, r record.Record) (T, error) {
	var zero T
	if record.IsNil(r) {
		return zero, fmt.Errorf("%w: %s[%d]", ErrNilRecord, c.name, index)
	}
	item, ok := r.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s holds %T, got %T", ErrTypeMismatch, c.name, zero, r)
	}
	return item, nil
}
