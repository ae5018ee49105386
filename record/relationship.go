package record

import (
	"errors"
	"fmt"
)

// Resolver is the store contract used to resolve relationships.
type Resolver interface {
	// Find returns the record in collection whose id equals id, or an error
	// wrapping ErrNotFound.
	Find(collection, id string) (Record, error)
	// Append adds r to collection.
	Append(collection string, r Record) error
}

// GetRelationship returns the record in collection referenced by relationID.
// It never mutates the store. An empty relationID returns ErrNotFound.
func GetRelationship(res Resolver, collection, relationID string) (Record, error) {
	if relationID == "" {
		return nil, fmt.Errorf("%w: %s has no relation id", ErrNotFound, collection)
	}
	return res.Find(collection, relationID)
}

// Related is GetRelationship with the result asserted to T.
func Related[T Record](res Resolver, collection, relationID string) (T, error) {
	var zero T

	r, err := GetRelationship(res, collection, relationID)
	if err != nil {
		return zero, err
	}

	typed, ok := r.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s/%s is %T, want %T", ErrTypeMismatch, collection, relationID, r, zero)
	}
	return typed, nil
}

// SetRelationship links slot to model's id.
//
// This is not a plain field assignment: when model has an id that collection
// does not hold yet, model is appended to the store through res before the
// slot is written. Callers linking a new record therefore grow the store.
//
// A nil model, or a model without an id, clears the slot and leaves the store
// unchanged. Records without an id cannot be linked; this is intentional.
//
// If the store rejects model, the slot is not modified and the error is
// returned, unless model itself was stored concurrently between the lookup and
// the append.
func SetRelationship(res Resolver, collection string, slot *string, model Record) error {
	if IsNil(model) {
		*slot = ""
		return nil
	}

	id := model.ID()
	if id == "" {
		*slot = ""
		return nil
	}

	_, err := res.Find(collection, id)
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		if err := res.Append(collection, model); err != nil && !linked(res, collection, model) {
			return fmt.Errorf("register %s/%s: %w", collection, id, err)
		}
	default:
		return err
	}

	*slot = id
	return nil
}

// linked reports whether collection now holds model itself under its id.
func linked(res Resolver, collection string, model Record) bool {
	stored, err := res.Find(collection, model.ID())
	return err == nil && !IsNil(stored) && stored.UUID() == model.UUID()
}
