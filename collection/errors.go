package collection

import (
	"errors"

	"github.com/tailored-agentic-units/recordstore/record"
)

// Sentinel errors for collection mutations.
var (
	ErrNilRecord       = errors.New("nil record")
	ErrDuplicateID     = errors.New("duplicate record id")
	ErrDuplicateMember = errors.New("record already a member")

	// ErrTypeMismatch is record.ErrTypeMismatch, re-exported for callers of
	// the untyped adapters.
	ErrTypeMismatch = record.ErrTypeMismatch

	// ErrUninitialized is record.ErrUninitialized: the record was not built
	// with record.NewBase.
	ErrUninitialized = record.ErrUninitialized
)
