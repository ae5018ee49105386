package record

import "errors"

// Sentinel errors shared by records and the stores that resolve them.
var (
	ErrNotFound      = errors.New("record not found")
	ErrTypeMismatch  = errors.New("record type mismatch")
	ErrIDAssigned    = errors.New("record id already assigned")
	ErrUninitialized = errors.New("record not initialized with NewBase")
)
