package store

import (
	"errors"

	"github.com/tailored-agentic-units/recordstore/record"
)

// Sentinel errors for the store.
var (
	ErrUnknownCollection = errors.New("unknown collection")
	ErrAlreadyRegistered = errors.New("collection already registered")
	ErrEmptyName         = errors.New("collection name is empty")
	ErrSealed            = errors.New("store is sealed")

	ErrNotFound     = record.ErrNotFound
	ErrTypeMismatch = record.ErrTypeMismatch
)
