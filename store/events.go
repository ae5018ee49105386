package store

import "github.com/tailored-agentic-units/recordstore/observability"

// Store event types. Collection events are defined by the collection package.
const (
	EventRegister observability.EventType = "store.collection.register"
	EventSealed   observability.EventType = "store.sealed"
	EventError    observability.EventType = "store.error"
)
