package collection

import "github.com/tailored-agentic-units/recordstore/observability"

// Observability event types emitted by collections.
const (
	EventAppend       observability.EventType = "collection.append"
	EventRemove       observability.EventType = "collection.remove"
	EventObserve      observability.EventType = "collection.observe"
	EventMemberChange observability.EventType = "collection.member.change"
	EventError        observability.EventType = "collection.error"
)
