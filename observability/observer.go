// Package observability provides event-based observability for the store and
// its collections. Level values align with OpenTelemetry SeverityNumbers so
// events translate directly into OTel log records and span events.
package observability

import (
	"context"
	"log/slog"
	"time"
)

// Level is an event severity expressed as an OTel SeverityNumber. The store
// emits only the four named levels; any other value is bucketed into its OTel
// severity range.
type Level int

const (
	LevelVerbose Level = 5  // member field changes, observation lifecycle
	LevelInfo    Level = 9  // registration, sealing, membership changes
	LevelWarning Level = 13 // rejected mutations, unknown collections
	LevelError   Level = 17
)

// severityRanges lists the upper bound of each OTel severity range with its
// text and slog level. Values above the last bound are FATAL.
var severityRanges = []struct {
	max  Level
	text string
	slog slog.Level
}{
	{max: 4, text: "TRACE", slog: slog.LevelDebug},
	{max: 8, text: "DEBUG", slog: slog.LevelDebug},
	{max: 12, text: "INFO", slog: slog.LevelInfo},
	{max: 16, text: "WARN", slog: slog.LevelWarn},
	{max: 20, text: "ERROR", slog: slog.LevelError},
}

func (l Level) String() string {
	for _, r := range severityRanges {
		if l <= r.max {
			return r.text
		}
	}
	return "FATAL"
}

// SlogLevel returns the slog level used when the event is logged.
func (l Level) SlogLevel() slog.Level {
	for _, r := range severityRanges {
		if l <= r.max {
			return r.slog
		}
	}
	return slog.LevelError
}

// EventType identifies the kind of event. Each package defines its own
// constants using this type (e.g., "collection.append", "store.sealed").
type EventType string

// Event is one store or collection occurrence. Source is "store" or
// "collection"; Data always carries the emitter's name under "store" or
// "collection", and "size" whenever the member count changed.
type Event struct {
	Type      EventType
	Level     Level
	Timestamp time.Time
	Source    string
	Data      map[string]any
}

// Observer receives events for logging, tracing, or metrics. OnEvent runs
// synchronously on the emitting goroutine.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}
