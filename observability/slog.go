package observability

import (
	"context"
	"log/slog"
	"slices"
	"time"
)

// SlogObserver writes events to a slog.Logger. The event type is the log
// message, the event timestamp is the record time, and source plus Data keys
// (in sorted order) become top-level attributes.
type SlogObserver struct {
	logger *slog.Logger
}

// NewSlogObserver creates a SlogObserver that writes to logger.
func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	return &SlogObserver{logger: logger}
}

func (o *SlogObserver) OnEvent(ctx context.Context, event Event) {
	level := event.Level.SlogLevel()
	handler := o.logger.Handler()
	if !handler.Enabled(ctx, level) {
		return
	}

	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	record := slog.NewRecord(ts, level, string(event.Type), 0)
	record.AddAttrs(slog.String("source", event.Source))

	keys := make([]string, 0, len(event.Data))
	for k := range event.Data {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		record.AddAttrs(slog.Any(k, event.Data[k]))
	}

	_ = handler.Handle(ctx, record)
}
