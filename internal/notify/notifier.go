// Package notify emits fire-and-forget events about order activity. Emission
// never blocks order processing and its failures never propagate to callers.
package notify

import (
	"context"
	"log/slog"
	"time"
)

type Notifier interface {
	// Emit delivers the event best-effort. Delivery failures are logged,
	// never surfaced to the caller.
	Emit(ctx context.Context, e Event)
}

// LogNotifier writes events to the structured log. Used when no broker is
// configured (dev, tests).
type LogNotifier struct{}

func (LogNotifier) Emit(_ context.Context, e Event) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	slog.Info("notification",
		slog.String("type", e.Type),
		slog.String("message", e.Message),
		slog.String("actor_id", e.ActorID),
	)
}
