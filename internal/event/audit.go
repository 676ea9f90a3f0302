package event

import (
	"context"
	"log/slog"
)

// AuditLogger writes every bus event to the structured log.
type AuditLogger struct {
	log *slog.Logger
}

func NewAuditLogger(log *slog.Logger) *AuditLogger {
	if log == nil {
		log = slog.Default()
	}
	return &AuditLogger{log: log.With("component", "audit")}
}

// Run consumes events until ctx is done or the subscription is closed.
func (a *AuditLogger) Run(ctx context.Context, bus Bus) {
	events, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			a.log.Info("audit event",
				"event_id", e.ID,
				"type", string(e.Type),
				"actor", e.ActorID,
				"payload", e.Payload,
			)
		}
	}
}
