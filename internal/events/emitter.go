package events

import (
	"context"
	"log/slog"

	"assetgate/pkg/requestcontext"
)

// Emitter wraps a Publisher with the policy domain code relies on: events are
// emitted after a mutation is applied, and a publish failure is logged, never
// propagated. An applied mutation is not unwound because a sink is down.
type Emitter struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewEmitter builds an emitter. A nil publisher falls back to Noop; a nil
// logger falls back to slog.Default.
func NewEmitter(publisher Publisher, logger *slog.Logger) *Emitter {
	if publisher == nil {
		publisher = Noop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Emitter{publisher: publisher, logger: logger}
}

// Emit stamps the event with request-scoped time and correlation ID and
// publishes it.
func (e *Emitter) Emit(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if err := e.publisher.Publish(ctx, event); err != nil {
		e.logger.Warn("event publish failed",
			"action", string(event.Action),
			"asset_id", event.AssetID.String(),
			"error", err)
	}
}
