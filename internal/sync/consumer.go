package sync

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/astropet/platform/internal/domain"
	"github.com/astropet/platform/internal/infra"
	"github.com/astropet/platform/internal/reconciler"
)

// changeEvent is the envelope published by the outbox relay.
type changeEvent struct {
	EventID       string          `json:"event_id"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     string          `json:"event_type"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// Consumer subscribes to authority change events and reacts by reloading
// the affected entity kind wholesale. The event's payload is never merged
// into state; it only names what went stale.
type Consumer struct {
	reader *infra.FeedReader
	engine *reconciler.Engine
	logger *slog.Logger
}

// NewConsumer creates a change-event consumer.
func NewConsumer(reader *infra.FeedReader, engine *reconciler.Engine, logger *slog.Logger) *Consumer {
	return &Consumer{reader: reader, engine: engine, logger: logger}
}

// Run consumes until ctx is cancelled. Malformed events and failed reloads
// are logged and skipped; the stream keeps moving.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error("read change event", "error", err)
			continue
		}

		var event changeEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.logger.Warn("malformed change event dropped", "offset", msg.Offset, "error", err)
			continue
		}

		kind := domain.AggregateType(event.AggregateType)
		c.logger.Debug("change event received",
			"kind", kind, "event_type", event.EventType, "aggregate_id", event.AggregateID)

		if err := c.engine.ReloadKind(ctx, kind); err != nil {
			c.logger.Error("reload after change event failed", "kind", kind, "error", err)
		}
	}
}
