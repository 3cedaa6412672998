// Package listeners holds the reactions to product events raised by the API.
package listeners

import (
	"catalog/pkg/events"
	"context"
	"fmt"

	"go.uber.org/zap"
)

var changeVerbs = map[string]string{
	events.ProductCreatedEvent: "created",
	events.ProductUpdatedEvent: "updated",
	events.ProductDeletedEvent: "deleted",
}

type productRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// LogProductChange writes one log line per product change.
func LogProductChange(logger *zap.Logger) events.Listener {
	return func(_ context.Context, event *events.Event) error {
		verb, ok := changeVerbs[event.Event]
		if !ok {
			return nil
		}

		var ref productRef
		if err := event.DecodePayload(&ref); err != nil {
			return err
		}

		logger.Info(fmt.Sprintf("Product %s: %s", verb, ref.Name),
			zap.Uint("productId", ref.ID),
			zap.String("traceId", event.TraceID),
		)
		return nil
	}
}

// ForwardTo republishes events on exchange, keeping their trace ids.
func ForwardTo(publisher events.Publisher, exchange, service string) events.Listener {
	return func(ctx context.Context, event *events.Event) error {
		headers := events.Headers{
			TraceID:       event.TraceID,
			CorrelationID: event.CorrelationID,
			Service:       service,
		}

		if err := publisher.Publish(ctx, exchange, event, headers); err != nil {
			return fmt.Errorf("failed to forward %s: %w", event.Event, err)
		}
		return nil
	}
}
