package consumers

import (
	"catalog/pkg/events"
	"context"

	"go.uber.org/zap"
)

// ProductEventHandler keeps an audit trail of product changes published by
// the API.
type ProductEventHandler struct {
	logger *zap.Logger
}

func NewProductEventHandler(logger *zap.Logger) *ProductEventHandler {
	return &ProductEventHandler{
		logger: logger,
	}
}

type productChange struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func (h *ProductEventHandler) HandleEvent(_ context.Context, event *events.Event) error {
	switch event.Event {
	case events.ProductCreatedEvent, events.ProductUpdatedEvent, events.ProductDeletedEvent:
	default:
		h.logger.Warn("Unknown product event type", zap.String("event", event.Event))
		return nil
	}

	var change productChange
	if err := event.DecodePayload(&change); err != nil {
		return err
	}

	h.logger.Info("Product change recorded",
		zap.String("event", event.Event),
		zap.Uint("productId", change.ID),
		zap.String("productName", change.Name),
		zap.Time("occurredAt", event.Timestamp),
		zap.String("traceId", event.TraceID),
		zap.String("correlationId", event.CorrelationID),
	)

	return nil
}
