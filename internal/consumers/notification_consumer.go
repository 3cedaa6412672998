package consumers

import (
	"catalog/domain"
	"catalog/pkg/events"
	"catalog/pkg/notification"
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ProductReader looks up the current state of a product.
type ProductReader interface {
	Get(ctx context.Context, id uint) (domain.Product, error)
}

type NotificationEventHandler struct {
	products ProductReader
	sender   notification.Sender
}

func NewNotificationEventHandler(products ProductReader, sender notification.Sender) *NotificationEventHandler {
	return &NotificationEventHandler{
		products: products,
		sender:   sender,
	}
}

func (h *NotificationEventHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	zap.L().Info("Notification event received",
		zap.String("event", event.Event),
		zap.String("version", event.Version),
		zap.String("traceId", event.TraceID),
	)

	switch event.Event {
	case events.LowStockNotificationEvent:
		return h.handleLowStock(ctx, event)
	default:
		zap.L().Warn("Unknown notification event type", zap.String("event", event.Event))
		return nil
	}
}

// handleLowStock delivers the alert with the product's current stock. Alerts
// for products deleted in the meantime are dropped.
func (h *NotificationEventHandler) handleLowStock(ctx context.Context, event *events.Event) error {
	var msg notification.LowStockMessage
	if err := event.DecodePayload(&msg); err != nil {
		return err
	}

	if msg.ProductID == 0 {
		return fmt.Errorf("malformed payload - product_id missing or invalid")
	}
	if msg.Recipient.Email == "" {
		return fmt.Errorf("malformed payload - recipient email missing")
	}

	product, err := h.products.Get(ctx, msg.ProductID)
	if errors.Is(err, domain.ErrNotFound) {
		zap.L().Info("Product no longer exists, dropping low stock notification",
			zap.Uint("productId", msg.ProductID),
			zap.String("traceId", event.TraceID),
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get product: %w", err)
	}

	msg.ProductName = product.Name
	msg.Stock = product.Stock

	return h.sender.SendLowStock(ctx, msg)
}
