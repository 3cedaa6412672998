package notification

import (
	"catalog/pkg/events"
	"context"
)

// BrokerSender queues notifications on the broker for the worker to deliver.
type BrokerSender struct {
	publisher events.Publisher
	service   string
}

func NewBrokerSender(publisher events.Publisher, service string) *BrokerSender {
	return &BrokerSender{
		publisher: publisher,
		service:   service,
	}
}

func (s *BrokerSender) SendLowStock(ctx context.Context, msg LowStockMessage) error {
	headers := events.NewHeaders(s.service)
	event := events.NewEvent(events.LowStockNotificationEvent, events.EventVersionV1, msg, headers)

	return s.publisher.Publish(ctx, events.NotificationExchange, event, headers)
}
