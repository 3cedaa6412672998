package events

import "context"

// Publisher hands events to the broker. The API forwards product events and
// queues low-stock notifications through it.
type Publisher interface {
	Publish(ctx context.Context, exchange string, event *Event, headers Headers) error
	Close() error
}
