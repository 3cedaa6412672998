package events

import (
	"context"

	"go.uber.org/zap"
)

// Wildcard subscribes a listener to every event name.
const Wildcard = "*"

// Listener reacts to a dispatched event.
type Listener func(ctx context.Context, event *Event) error

// Dispatcher runs registered listeners synchronously, in registration order.
// Listeners are registered at startup and never afterwards.
type Dispatcher struct {
	listeners map[string][]Listener
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		listeners: make(map[string][]Listener),
	}
}

func (d *Dispatcher) Listen(eventName string, listener Listener) {
	d.listeners[eventName] = append(d.listeners[eventName], listener)
}

// Dispatch delivers each event to its listeners. A failing listener is logged
// and does not prevent the others from running.
func (d *Dispatcher) Dispatch(ctx context.Context, evs ...*Event) {
	for _, event := range evs {
		if event == nil {
			continue
		}

		listeners := make([]Listener, 0, len(d.listeners[event.Event])+len(d.listeners[Wildcard]))
		listeners = append(listeners, d.listeners[event.Event]...)
		listeners = append(listeners, d.listeners[Wildcard]...)

		for _, listener := range listeners {
			if err := listener(ctx, event); err != nil {
				zap.L().Error("Event listener failed",
					zap.String("event", event.Event),
					zap.String("traceId", event.TraceID),
					zap.Error(err),
				)
			}
		}
	}
}
