package events

import (
	"github.com/kelindar/event"
)

// Bus wraps a kelindar/event dispatcher for in-process broadcasting.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish publishes an event to all subscribers of its concrete type.
// Usage: bus.Publish(SnapshotSavedEvent{...})
func (b *Bus) Publish(ev Event) {
	switch e := ev.(type) {
	case CaptureStateEvent:
		event.Publish(b.dispatcher, e)
	case ParameterChangedEvent:
		event.Publish(b.dispatcher, e)
	case SnapshotSavedEvent:
		event.Publish(b.dispatcher, e)
	case SnapshotErrorEvent:
		event.Publish(b.dispatcher, e)
	case SelectionChangedEvent:
		event.Publish(b.dispatcher, e)
	case ViewChangedEvent:
		event.Publish(b.dispatcher, e)
	case UsageErrorEvent:
		event.Publish(b.dispatcher, e)
	case LogEntryEvent:
		event.Publish(b.dispatcher, e)
	case DeviceChangedEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe registers a handler; its parameter type selects the events it
// receives. Returns an unsubscribe function, a no-op for unknown handler types.
// Usage: unsub := bus.Subscribe(func(e SnapshotSavedEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(CaptureStateEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(ParameterChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(SnapshotSavedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(SnapshotErrorEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(SelectionChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(ViewChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(UsageErrorEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(LogEntryEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(DeviceChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}
