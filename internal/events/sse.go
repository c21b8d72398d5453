package events

import "github.com/kelindar/event"

// SubscribeToChannel bridges callback subscriptions to a channel for huma's
// SSE select loop. Events are dropped when ch is full.
func SubscribeToChannel[T Event](bus *Bus, ch chan<- any) func() {
	return event.Subscribe(bus.dispatcher, func(e T) {
		select {
		case ch <- e:
		default:
		}
	})
}

// SubscribeAll bridges every UI-facing event type to ch and returns a single
// unsubscribe function. Log entries are excluded; they have their own stream.
func SubscribeAll(bus *Bus, ch chan<- any) func() {
	unsubs := []func(){
		SubscribeToChannel[CaptureStateEvent](bus, ch),
		SubscribeToChannel[ParameterChangedEvent](bus, ch),
		SubscribeToChannel[SnapshotSavedEvent](bus, ch),
		SubscribeToChannel[SnapshotErrorEvent](bus, ch),
		SubscribeToChannel[SelectionChangedEvent](bus, ch),
		SubscribeToChannel[ViewChangedEvent](bus, ch),
		SubscribeToChannel[UsageErrorEvent](bus, ch),
		SubscribeToChannel[DeviceChangedEvent](bus, ch),
	}
	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}
