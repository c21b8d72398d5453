package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/smazurov/camview/internal/events"
)

// eventTypes maps SSE event names to payload types.
var eventTypes = map[string]any{
	"capture-state":     events.CaptureStateEvent{},
	"parameter-changed": events.ParameterChangedEvent{},
	"snapshot-saved":    events.SnapshotSavedEvent{},
	"snapshot-error":    events.SnapshotErrorEvent{},
	"selection-changed": events.SelectionChangedEvent{},
	"view-changed":      events.ViewChangedEvent{},
	"usage-error":       events.UsageErrorEvent{},
	"device-changed":    events.DeviceChangedEvent{},
}

// registerSSERoutes registers the native Huma SSE endpoint.
func (s *Server) registerSSERoutes() {
	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Server-Sent Events Stream",
		Description: "Real-time stream of capture, parameter, selection, view and snapshot events",
		Tags:        []string{"events"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, eventTypes, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		eventCh := make(chan any, 32)
		unsubscribe := events.SubscribeAll(s.eventBus, eventCh)
		defer unsubscribe()

		// The current view state doubles as the connection confirmation.
		if s.viewer != nil {
			st := s.viewer.State()
			if err := send.Data(events.ViewChangedEvent{
				Rotation:  st.Rotation,
				FlipV:     st.FlipVertical,
				FlipH:     st.FlipHorizontal,
				Mode:      st.Mode.String(),
				Timestamp: time.Now().Format(time.RFC3339),
			}); err != nil {
				return
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case event := <-eventCh:
				if err := send.Data(event); err != nil {
					return
				}
			}
		}
	})
}
