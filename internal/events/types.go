package events

// Event type constants for kelindar/event.
const (
	TypeCaptureState uint32 = iota + 1
	TypeParameterChanged
	TypeSnapshotSaved
	TypeSnapshotError
	TypeSelectionChanged
	TypeViewChanged
	TypeUsageError
	TypeLogEntry
	TypeDeviceChanged
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// CaptureStateEvent is published when the capture worker starts or stops.
type CaptureStateEvent struct {
	Device    string `json:"device" example:"/dev/video0" doc:"Capture device"`
	State     string `json:"state" example:"started" enum:"started,stopped" doc:"Worker state"`
	Format    string `json:"format,omitempty" example:"MJPG" doc:"Negotiated pixel format"`
	Width     int    `json:"width,omitempty" example:"1920" doc:"Negotiated frame width"`
	Height    int    `json:"height,omitempty" example:"1080" doc:"Negotiated frame height"`
	Frames    uint64 `json:"frames" example:"1200" doc:"Frames published so far"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for CaptureStateEvent.
func (e CaptureStateEvent) Type() uint32 { return TypeCaptureState }

// ParameterChangedEvent reports a capture parameter set attempt.
type ParameterChangedEvent struct {
	Param     string  `json:"param" example:"brightness" doc:"Parameter name"`
	Value     float64 `json:"value" example:"0.5" doc:"Requested value"`
	OK        bool    `json:"ok" doc:"Whether the device accepted the value"`
	Timestamp string  `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for ParameterChangedEvent.
func (e ParameterChangedEvent) Type() uint32 { return TypeParameterChanged }

// SnapshotSavedEvent is published after an image file was written.
type SnapshotSavedEvent struct {
	Path      string `json:"path" example:"/home/user/image_001.png" doc:"Written file"`
	Next      string `json:"next" example:"/home/user/image_002.png" doc:"Next save target"`
	Width     int    `json:"width" example:"1920" doc:"Image width"`
	Height    int    `json:"height" example:"1080" doc:"Image height"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for SnapshotSavedEvent.
func (e SnapshotSavedEvent) Type() uint32 { return TypeSnapshotSaved }

// SnapshotErrorEvent is published when a save failed.
type SnapshotErrorEvent struct {
	Path      string `json:"path" example:"/home/user/image_001.png" doc:"Attempted target"`
	Error     string `json:"error" example:"no frame available" doc:"Failure description"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for SnapshotErrorEvent.
func (e SnapshotErrorEvent) Type() uint32 { return TypeSnapshotError }

// SelectionChangedEvent reports an ROI, zoom or crop rectangle update in image space.
type SelectionChangedEvent struct {
	Kind      string `json:"kind" example:"roi" enum:"roi,zoom,crop" doc:"Which rectangle changed"`
	Cleared   bool   `json:"cleared,omitempty" doc:"True when the rectangle was removed"`
	X1        int    `json:"x1" doc:"First corner x"`
	Y1        int    `json:"y1" doc:"First corner y"`
	X2        int    `json:"x2" doc:"Second corner x"`
	Y2        int    `json:"y2" doc:"Second corner y"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for SelectionChangedEvent.
func (e SelectionChangedEvent) Type() uint32 { return TypeSelectionChanged }

// ViewChangedEvent carries orientation and mode after a view mutation.
type ViewChangedEvent struct {
	Rotation  int    `json:"rotation" example:"1" doc:"Quarter turns counter-clockwise"`
	FlipV     bool   `json:"flip_vertical" doc:"Rows mirrored"`
	FlipH     bool   `json:"flip_horizontal" doc:"Columns mirrored"`
	Mode      string `json:"mode" example:"roi" enum:"none,roi,zoom" doc:"Active pointer mode"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for ViewChangedEvent.
func (e ViewChangedEvent) Type() uint32 { return TypeViewChanged }

// UsageErrorEvent reports a rejected user action.
type UsageErrorEvent struct {
	Action    string `json:"action" example:"pointer" doc:"Rejected action"`
	Message   string `json:"message" example:"no selection mode active" doc:"Reason"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for UsageErrorEvent.
func (e UsageErrorEvent) Type() uint32 { return TypeUsageError }

// DeviceChangedEvent reports a capture device appearing, disappearing or
// changing identity.
type DeviceChangedEvent struct {
	Action     string `json:"action" example:"added" enum:"added,removed,changed" doc:"What happened to the device"`
	DevicePath string `json:"device_path" example:"/dev/video0" doc:"Device node"`
	DeviceName string `json:"device_name" example:"HD Pro Webcam C920" doc:"Driver reported name"`
	DeviceID   string `json:"device_id,omitempty" example:"usb-046d_HD_Pro_Webcam_C920-video-index0" doc:"Stable /dev/v4l/by-id name"`
	Timestamp  string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for DeviceChangedEvent.
func (e DeviceChangedEvent) Type() uint32 { return TypeDeviceChanged }

// LogEntryEvent represents a log entry for SSE streaming.
type LogEntryEvent struct {
	Seq        uint64         `json:"seq" example:"42" doc:"Monotonic sequence number for deduplication"`
	Timestamp  string         `json:"timestamp" example:"2025-01-09T10:30:00.123Z" doc:"Log timestamp"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"view" doc:"Source module"`
	Message    string         `json:"message" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured log attributes"`
}

// Type returns the event type identifier for LogEntryEvent.
func (e LogEntryEvent) Type() uint32 { return TypeLogEntry }
