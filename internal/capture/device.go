package capture

import (
	"fmt"
	"time"

	"github.com/smazurov/camview/internal/devices"
	"github.com/smazurov/camview/internal/frame"
)

// PatternSpec selects the synthetic pattern device.
const PatternSpec = "test"

// Device is an open capture source.
type Device interface {
	// ReadFrame blocks until a frame is available or the device wait
	// elapses. Recoverable failures wrap ErrTransientRead.
	ReadFrame() (*frame.Frame, error)
	Get(p Param) float64
	Set(p Param, v float64) bool
	// Range reports the valid bounds of an adjustable control.
	Range(p Param) (lo, hi float64, ok bool)
	Info() Info
	Close() error
}

// Info describes the negotiated stream.
type Info struct {
	Path   string `json:"path" example:"/dev/video0" doc:"Device node"`
	Format string `json:"format" example:"MJPG" doc:"Pixel format FourCC"`
	Width  int    `json:"width" example:"1920" doc:"Frame width"`
	Height int    `json:"height" example:"1080" doc:"Frame height"`
}

// OpenOptions control format negotiation.
type OpenOptions struct {
	// Width and Height are the requested size; the driver clamps them to
	// the nearest supported size, so large values probe the maximum.
	Width  int
	Height int
	// FPS of 0 keeps the driver default.
	FPS float64
	// Format is "auto", "MJPG" or "YUYV". Auto prefers MJPG.
	Format string
	// Wait bounds a single frame wait.
	Wait        time.Duration
	BufferCount uint32
}

// DefaultOpenOptions requests the largest available size at the driver's
// default frame rate.
func DefaultOpenOptions() OpenOptions {
	return OpenOptions{
		Width:       3840,
		Height:      2160,
		FPS:         0,
		Format:      "auto",
		Wait:        time.Second,
		BufferCount: 4,
	}
}

// Open opens a capture device. spec is a device index ("0"), a device path,
// a /dev/v4l/by-id name, or PatternSpec.
func Open(spec string, opts OpenOptions) (Device, error) {
	if spec == PatternSpec {
		return NewPatternDevice(PatternOptions{Width: 640, Height: 480, Interval: 33 * time.Millisecond}), nil
	}

	path, err := devices.ResolveDevicePath(spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
	}

	dev, err := openWebcam(path, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDeviceUnavailable, path, err)
	}
	return dev, nil
}
