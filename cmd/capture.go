package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/smazurov/camview/internal/capture"
	"github.com/smazurov/camview/internal/devices"
)

// CaptureSettings are the capture options shared by the viewer and the
// subcommands.
type CaptureSettings struct {
	Device   string
	Width    int
	Height   int
	FPS      int
	Format   string
	SavePath string
}

// OpenOptions converts the settings for capture.Open, keeping defaults for
// unset values.
func (s CaptureSettings) OpenOptions() capture.OpenOptions {
	opts := capture.DefaultOpenOptions()
	if s.Width > 0 {
		opts.Width = s.Width
	}
	if s.Height > 0 {
		opts.Height = s.Height
	}
	if s.FPS > 0 {
		opts.FPS = float64(s.FPS)
	}
	if f := strings.TrimSpace(s.Format); f != "" {
		opts.Format = f
	}
	return opts
}

// ChooseDevice returns spec unchanged when set. Otherwise it enumerates
// cameras and, when several exist, asks on out which one to use.
func ChooseDevice(spec string, in io.Reader, out io.Writer) (string, error) {
	if spec = strings.TrimSpace(spec); spec != "" {
		return spec, nil
	}

	found, err := devices.FindDevices()
	if err != nil {
		return "", fmt.Errorf("%w: %w", capture.ErrDeviceUnavailable, err)
	}
	dev, err := devices.Select(found, in, out)
	if err != nil {
		return "", fmt.Errorf("%w: %w", capture.ErrDeviceUnavailable, err)
	}
	return dev.DevicePath, nil
}
