// Package devices discovers V4L2 capture devices and resolves user-supplied
// device specs to device nodes.
package devices

import "errors"

// ErrNoDevices is returned when no capture device is present.
var ErrNoDevices = errors.New("no capture devices found")

// DeviceInfo describes a video capture node.
type DeviceInfo struct {
	DevicePath string `json:"device_path" example:"/dev/video0" doc:"Device node"`
	DeviceName string `json:"device_name" example:"HD Pro Webcam C920" doc:"Driver reported name"`
	DeviceID   string `json:"device_id,omitempty" example:"usb-046d_HD_Pro_Webcam_C920-video-index0" doc:"Stable /dev/v4l/by-id name"`
	Index      int    `json:"index" example:"0" doc:"Minor index under /dev/video*"`
}

// Detector enumerates capture devices.
type Detector struct {
	// SysfsRoot is the video4linux class directory.
	SysfsRoot string
	// ByIDDir holds stable symlinks to device nodes.
	ByIDDir string
	// DevDir holds the device nodes.
	DevDir string
	// Probe reports whether a node can capture frames. Nil accepts every node.
	Probe func(path string) bool
}

// NewDetector creates a detector for the running system.
func NewDetector() *Detector {
	return &Detector{
		SysfsRoot: "/sys/class/video4linux",
		ByIDDir:   "/dev/v4l/by-id",
		DevDir:    "/dev",
		Probe:     probeCapture,
	}
}

// FindDevices lists capture devices on the running system.
func FindDevices() ([]DeviceInfo, error) {
	return NewDetector().FindDevices()
}
