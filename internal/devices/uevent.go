package devices

import (
	"bytes"
	"errors"
	"strings"
)

// ErrHotplugUnsupported is returned by the monitor on systems without
// kernel uevents.
var ErrHotplugUnsupported = errors.New("device hotplug monitoring not supported on this platform")

// SubsystemVideo4Linux is the uevent subsystem of V4L2 nodes.
const SubsystemVideo4Linux = "video4linux"

// UEvent is a kernel device event.
type UEvent struct {
	Action    string // add, remove, change, bind, ...
	KObj      string // /devices/pci0000:00/...
	Subsystem string
	DevName   string // video0
	Env       map[string]string
}

// ParseUEvent decodes a kernel uevent datagram of the form
// "ACTION@KOBJ\0KEY=VALUE\0...". Messages rebroadcast by udevd carry a
// binary "libudev" header and are rejected; the kernel sends the same event
// on its own group.
func ParseUEvent(data []byte) (UEvent, bool) {
	if len(data) == 0 || bytes.HasPrefix(data, []byte("libudev")) {
		return UEvent{}, false
	}

	parts := bytes.Split(data, []byte{0})
	header := string(parts[0])
	action, kobj, ok := strings.Cut(header, "@")
	if !ok || action == "" {
		return UEvent{}, false
	}

	ev := UEvent{Action: action, KObj: kobj, Env: make(map[string]string)}
	for _, part := range parts[1:] {
		key, value, ok := strings.Cut(string(part), "=")
		if !ok || key == "" {
			continue
		}
		ev.Env[key] = value
		switch key {
		case "SUBSYSTEM":
			ev.Subsystem = value
		case "DEVNAME":
			ev.DevName = value
		}
	}
	return ev, true
}
