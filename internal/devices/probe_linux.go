//go:build linux

package devices

import "github.com/blackjack/webcam"

// probeCapture opens the node and checks it offers at least one capture format.
// Metadata nodes that UVC drivers expose next to the capture node fail here.
func probeCapture(path string) bool {
	cam, err := webcam.Open(path)
	if err != nil {
		return false
	}
	defer cam.Close()
	return len(cam.GetSupportedFormats()) > 0
}
