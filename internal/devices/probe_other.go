//go:build !linux

package devices

func probeCapture(string) bool {
	return false
}
