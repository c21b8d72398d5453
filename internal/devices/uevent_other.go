//go:build !linux

package devices

import "context"

func listenUEvents(context.Context, string, chan<- UEvent) error {
	return ErrHotplugUnsupported
}
