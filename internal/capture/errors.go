package capture

import "errors"

var (
	// ErrDeviceUnavailable is returned when the capture device cannot be opened.
	ErrDeviceUnavailable = errors.New("capture device unavailable")

	// ErrTransientRead marks a read that produced no usable frame this cycle
	// (timeout, empty buffer, undecodable data). The worker skips it.
	ErrTransientRead = errors.New("transient capture read failure")

	// ErrDeviceLost marks a read from a device that is gone, such as an
	// unplugged camera. It is the only read failure that ends capture.
	ErrDeviceLost = errors.New("capture device lost")
)
