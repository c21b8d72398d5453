//go:build !linux

package capture

import "github.com/pkg/errors"

func openWebcam(path string, _ OpenOptions) (Device, error) {
	return nil, errors.Errorf("v4l2 capture is only available on linux, cannot open %s", path)
}
