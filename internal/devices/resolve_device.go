package devices

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ResolveDevicePath converts a device spec to a device node path. A spec is
// a numeric index ("0"), an absolute path, or a /dev/v4l/by-id or by-path name.
func ResolveDevicePath(spec string) (string, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return "", errors.New("empty device spec")
	}

	if n, err := strconv.Atoi(spec); err == nil {
		if n < 0 {
			return "", fmt.Errorf("invalid device index %d", n)
		}
		return "/dev/video" + spec, nil
	}

	if strings.HasPrefix(spec, "/") {
		return spec, nil
	}

	for _, dir := range []string{"/dev/v4l/by-id/", "/dev/v4l/by-path/"} {
		devicePath := dir + spec
		if _, err := os.Stat(devicePath); err == nil {
			return devicePath, nil
		}
	}

	return "", fmt.Errorf("no stable symlink found for device ID: %s", spec)
}
