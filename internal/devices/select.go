package devices

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Select returns the only device, or prompts on out and reads a choice from
// in when several are present. An empty answer picks the first device.
// Pass a *bufio.Reader that later readers share; input read ahead of the
// answer then stays in it.
func Select(devs []DeviceInfo, in io.Reader, out io.Writer) (DeviceInfo, error) {
	switch len(devs) {
	case 0:
		return DeviceInfo{}, ErrNoDevices
	case 1:
		return devs[0], nil
	}

	fmt.Fprintf(out, "Found %d cameras:\n", len(devs))
	for i, dev := range devs {
		fmt.Fprintf(out, "  [%d] %s (%s)\n", i, dev.DeviceName, dev.DevicePath)
	}

	reader := bufio.NewReader(in)
	for {
		fmt.Fprintf(out, "Select camera [0]: ")
		line, err := reader.ReadString('\n')
		answer := strings.TrimSpace(line)
		if answer == "" {
			if err != nil && err != io.EOF {
				return DeviceInfo{}, fmt.Errorf("read selection: %w", err)
			}
			return devs[0], nil
		}

		n, convErr := strconv.Atoi(answer)
		if convErr == nil && n >= 0 && n < len(devs) {
			return devs[n], nil
		}
		fmt.Fprintf(out, "Invalid choice %q\n", answer)
		if err != nil {
			return DeviceInfo{}, fmt.Errorf("no valid selection: %w", err)
		}
	}
}
