package devices

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func fakeSysfs(t *testing.T) *Detector {
	t.Helper()
	root := t.TempDir()
	sysfs := filepath.Join(root, "sys")
	byID := filepath.Join(root, "by-id")
	dev := filepath.Join(root, "dev")

	for node, name := range map[string]string{
		"video0": "HD Webcam",
		"video1": "HD Webcam",
		"video2": "Capture Card",
	} {
		dir := filepath.Join(sysfs, node)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "name"), []byte(name+"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(filepath.Join(sysfs, "vbi0"), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := os.MkdirAll(byID, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink("../../video0", filepath.Join(byID, "usb-Acme_HD_Webcam-video-index0")); err != nil {
		t.Fatal(err)
	}

	return &Detector{
		SysfsRoot: sysfs,
		ByIDDir:   byID,
		DevDir:    dev,
		Probe: func(path string) bool {
			// video1 is the UVC metadata node.
			return filepath.Base(path) != "video1"
		},
	}
}

func TestFindDevices(t *testing.T) {
	d := fakeSysfs(t)

	devs, err := d.FindDevices()
	if err != nil {
		t.Fatal(err)
	}
	if len(devs) != 2 {
		t.Fatalf("found %d devices, want 2: %+v", len(devs), devs)
	}

	if devs[0].Index != 0 || devs[0].DeviceName != "HD Webcam" {
		t.Errorf("first device = %+v", devs[0])
	}
	if devs[0].DeviceID != "usb-Acme_HD_Webcam-video-index0" {
		t.Errorf("DeviceID = %q", devs[0].DeviceID)
	}
	if devs[0].DevicePath != filepath.Join(d.DevDir, "video0") {
		t.Errorf("DevicePath = %q", devs[0].DevicePath)
	}
	if devs[1].Index != 2 || devs[1].DeviceID != "" {
		t.Errorf("second device = %+v", devs[1])
	}
}

func TestFindDevicesMissingSysfs(t *testing.T) {
	d := &Detector{SysfsRoot: filepath.Join(t.TempDir(), "absent")}
	devs, err := d.FindDevices()
	if err != nil || len(devs) != 0 {
		t.Errorf("got %v, %v; want empty, nil", devs, err)
	}
}

func TestResolveDevicePath(t *testing.T) {
	tests := []struct {
		spec    string
		want    string
		wantErr bool
	}{
		{"0", "/dev/video0", false},
		{" 12 ", "/dev/video12", false},
		{"/dev/video3", "/dev/video3", false},
		{"/dev/v4l/by-id/usb-cam-video-index0", "/dev/v4l/by-id/usb-cam-video-index0", false},
		{"-1", "", true},
		{"", "", true},
		{"usb-definitely-not-present-camview", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := ResolveDevicePath(tt.spec)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSelect(t *testing.T) {
	devs := []DeviceInfo{
		{DevicePath: "/dev/video0", DeviceName: "front"},
		{DevicePath: "/dev/video2", DeviceName: "rear"},
	}

	tests := []struct {
		name    string
		devs    []DeviceInfo
		input   string
		want    string
		wantErr error
	}{
		{"none", nil, "", "", ErrNoDevices},
		{"single skips prompt", devs[:1], "", "/dev/video0", nil},
		{"explicit choice", devs, "1\n", "/dev/video2", nil},
		{"empty answer picks first", devs, "\n", "/dev/video0", nil},
		{"eof picks first", devs, "", "/dev/video0", nil},
		{"retry after invalid", devs, "7\nabc\n1\n", "/dev/video2", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := Select(tt.devs, strings.NewReader(tt.input), &out)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got.DevicePath != tt.want {
				t.Errorf("got %s, want %s", got.DevicePath, tt.want)
			}
		})
	}
}

func TestSelectInvalidAtEOF(t *testing.T) {
	devs := []DeviceInfo{{DevicePath: "/dev/video0"}, {DevicePath: "/dev/video1"}}
	var out bytes.Buffer
	if _, err := Select(devs, strings.NewReader("9"), &out); err == nil {
		t.Error("invalid final answer without newline should fail")
	}
	if !strings.Contains(out.String(), `Invalid choice "9"`) {
		t.Errorf("prompt output = %q", out.String())
	}
}

func TestSelectLeavesLaterInputInSharedReader(t *testing.T) {
	devs := []DeviceInfo{{DevicePath: "/dev/video0"}, {DevicePath: "/dev/video2"}}
	in := bufio.NewReader(strings.NewReader("1\nq\n"))

	var out bytes.Buffer
	got, err := Select(devs, in, &out)
	if err != nil {
		t.Fatal(err)
	}
	if got.DevicePath != "/dev/video2" {
		t.Errorf("selected %q", got.DevicePath)
	}

	rest, _ := io.ReadAll(in)
	if string(rest) != "q\n" {
		t.Errorf("remaining input = %q, want the quit line", rest)
	}
}
