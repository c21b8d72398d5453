package devices

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/smazurov/camview/internal/events"
)

type recordingBus struct {
	mu     sync.Mutex
	events []events.DeviceChangedEvent
}

func (b *recordingBus) Publish(ev events.Event) {
	if e, ok := ev.(events.DeviceChangedEvent); ok {
		b.mu.Lock()
		b.events = append(b.events, e)
		b.mu.Unlock()
	}
}

func (b *recordingBus) snapshot() []events.DeviceChangedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]events.DeviceChangedEvent(nil), b.events...)
}

var (
	usbCam  = DeviceInfo{DevicePath: "/dev/video0", DeviceName: "HD Webcam", DeviceID: "usb-Acme-video-index0", Index: 0}
	capCard = DeviceInfo{DevicePath: "/dev/video2", DeviceName: "Capture Card", Index: 2}
)

func TestDiff(t *testing.T) {
	moved := usbCam
	moved.DevicePath = "/dev/video4"
	moved.Index = 4

	tests := []struct {
		name string
		prev []DeviceInfo
		cur  []DeviceInfo
		want []Change
	}{
		{"no change", []DeviceInfo{usbCam}, []DeviceInfo{usbCam}, nil},
		{"added", []DeviceInfo{usbCam}, []DeviceInfo{usbCam, capCard}, []Change{{ActionAdded, capCard}}},
		{"removed", []DeviceInfo{usbCam, capCard}, []DeviceInfo{capCard}, []Change{{ActionRemoved, usbCam}}},
		// Same by-id name on a new node is the same camera.
		{"replugged", []DeviceInfo{usbCam}, []DeviceInfo{moved}, []Change{{ActionChanged, moved}}},
		{
			name: "swap",
			prev: []DeviceInfo{usbCam},
			cur:  []DeviceInfo{capCard},
			want: []Change{{ActionRemoved, usbCam}, {ActionAdded, capCard}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.prev, tt.cur)
			if len(got) != len(tt.want) {
				t.Fatalf("Diff = %+v, want %+v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("change %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseUEvent(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		wantOK bool
		want   UEvent
	}{
		{
			name:   "kernel add",
			data:   "add@/devices/pci0000:00/usb1/1-1/video4linux/video0\x00ACTION=add\x00SUBSYSTEM=video4linux\x00DEVNAME=video0\x00SEQNUM=42\x00",
			wantOK: true,
			want:   UEvent{Action: "add", KObj: "/devices/pci0000:00/usb1/1-1/video4linux/video0", Subsystem: "video4linux", DevName: "video0"},
		},
		{name: "empty", data: "", wantOK: false},
		{name: "udev rebroadcast", data: "libudev\x00\xfe\xed", wantOK: false},
		{name: "no action", data: "@/devices/x\x00", wantOK: false},
		{name: "no separator", data: "garbage\x00", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseUEvent([]byte(tt.data))
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.Action != tt.want.Action || got.KObj != tt.want.KObj ||
				got.Subsystem != tt.want.Subsystem || got.DevName != tt.want.DevName {
				t.Errorf("event = %+v, want %+v", got, tt.want)
			}
			if got.Env["SEQNUM"] != "42" {
				t.Errorf("env = %v", got.Env)
			}
		})
	}
}

// scripted serves successive device listings.
type scripted struct {
	mu    sync.Mutex
	lists [][]DeviceInfo
}

func (s *scripted) find() ([]DeviceInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.lists) == 0 {
		return nil, errors.New("exhausted")
	}
	cur := s.lists[0]
	if len(s.lists) > 1 {
		s.lists = s.lists[1:]
	}
	return cur, nil
}

func TestMonitorPublishesHotplug(t *testing.T) {
	src := &scripted{lists: [][]DeviceInfo{
		{usbCam},
		{usbCam, capCard},
		{capCard},
	}}
	bus := &recordingBus{}
	uevents := make(chan UEvent)

	m := NewMonitor(bus,
		WithFinder(src.find),
		WithSettle(0),
		withListener(func(ctx context.Context, subsystem string, out chan<- UEvent) error {
			if subsystem != SubsystemVideo4Linux {
				t.Errorf("subsystem = %q", subsystem)
			}
			for {
				select {
				case ev := <-uevents:
					out <- ev
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	uevents <- UEvent{Action: "change", Subsystem: SubsystemVideo4Linux}
	uevents <- UEvent{Action: "add", Subsystem: SubsystemVideo4Linux, DevName: "video2"}
	uevents <- UEvent{Action: "remove", Subsystem: SubsystemVideo4Linux, DevName: "video0"}

	deadline := time.Now().Add(2 * time.Second)
	for len(bus.snapshot()) < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want context.Canceled", err)
	}

	got := bus.snapshot()
	if len(got) != 2 {
		t.Fatalf("events = %+v, want added then removed", got)
	}
	if got[0].Action != ActionAdded || got[0].DevicePath != "/dev/video2" {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].Action != ActionRemoved || got[1].DeviceID != usbCam.DeviceID {
		t.Errorf("second = %+v", got[1])
	}
}

func TestMonitorListenerError(t *testing.T) {
	m := NewMonitor(nil,
		WithFinder(func() ([]DeviceInfo, error) { return nil, nil }),
		withListener(func(context.Context, string, chan<- UEvent) error {
			return ErrHotplugUnsupported
		}),
	)
	if err := m.Run(context.Background()); !errors.Is(err, ErrHotplugUnsupported) {
		t.Errorf("Run = %v", err)
	}
}
