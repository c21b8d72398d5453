package devices

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/smazurov/camview/internal/events"
	"github.com/smazurov/camview/internal/logging"
)

// Change actions.
const (
	ActionAdded   = "added"
	ActionRemoved = "removed"
	ActionChanged = "changed"
)

// DefaultSettle is how long the monitor waits after a kernel add event
// before rescanning, so by-id links and names exist.
const DefaultSettle = time.Second

// Change is one difference between two device listings.
type Change struct {
	Action string
	Device DeviceInfo
}

// Publisher receives device change events. *events.Bus satisfies it.
type Publisher interface {
	Publish(ev events.Event)
}

// Monitor rescans capture devices whenever the kernel reports a
// video4linux add or remove and publishes what changed.
type Monitor struct {
	find   func() ([]DeviceInfo, error)
	listen func(ctx context.Context, subsystem string, out chan<- UEvent) error
	bus    Publisher
	settle time.Duration
	logger *slog.Logger

	mu   sync.Mutex
	last map[string]DeviceInfo
}

// MonitorOption configures a Monitor.
type MonitorOption func(*Monitor)

// WithFinder replaces the device enumeration.
func WithFinder(find func() ([]DeviceInfo, error)) MonitorOption {
	return func(m *Monitor) {
		m.find = find
	}
}

// WithSettle sets the delay between an add event and the rescan.
func WithSettle(d time.Duration) MonitorOption {
	return func(m *Monitor) {
		m.settle = d
	}
}

// withListener replaces the kernel uevent source.
func withListener(listen func(ctx context.Context, subsystem string, out chan<- UEvent) error) MonitorOption {
	return func(m *Monitor) {
		m.listen = listen
	}
}

// NewMonitor creates a hotplug monitor publishing to bus.
func NewMonitor(bus Publisher, opts ...MonitorOption) *Monitor {
	m := &Monitor{
		find:   FindDevices,
		listen: listenUEvents,
		bus:    bus,
		settle: DefaultSettle,
		logger: logging.GetLogger("devices"),
		last:   make(map[string]DeviceInfo),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run takes an initial inventory, then follows kernel events until ctx is
// done. It returns ErrHotplugUnsupported where uevents are unavailable.
func (m *Monitor) Run(ctx context.Context) error {
	// Seed without publishing so startup does not report every camera as added.
	if devs, err := m.find(); err != nil {
		m.logger.Warn("Initial device scan failed", "error", err)
	} else {
		m.mu.Lock()
		m.last = keyed(devs)
		m.mu.Unlock()
		m.logger.Debug("Device monitor initialized", "devices", len(devs))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch := make(chan UEvent, 16)
	errCh := make(chan error, 1)
	go func() {
		errCh <- m.listen(ctx, SubsystemVideo4Linux, ch)
	}()

	for {
		select {
		case err := <-errCh:
			return err
		case ev := <-ch:
			if ev.Action != "add" && ev.Action != "remove" {
				continue
			}
			m.logger.Debug("Kernel device event", "action", ev.Action, "device", ev.DevName)
			if ev.Action == "add" && m.settle > 0 {
				select {
				case <-time.After(m.settle):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			m.Rescan()
		}
	}
}

// Rescan enumerates devices, publishes a DeviceChangedEvent per difference
// from the previous scan and returns the differences.
func (m *Monitor) Rescan() []Change {
	devs, err := m.find()
	if err != nil {
		m.logger.Warn("Device rescan failed", "error", err)
		return nil
	}

	current := keyed(devs)
	m.mu.Lock()
	changes := diff(m.last, current)
	m.last = current
	m.mu.Unlock()

	now := time.Now().Format(time.RFC3339)
	for _, c := range changes {
		m.logger.Info("Capture device "+c.Action,
			"path", c.Device.DevicePath,
			"name", c.Device.DeviceName,
			"id", c.Device.DeviceID)
		if m.bus != nil {
			m.bus.Publish(events.DeviceChangedEvent{
				Action:     c.Action,
				DevicePath: c.Device.DevicePath,
				DeviceName: c.Device.DeviceName,
				DeviceID:   c.Device.DeviceID,
				Timestamp:  now,
			})
		}
	}
	return changes
}

// Diff compares two listings by stable identity. The by-id name is used
// when present, otherwise the device node.
func Diff(prev, cur []DeviceInfo) []Change {
	return diff(keyed(prev), keyed(cur))
}

func diff(prev, cur map[string]DeviceInfo) []Change {
	var changes []Change
	for key, old := range prev {
		if _, ok := cur[key]; !ok {
			changes = append(changes, Change{Action: ActionRemoved, Device: old})
		}
	}
	for key, dev := range cur {
		old, ok := prev[key]
		switch {
		case !ok:
			changes = append(changes, Change{Action: ActionAdded, Device: dev})
		case old != dev:
			changes = append(changes, Change{Action: ActionChanged, Device: dev})
		}
	}
	sort.Slice(changes, func(i, j int) bool {
		if changes[i].Device.Index != changes[j].Device.Index {
			return changes[i].Device.Index < changes[j].Device.Index
		}
		return changes[i].Action < changes[j].Action
	})
	return changes
}

func keyed(devs []DeviceInfo) map[string]DeviceInfo {
	out := make(map[string]DeviceInfo, len(devs))
	for _, d := range devs {
		out[identity(d)] = d
	}
	return out
}

func identity(d DeviceInfo) string {
	if d.DeviceID != "" {
		return d.DeviceID
	}
	return d.DevicePath
}
