package capture

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/smazurov/camview/internal/events"
	"github.com/smazurov/camview/internal/frame"
	"github.com/smazurov/camview/internal/logging"
	"github.com/smazurov/camview/internal/metrics"
)

// EventPublisher receives capture events. *events.Bus satisfies it.
type EventPublisher interface {
	Publish(ev events.Event)
}

// Previewer shows frames without a window. Show returns true to request stop.
type Previewer interface {
	Show(f *frame.Frame) bool
}

// Worker owns a Device and publishes every successfully read frame to a Slot
// from its own goroutine.
type Worker struct {
	dev       Device
	slot      *frame.Slot
	bus       EventPublisher
	previewer Previewer
	logger    *slog.Logger

	stop    atomic.Bool
	started atomic.Bool
	done    chan struct{}
	err     error
	frames  atomic.Uint64
}

// Option configures a Worker.
type Option func(*Worker)

// WithEvents publishes capture state and parameter events to bus.
func WithEvents(bus EventPublisher) Option {
	return func(w *Worker) {
		w.bus = bus
	}
}

// WithPreviewer shows each published frame through p.
func WithPreviewer(p Previewer) Option {
	return func(w *Worker) {
		w.previewer = p
	}
}

// NewWorker creates a worker for an open device.
func NewWorker(dev Device, slot *frame.Slot, opts ...Option) *Worker {
	w := &Worker{
		dev:    dev,
		slot:   slot,
		logger: logging.GetLogger("capture"),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Slot returns the frame slot the worker publishes to.
func (w *Worker) Slot() *frame.Slot {
	return w.slot
}

// Info describes the underlying device.
func (w *Worker) Info() Info {
	return w.dev.Info()
}

// Start runs the worker on a new goroutine.
func (w *Worker) Start(ctx context.Context) {
	go func() {
		if err := w.Run(ctx); err != nil {
			w.logger.Error("Capture stopped with error", "error", err)
		}
	}()
}

// Run reads frames until RequestStop is called, ctx is cancelled, a previewer
// asks to quit or the device is lost. Any other failed read skips the cycle. The device is closed before
// Run returns. Run may only be called once.
func (w *Worker) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New("capture worker already started")
	}
	defer close(w.done)

	info := w.dev.Info()
	w.publish(events.CaptureStateEvent{
		Device:    info.Path,
		State:     "started",
		Format:    info.Format,
		Width:     info.Width,
		Height:    info.Height,
		Timestamp: time.Now().Format(time.RFC3339),
	})
	w.logger.Info("Capture started", "device", info.Path, "width", info.Width, "height", info.Height)

	rate := newRateMeter(time.Second)
	var runErr error

	for !w.stop.Load() && ctx.Err() == nil {
		f, err := w.dev.ReadFrame()
		if err != nil {
			if errors.Is(err, ErrDeviceLost) {
				runErr = err
				break
			}
			metrics.RecordReadFailure()
			w.logger.Debug("Skipping capture cycle", "error", err)
			continue
		}

		if f.Time.IsZero() {
			f.Time = time.Now()
		}
		w.slot.Publish(f)
		w.frames.Add(1)
		metrics.RecordFrame(f.Time)
		if fps, ok := rate.tick(f.Time); ok {
			metrics.SetCaptureFPS(fps)
		}

		if w.previewer != nil && w.previewer.Show(f) {
			w.logger.Info("Preview requested stop")
			w.stop.Store(true)
		}
	}

	if err := w.dev.Close(); err != nil {
		w.logger.Warn("Failed to release capture device", "error", err)
	}
	w.err = runErr

	w.publish(events.CaptureStateEvent{
		Device:    info.Path,
		State:     "stopped",
		Frames:    w.frames.Load(),
		Timestamp: time.Now().Format(time.RFC3339),
	})
	w.logger.Info("Capture device released", "device", info.Path, "frames", w.frames.Load())
	return runErr
}

// RequestStop asks the loop to exit after the current read completes.
func (w *Worker) RequestStop() {
	w.stop.Store(true)
}

// Done is closed once Run has returned and the device is released.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Wait blocks until Done is closed and returns the error Run ended with.
func (w *Worker) Wait() error {
	<-w.done
	return w.err
}

// Frames returns the number of frames published so far.
func (w *Worker) Frames() uint64 {
	return w.frames.Load()
}

// Get reads a capture parameter from the device.
func (w *Worker) Get(p Param) float64 {
	return w.dev.Get(p)
}

// Range reports the bounds of an adjustable control.
func (w *Worker) Range(p Param) (lo, hi float64, ok bool) {
	return w.dev.Range(p)
}

// Set writes a capture parameter. The result is the device's best-effort
// acknowledgement; a rejected value is not an error.
func (w *Worker) Set(p Param, v float64) bool {
	ok := w.dev.Set(p, v)
	metrics.RecordParamSet(p.String(), ok)
	if !ok {
		w.logger.Debug("Parameter rejected by device", "param", p.String(), "value", v)
	}
	w.publish(events.ParameterChangedEvent{
		Param:     p.String(),
		Value:     v,
		OK:        ok,
		Timestamp: time.Now().Format(time.RFC3339),
	})
	return ok
}

// SetBrightness sets the brightness control.
func (w *Worker) SetBrightness(v float64) bool { return w.Set(ParamBrightness, v) }

// SetContrast sets the contrast control.
func (w *Worker) SetContrast(v float64) bool { return w.Set(ParamContrast, v) }

// SetGain sets the gain control.
func (w *Worker) SetGain(v float64) bool { return w.Set(ParamGain, v) }

func (w *Worker) publish(ev events.Event) {
	if w.bus != nil {
		w.bus.Publish(ev)
	}
}

// rateMeter turns frame timestamps into a frames-per-second figure once per window.
type rateMeter struct {
	window time.Duration
	start  time.Time
	count  int
}

func newRateMeter(window time.Duration) *rateMeter {
	return &rateMeter{window: window}
}

func (r *rateMeter) tick(now time.Time) (float64, bool) {
	if r.start.IsZero() {
		r.start = now
	}
	r.count++
	elapsed := now.Sub(r.start)
	if elapsed < r.window {
		return 0, false
	}
	fps := float64(r.count) / elapsed.Seconds()
	r.start = now
	r.count = 0
	return fps, true
}
