package capture

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/smazurov/camview/internal/events"
	"github.com/smazurov/camview/internal/frame"
)

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timeout waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestWorkerPublishesFrames(t *testing.T) {
	dev := NewPatternDevice(PatternOptions{Width: 32, Height: 16})
	slot := &frame.Slot{}
	w := NewWorker(dev, slot)

	go w.Run(context.Background())
	waitFor(t, "frames", func() bool { return slot.Seq() >= 3 })

	w.RequestStop()
	if err := w.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if !dev.Closed() {
		t.Error("device not released after stop")
	}

	f := slot.Load()
	if f == nil || f.Width != 32 || f.Height != 16 {
		t.Fatalf("unexpected frame %+v", f)
	}
	if w.Frames() != slot.Seq() {
		t.Errorf("Frames() = %d, slot seq = %d", w.Frames(), slot.Seq())
	}
}

func TestWorkerSkipsTransientReads(t *testing.T) {
	dev := NewPatternDevice(PatternOptions{Width: 8, Height: 8, FailEvery: 2})
	slot := &frame.Slot{}
	w := NewWorker(dev, slot)

	go w.Run(context.Background())
	waitFor(t, "frames past failures", func() bool { return slot.Seq() >= 5 })
	w.RequestStop()

	if err := w.Wait(); err != nil {
		t.Fatalf("transient failures must not end the loop: %v", err)
	}
}

func TestWorkerStopsOnContextCancel(t *testing.T) {
	dev := NewPatternDevice(PatternOptions{Width: 8, Height: 8, Interval: time.Millisecond})
	w := NewWorker(dev, &frame.Slot{})

	ctx, cancel := context.WithCancel(context.Background())
	go w.Run(ctx)
	cancel()

	select {
	case <-w.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}
	if !dev.Closed() {
		t.Error("device not released")
	}
}

// flakyDevice fails the reads listed in fail with the given errors and
// delegates the rest to the pattern device.
type flakyDevice struct {
	*PatternDevice
	mu    sync.Mutex
	reads int
	fail  map[int]error
}

func (d *flakyDevice) ReadFrame() (*frame.Frame, error) {
	d.mu.Lock()
	d.reads++
	err := d.fail[d.reads]
	d.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return d.PatternDevice.ReadFrame()
}

func TestWorkerSkipsFailedReads(t *testing.T) {
	dev := &flakyDevice{
		PatternDevice: NewPatternDevice(PatternOptions{Width: 8, Height: 8}),
		fail: map[int]error{
			3: errors.New("read frame failed: resource temporarily unavailable"),
			5: errors.New("dequeue frame failed: input/output error"),
		},
	}
	slot := &frame.Slot{}
	w := NewWorker(dev, slot)

	go w.Run(context.Background())
	waitFor(t, "frames past failed reads", func() bool { return slot.Seq() >= 6 })

	select {
	case <-w.Done():
		t.Fatalf("worker stopped after a failed read: %v", w.Wait())
	default:
	}

	w.RequestStop()
	if err := w.Wait(); err != nil {
		t.Fatalf("Wait = %v, want nil", err)
	}
}

func TestWorkerStopsWhenDeviceLost(t *testing.T) {
	lost := fmt.Errorf("%w: no such device", ErrDeviceLost)
	dev := &flakyDevice{
		PatternDevice: NewPatternDevice(PatternOptions{Width: 8, Height: 8}),
		fail:          map[int]error{2: errors.New("transient"), 4: lost},
	}
	w := NewWorker(dev, &frame.Slot{})

	if err := w.Run(context.Background()); !errors.Is(err, ErrDeviceLost) {
		t.Fatalf("Run = %v, want ErrDeviceLost", err)
	}
	if !errors.Is(w.Wait(), ErrDeviceLost) {
		t.Error("Wait should report the run error")
	}
	if w.Frames() != 2 {
		t.Errorf("frames = %d, want 2", w.Frames())
	}
	if !dev.Closed() {
		t.Error("device not released after failure")
	}
}

type countingPreviewer struct {
	mu    sync.Mutex
	shown int
	quit  int
}

func (p *countingPreviewer) Show(*frame.Frame) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shown++
	return p.shown >= p.quit
}

func TestWorkerPreviewerQuit(t *testing.T) {
	p := &countingPreviewer{quit: 3}
	w := NewWorker(NewPatternDevice(PatternOptions{Width: 8, Height: 8}), &frame.Slot{}, WithPreviewer(p))

	done := make(chan error, 1)
	go func() { done <- w.Run(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("previewer quit did not stop the worker")
	}
	if w.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", w.Frames())
	}
}

func TestWorkerRunTwice(t *testing.T) {
	w := NewWorker(NewPatternDevice(PatternOptions{Width: 8, Height: 8}), &frame.Slot{})
	w.RequestStop()
	if err := w.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := w.Run(context.Background()); err == nil {
		t.Error("second Run should fail")
	}
}

func TestWorkerEvents(t *testing.T) {
	bus := events.New()
	params := make(chan events.ParameterChangedEvent, 4)
	states := make(chan events.CaptureStateEvent, 4)
	defer bus.Subscribe(func(e events.ParameterChangedEvent) { params <- e })()
	defer bus.Subscribe(func(e events.CaptureStateEvent) { states <- e })()

	w := NewWorker(NewPatternDevice(PatternOptions{Width: 8, Height: 8}), &frame.Slot{}, WithEvents(bus))

	if !w.SetBrightness(10) {
		t.Error("brightness 10 should be accepted")
	}
	if w.Get(ParamBrightness) != 10 {
		t.Errorf("Get(brightness) = %v", w.Get(ParamBrightness))
	}
	if w.Set(ParamFrameWidth, 1024) {
		t.Error("width change should be rejected")
	}

	got := []events.ParameterChangedEvent{<-params, <-params}
	if got[0].Param != "brightness" || !got[0].OK {
		t.Errorf("first event = %+v", got[0])
	}
	if got[1].Param != "width" || got[1].OK {
		t.Errorf("second event = %+v", got[1])
	}

	w.RequestStop()
	if err := w.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if s := <-states; s.State != "started" {
		t.Errorf("first state = %s", s.State)
	}
	if s := <-states; s.State != "stopped" {
		t.Errorf("second state = %s", s.State)
	}
}

func TestConcurrentParamSetsDuringCapture(t *testing.T) {
	w := NewWorker(NewPatternDevice(PatternOptions{Width: 16, Height: 16}), &frame.Slot{})
	go w.Run(context.Background())

	var wg sync.WaitGroup
	for i := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 50 {
				w.SetGain(float64((i + j) % 100))
				w.SetContrast(float64(j % 64))
			}
		}()
	}
	wg.Wait()
	w.RequestStop()
	if err := w.Wait(); err != nil {
		t.Fatal(err)
	}
}

func TestTerminalPreviewerQuit(t *testing.T) {
	p := NewTerminalPreviewer(strings.NewReader("hello\nQ\n"), time.Hour)
	f := frame.New(2, 2)
	f.Time = time.Now()
	waitFor(t, "quit command", func() bool { return p.Show(f) })
}

func TestTerminalPreviewerIgnoresOtherInput(t *testing.T) {
	p := NewTerminalPreviewer(strings.NewReader("quit\nx\n"), 0)
	time.Sleep(20 * time.Millisecond)
	if p.Show(frame.New(2, 2)) {
		t.Error("only a bare q should quit")
	}
}
