// Package ui is the desktop window: a live preview with pointer selection
// and a side panel of camera and view controls.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"github.com/smazurov/camview/internal/capture"
	"github.com/smazurov/camview/internal/events"
	"github.com/smazurov/camview/internal/logging"
	"github.com/smazurov/camview/internal/metrics"
	"github.com/smazurov/camview/internal/view"
)

// Camera is the capture side the window drives. *capture.Worker satisfies it.
type Camera interface {
	Info() capture.Info
	Get(p capture.Param) float64
	Range(p capture.Param) (lo, hi float64, ok bool)
	Set(p capture.Param, v float64) bool
	RequestStop()
	Wait() error
}

// Options configures the window.
type Options struct {
	Title  string
	Width  float32
	Height float32
	// StatusInterval paces the frame rate label. Zero disables it.
	StatusInterval time.Duration
}

// DefaultOptions returns a 1280x720 window with a once-per-second status.
func DefaultOptions() Options {
	return Options{Title: "camview", Width: 1280, Height: 720, StatusInterval: time.Second}
}

// App owns the window, the render loop and the capture shutdown.
type App struct {
	fyneApp fyne.App
	window  fyne.Window
	camera  Camera
	ctrl    *view.Controller
	loop    *view.Loop
	bus     *events.Bus
	opts    Options
	logger  *slog.Logger

	preview  *Preview
	controls *Controls

	closeOnce sync.Once
	closing   atomic.Bool
	cancel    context.CancelFunc
	loopDone  chan struct{}
}

// New builds the window on fyneApp. bus may be nil.
func New(fyneApp fyne.App, camera Camera, ctrl *view.Controller, loop *view.Loop, bus *events.Bus, opts Options) *App {
	a := &App{
		fyneApp:  fyneApp,
		camera:   camera,
		ctrl:     ctrl,
		loop:     loop,
		bus:      bus,
		opts:     opts,
		logger:   logging.GetLogger("ui"),
		loopDone: make(chan struct{}),
	}

	a.window = fyneApp.NewWindow(opts.Title)
	a.window.Resize(fyne.NewSize(opts.Width, opts.Height))

	a.preview = NewPreview(a.handlePointer)
	a.controls = newControls(a)

	split := container.NewHSplit(a.preview, container.NewVScroll(a.controls.Container()))
	split.SetOffset(0.78)
	a.window.SetContent(split)
	a.window.SetOnClosed(a.shutdown)

	return a
}

// Window returns the main window.
func (a *App) Window() fyne.Window { return a.window }

// Preview returns the preview widget.
func (a *App) Preview() *Preview { return a.preview }

// Controls returns the control panel.
func (a *App) Controls() *Controls { return a.controls }

// handlePointer forwards preview drags to the controller. Pointer use
// without a selection mode is logged by the controller and otherwise ignored.
func (a *App) handlePointer(ev view.PointerEvent) {
	_, _ = a.ctrl.HandlePointer(ev)
}

// Start launches the render loop and background status updates. It does
// not block.
func (a *App) Start(ctx context.Context) {
	ctx, a.cancel = context.WithCancel(ctx)

	go func() {
		defer close(a.loopDone)
		if err := a.loop.Run(ctx, a.preview.Surface()); err != nil {
			a.logger.Error("Render loop stopped", "error", err)
		}
	}()

	if a.bus != nil {
		unsubscribe := a.bus.Subscribe(func(e events.SnapshotSavedEvent) {
			a.controls.setTarget(e.Next)
		})
		go func() {
			<-ctx.Done()
			unsubscribe()
		}()
	}

	if a.opts.StatusInterval > 0 {
		go a.updateStatus(ctx)
	}

	// Cancellation from outside, e.g. a signal, closes the window.
	go func() {
		<-ctx.Done()
		if !a.closing.Load() {
			a.window.Close()
		}
	}()
}

// Run shows the window and blocks until it is closed. The capture worker
// has stopped by the time Run returns.
func (a *App) Run(ctx context.Context) error {
	a.Start(ctx)
	a.window.ShowAndRun()
	a.shutdown()
	return a.camera.Wait()
}

// shutdown stops the render loop, then the worker, and waits for both.
func (a *App) shutdown() {
	a.closeOnce.Do(func() {
		a.closing.Store(true)
		a.logger.Info("Window closed, stopping")
		if a.cancel != nil {
			a.cancel()
			<-a.loopDone
		}
		a.camera.RequestStop()
		if err := a.camera.Wait(); err != nil {
			a.logger.Error("Capture stopped with error", "error", err)
		}
	})
}

func (a *App) updateStatus(ctx context.Context) {
	ticker := time.NewTicker(a.opts.StatusInterval)
	defer ticker.Stop()
	info := a.camera.Info()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := metrics.GetCaptureStats()
			a.controls.Status.SetText(fmt.Sprintf("%s %s %dx%d\n%.1f fps, %d frames",
				info.Path, info.Format, info.Width, info.Height, stats.FPS, stats.Frames))
		}
	}
}
