package view

import (
	"context"
	"image"
	"time"

	"github.com/smazurov/camview/internal/metrics"
)

// DefaultInterval is the nominal render cadence.
const DefaultInterval = 33 * time.Millisecond

// Surface displays composed frames.
type Surface interface {
	// Size reports the current drawable size in surface units.
	Size() (width, height int)
	// Present shows img. It is called from the render goroutine.
	Present(img *image.RGBA)
}

// Loop drives a Controller on a self re-arming timer: each pass composes and
// presents, and only then schedules the next one. Passes never overlap and a
// slow pass delays the following one.
type Loop struct {
	controller *Controller
	interval   time.Duration
}

// NewLoop creates a render loop; a non-positive interval selects DefaultInterval.
func NewLoop(c *Controller, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Loop{controller: c, interval: interval}
}

// Interval returns the delay between passes.
func (l *Loop) Interval() time.Duration {
	return l.interval
}

// Run renders until ctx is cancelled. The first pass runs immediately.
func (l *Loop) Run(ctx context.Context, surface Surface) error {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
			l.pass(surface)
			timer.Reset(l.interval)
		}
	}
}

func (l *Loop) pass(surface Surface) {
	start := time.Now()
	if w, h := surface.Size(); w > 0 && h > 0 {
		l.controller.SetDisplaySize(w, h)
	}
	if img := l.controller.Compose(); img != nil {
		surface.Present(img)
	}
	metrics.ObserveRenderPass(time.Since(start))
}
