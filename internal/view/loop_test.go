package view

import (
	"context"
	"image"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/smazurov/camview/internal/frame"
	"github.com/smazurov/camview/internal/snapshot"
)

type fakeSurface struct {
	w, h     int
	delay    time.Duration
	presents atomic.Int32
	active   atomic.Int32
	overlap  atomic.Bool

	mu   sync.Mutex
	last *image.RGBA
}

func (s *fakeSurface) Size() (int, int) { return s.w, s.h }

func (s *fakeSurface) Present(img *image.RGBA) {
	if s.active.Add(1) > 1 {
		s.overlap.Store(true)
	}
	time.Sleep(s.delay)
	s.mu.Lock()
	s.last = img
	s.mu.Unlock()
	s.presents.Add(1)
	s.active.Add(-1)
}

func TestLoopPresentsAndStops(t *testing.T) {
	slot := &frame.Slot{}
	slot.Publish(frame.New(40, 20))
	c := NewController(slot, snapshot.NewTarget(filepath.Join(t.TempDir(), "a.png")))
	surface := &fakeSurface{w: 80, h: 40}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewLoop(c, 5*time.Millisecond).Run(ctx, surface) }()

	deadline := time.Now().Add(2 * time.Second)
	for surface.presents.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatal("loop did not present")
		}
		time.Sleep(time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}

	if st := c.State(); st.DisplayWidth != 80 || st.DisplayHeight != 40 {
		t.Errorf("display size not recorded: %+v", st)
	}
}

func TestLoopSkipsPresentWithoutFrame(t *testing.T) {
	c := NewController(&frame.Slot{}, snapshot.NewTarget("a.png"))
	surface := &fakeSurface{w: 10, h: 10}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if err := NewLoop(c, time.Millisecond).Run(ctx, surface); err != nil {
		t.Fatal(err)
	}
	if surface.presents.Load() != 0 {
		t.Error("presented without a frame")
	}
}

func TestLoopPassesNeverOverlap(t *testing.T) {
	slot := &frame.Slot{}
	slot.Publish(frame.New(8, 8))
	c := NewController(slot, snapshot.NewTarget("a.png"))
	surface := &fakeSurface{w: 8, h: 8, delay: 5 * time.Millisecond}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	start := time.Now()
	if err := NewLoop(c, time.Millisecond).Run(ctx, surface); err != nil {
		t.Fatal(err)
	}

	if surface.overlap.Load() {
		t.Error("render passes overlapped")
	}
	// Each pass takes at least the present delay, so a slow surface throttles the loop.
	if limit := int32(time.Since(start)/(5*time.Millisecond)) + 1; surface.presents.Load() > limit {
		t.Errorf("presents = %d, more than %d possible", surface.presents.Load(), limit)
	}
}

func TestNewLoopDefaultInterval(t *testing.T) {
	if got := NewLoop(nil, 0).Interval(); got != DefaultInterval {
		t.Errorf("Interval = %v, want %v", got, DefaultInterval)
	}
}
