package view

import (
	"image"
	"time"
)

// MaxClicks bounds the click history.
const MaxClicks = 64

// Rect is a corner pair in image space. Corners are not normalized.
type Rect struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rectangle returns the normalized rectangle spanning both corners.
func (r Rect) Rectangle() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// Click is a press recorded in image space.
type Click struct {
	Mode  Mode
	Point image.Point
	Time  time.Time
}

// State is a snapshot of the presentation state.
type State struct {
	Rotation       int
	FlipVertical   bool
	FlipHorizontal bool
	Mode           Mode
	ROI            *Rect
	Zoom           *Rect
	ZoomReleased   bool
	Crop           *Rect
	Target         string
	Frame          uint64
	DisplayWidth   int
	DisplayHeight  int
}

// selection holds the two corners of an ROI or zoom drag.
type selection struct {
	start, end       image.Point
	hasStart, hasEnd bool
}

func (s *selection) clear() {
	*s = selection{}
}

func (s selection) complete() bool {
	return s.hasStart && s.hasEnd
}

func (s selection) rect() Rect {
	return Rect{X1: s.start.X, Y1: s.start.Y, X2: s.end.X, Y2: s.end.Y}
}

func (s selection) snapshot() *Rect {
	if !s.complete() {
		return nil
	}
	r := s.rect()
	return &r
}

// outlineVisible reports whether the corners are more than one pixel apart
// on at least one axis.
func (s selection) outlineVisible() bool {
	if !s.complete() {
		return false
	}
	return abs(s.end.X-s.start.X) > 1 || abs(s.end.Y-s.start.Y) > 1
}

// croppable reports whether the corners span a usable crop: a non-zero
// extent on both axes and more than one pixel apart on at least one.
func (s selection) croppable() bool {
	if !s.complete() {
		return false
	}
	dx, dy := abs(s.end.X-s.start.X), abs(s.end.Y-s.start.Y)
	if dx == 0 || dy == 0 {
		return false
	}
	return dx > 1 || dy > 1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
