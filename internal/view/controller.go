package view

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/smazurov/camview/internal/events"
	"github.com/smazurov/camview/internal/frame"
	"github.com/smazurov/camview/internal/logging"
	"github.com/smazurov/camview/internal/metrics"
	"github.com/smazurov/camview/internal/snapshot"
)

var (
	roiColor  = color.RGBA{0, 255, 0, 255}
	zoomColor = color.RGBA{0, 0, 255, 255}
)

// EventPublisher receives view events. *events.Bus satisfies it.
type EventPublisher interface {
	Publish(ev events.Event)
}

// PointerEvent is a pointer action in display coordinates. A zero display
// size falls back to the size last reported by the render surface.
type PointerEvent struct {
	Kind          PointerKind
	X, Y          float64
	DisplayWidth  int
	DisplayHeight int
}

// SaveResult reports a written snapshot.
type SaveResult struct {
	Path   string
	Next   string
	Width  int
	Height int
}

// Controller owns the presentation state and composes frames from a slot.
// All methods are safe for concurrent use.
type Controller struct {
	slot   *frame.Slot
	target *snapshot.Target
	bus    EventPublisher
	logger *slog.Logger

	// saveMu serializes saves so each one claims its own target path.
	saveMu sync.Mutex

	mu           sync.Mutex
	rotation     int
	flipV        bool
	flipH        bool
	mode         Mode
	roi          selection
	zoom         selection
	zoomReleased bool
	finalizeZoom bool
	crop         image.Rectangle
	hasCrop      bool
	clicks       []Click
	displayW     int
	displayH     int
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithEvents publishes view and snapshot events to bus.
func WithEvents(bus EventPublisher) ControllerOption {
	return func(c *Controller) {
		c.bus = bus
	}
}

// NewController creates a controller reading frames from slot and saving
// to target.
func NewController(slot *frame.Slot, target *snapshot.Target, opts ...ControllerOption) *Controller {
	c := &Controller{
		slot:   slot,
		target: target,
		logger: logging.GetLogger("view"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Target returns the save target.
func (c *Controller) Target() *snapshot.Target {
	return c.target
}

// Rotate adds a quarter turn counter-clockwise.
func (c *Controller) Rotate() int {
	c.mu.Lock()
	c.rotation = (c.rotation + 1) % 4
	r := c.rotation
	c.mu.Unlock()

	c.viewChanged()
	return r
}

// SetRotation sets the quarter-turn count, taken mod 4.
func (c *Controller) SetRotation(n int) {
	c.mu.Lock()
	c.rotation = ((n % 4) + 4) % 4
	c.mu.Unlock()
	c.viewChanged()
}

// SetFlipVertical toggles row mirroring.
func (c *Controller) SetFlipVertical(on bool) {
	c.mu.Lock()
	c.flipV = on
	c.mu.Unlock()
	c.viewChanged()
}

// SetFlipHorizontal toggles column mirroring.
func (c *Controller) SetFlipHorizontal(on bool) {
	c.mu.Lock()
	c.flipH = on
	c.mu.Unlock()
	c.viewChanged()
}

// SetMode selects what pointer drags define.
func (c *Controller) SetMode(m Mode) {
	c.mu.Lock()
	c.mode = m
	c.mu.Unlock()
	c.viewChanged()
}

// Mode returns the active selection mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// ResetZoom clears the crop and any zoom drag. Calling it again is a no-op.
func (c *Controller) ResetZoom() {
	c.mu.Lock()
	had := c.hasCrop || c.zoom.hasStart
	c.zoom.clear()
	c.zoomReleased = false
	c.finalizeZoom = false
	c.crop = image.Rectangle{}
	c.hasCrop = false
	c.mu.Unlock()

	if had {
		c.selectionChanged("crop", nil)
	}
}

// ClearROI removes the region of interest.
func (c *Controller) ClearROI() {
	c.mu.Lock()
	had := c.roi.hasStart
	c.roi.clear()
	c.mu.Unlock()

	if had {
		c.selectionChanged("roi", nil)
	}
}

// SetDisplaySize records the render surface size used for pointer events
// that do not carry their own.
func (c *Controller) SetDisplaySize(w, h int) {
	c.mu.Lock()
	c.displayW, c.displayH = w, h
	c.mu.Unlock()
}

// Clicks returns the recorded press history, oldest first.
func (c *Controller) Clicks() []Click {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Click(nil), c.clicks...)
}

// State returns a snapshot of the presentation state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := State{
		Rotation:       c.rotation,
		FlipVertical:   c.flipV,
		FlipHorizontal: c.flipH,
		Mode:           c.mode,
		ROI:            c.roi.snapshot(),
		Zoom:           c.zoom.snapshot(),
		ZoomReleased:   c.zoomReleased,
		Target:         c.target.Path(),
		Frame:          c.slot.Seq(),
		DisplayWidth:   c.displayW,
		DisplayHeight:  c.displayH,
	}
	if c.hasCrop {
		s.Crop = &Rect{X1: c.crop.Min.X, Y1: c.crop.Min.Y, X2: c.crop.Max.X, Y2: c.crop.Max.Y}
	}
	return s
}

// renderState is the part of the state a compose pass reads.
type renderState struct {
	rotation     int
	flipV, flipH bool
	roi          selection
	zoom         selection
	zoomReleased bool
	crop         image.Rectangle
	hasCrop      bool
}

// Compose runs one pipeline pass over the latest frame: rotate, flip rows,
// flip columns, ROI outline, in-progress zoom outline, zoom finalization,
// crop. It returns nil before the first frame.
func (c *Controller) Compose() *image.RGBA {
	f := c.slot.Load()
	if f == nil {
		return nil
	}

	c.mu.Lock()
	ow, oh := OrientedSize(f.Width, f.Height, c.rotation)
	newCrop, cropSet := c.finalizeCropLocked(image.Rect(0, 0, ow, oh))
	rs := renderState{
		rotation:     c.rotation,
		flipV:        c.flipV,
		flipH:        c.flipH,
		roi:          c.roi,
		zoom:         c.zoom,
		zoomReleased: c.zoomReleased,
		crop:         c.crop,
		hasCrop:      c.hasCrop,
	}
	c.mu.Unlock()

	if cropSet {
		c.selectionChanged("crop", &Rect{X1: newCrop.Min.X, Y1: newCrop.Min.Y, X2: newCrop.Max.X, Y2: newCrop.Max.Y})
	}
	return compose(f, rs)
}

// finalizeCropLocked turns a released zoom drag into the stored crop once.
// Degenerate or out-of-image drags leave the previous crop untouched.
func (c *Controller) finalizeCropLocked(bounds image.Rectangle) (image.Rectangle, bool) {
	if !c.finalizeZoom {
		return image.Rectangle{}, false
	}
	c.finalizeZoom = false

	if !c.zoom.croppable() {
		c.logger.Debug("Ignoring degenerate zoom rectangle", "rect", c.zoom.rect())
		return image.Rectangle{}, false
	}
	r := c.zoom.rect().Rectangle().Intersect(bounds)
	if r.Empty() {
		c.logger.Debug("Ignoring zoom rectangle outside the image", "rect", c.zoom.rect())
		return image.Rectangle{}, false
	}
	c.crop = r
	c.hasCrop = true
	return r, true
}

func compose(f *frame.Frame, rs renderState) *image.RGBA {
	img := Rotate(f.RGBA(), rs.rotation)
	if rs.flipV {
		FlipVertical(img)
	}
	if rs.flipH {
		FlipHorizontal(img)
	}

	thickness := max(1, img.Bounds().Dy()/100)
	if rs.roi.outlineVisible() {
		DrawOutline(img, rs.roi.rect().Rectangle(), roiColor, thickness)
	}
	if rs.zoom.complete() && !rs.zoomReleased {
		DrawOutline(img, rs.zoom.rect().Rectangle(), zoomColor, thickness)
	}

	if rs.hasCrop {
		if r := rs.crop.Intersect(img.Bounds()); !r.Empty() {
			img = Crop(img, r)
		}
	}
	return img
}

// fitLocked builds the display fit for the current frame and crop.
func (c *Controller) fitLocked(displayW, displayH int) (Fit, error) {
	f := c.slot.Load()
	if f == nil {
		return Fit{}, ErrNoFrame
	}
	if displayW <= 0 || displayH <= 0 {
		displayW, displayH = c.displayW, c.displayH
	}
	if displayW <= 0 || displayH <= 0 {
		return Fit{}, ErrNoDisplay
	}

	refW, refH := OrientedSize(f.Width, f.Height, c.rotation)
	var origin image.Point
	if c.hasCrop {
		r := c.crop.Intersect(image.Rect(0, 0, refW, refH))
		if !r.Empty() {
			refW, refH = r.Dx(), r.Dy()
			origin = r.Min
		}
	}
	return NewFit(displayW, displayH, refW, refH, origin), nil
}

// Fit returns the display fit for a surface size; zero uses the last
// reported surface size.
func (c *Controller) Fit(displayW, displayH int) (Fit, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fitLocked(displayW, displayH)
}

// HandlePointer applies a press, move or release to the active selection and
// returns the mapped image-space point. In ModeNone nothing changes and
// ErrInvalidSelectionMode is returned.
func (c *Controller) HandlePointer(ev PointerEvent) (image.Point, error) {
	c.mu.Lock()

	var sel *selection
	switch c.mode {
	case ModeROI:
		sel = &c.roi
	case ModeZoom:
		sel = &c.zoom
	case ModeNone:
		c.mu.Unlock()
		return image.Point{}, c.usageError("pointer", fmt.Errorf("%w: %s ignored", ErrInvalidSelectionMode, ev.Kind))
	default:
		c.mu.Unlock()
		return image.Point{}, c.usageError("pointer", fmt.Errorf("%w: %s", ErrInvalidSelectionMode, c.mode))
	}

	fit, err := c.fitLocked(ev.DisplayWidth, ev.DisplayHeight)
	if err != nil {
		c.mu.Unlock()
		return image.Point{}, err
	}
	ix, iy := fit.ToImage(ev.X, ev.Y)
	p := image.Pt(int(math.Round(ix)), int(math.Round(iy)))
	mode := c.mode

	var changed *Rect
	switch ev.Kind {
	case PointerPress:
		sel.start, sel.hasStart = p, true
		sel.end, sel.hasEnd = image.Point{}, false
		if mode == ModeZoom {
			c.zoomReleased = false
			c.finalizeZoom = false
		}
		c.clicks = append(c.clicks, Click{Mode: mode, Point: p, Time: time.Now()})
		if len(c.clicks) > MaxClicks {
			c.clicks = append(c.clicks[:0], c.clicks[len(c.clicks)-MaxClicks:]...)
		}
	case PointerMove:
		if sel.hasStart {
			sel.end, sel.hasEnd = p, true
		}
	case PointerRelease:
		if sel.hasStart {
			sel.end, sel.hasEnd = p, true
			if mode == ModeZoom {
				c.zoomReleased = true
				c.finalizeZoom = true
			}
			changed = sel.snapshot()
		}
	}
	c.mu.Unlock()

	if changed != nil {
		c.selectionChanged(mode.String(), changed)
	}
	return p, nil
}

func (c *Controller) usageError(action string, err error) error {
	c.logger.Warn("Rejected user action", "action", action, "error", err)
	c.publish(events.UsageErrorEvent{
		Action:    action,
		Message:   err.Error(),
		Timestamp: time.Now().Format(time.RFC3339),
	})
	return err
}

// Save composes the current view, writes it to the target and advances the
// target to the next filename.
func (c *Controller) Save() (SaveResult, error) {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()
	return c.saveLocked()
}

func (c *Controller) saveLocked() (SaveResult, error) {
	path := c.target.Path()

	img := c.Compose()
	if img == nil {
		return SaveResult{}, c.saveFailed(path, ErrNoFrame)
	}
	if err := snapshot.WriteFile(path, img); err != nil {
		return SaveResult{}, c.saveFailed(path, err)
	}

	next := c.target.Advance()
	metrics.RecordSnapshot(true)
	c.logger.Info("Snapshot saved", "path", path, "next", next)

	res := SaveResult{Path: path, Next: next, Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}
	c.publish(events.SnapshotSavedEvent{
		Path:      res.Path,
		Next:      res.Next,
		Width:     res.Width,
		Height:    res.Height,
		Timestamp: time.Now().Format(time.RFC3339),
	})
	return res, nil
}

// SaveAs validates path, makes it the target and saves. An invalid path
// leaves the target unchanged.
func (c *Controller) SaveAs(path string) (SaveResult, error) {
	if err := snapshot.ValidatePath(path); err != nil {
		return SaveResult{}, c.usageError("save-as", err)
	}
	c.saveMu.Lock()
	defer c.saveMu.Unlock()
	c.target.Set(path)
	return c.saveLocked()
}

func (c *Controller) saveFailed(path string, err error) error {
	metrics.RecordSnapshot(false)
	c.logger.Error("Snapshot failed", "path", path, "error", err)
	c.publish(events.SnapshotErrorEvent{
		Path:      path,
		Error:     err.Error(),
		Timestamp: time.Now().Format(time.RFC3339),
	})
	return fmt.Errorf("save %s: %w", path, err)
}

func (c *Controller) viewChanged() {
	s := c.State()
	c.publish(events.ViewChangedEvent{
		Rotation:  s.Rotation,
		FlipV:     s.FlipVertical,
		FlipH:     s.FlipHorizontal,
		Mode:      s.Mode.String(),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func (c *Controller) selectionChanged(kind string, r *Rect) {
	ev := events.SelectionChangedEvent{Kind: kind, Cleared: r == nil, Timestamp: time.Now().Format(time.RFC3339)}
	if r != nil {
		ev.X1, ev.Y1, ev.X2, ev.Y2 = r.X1, r.Y1, r.X2, r.Y2
	}
	c.publish(ev)
}

func (c *Controller) publish(ev events.Event) {
	if c.bus != nil {
		c.bus.Publish(ev)
	}
}
