package ui

import (
	"image"
	"math"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/smazurov/camview/internal/view"
)

// PointerFunc receives a pointer action in widget-local coordinates together
// with the widget size at the time of the event.
type PointerFunc func(ev view.PointerEvent)

// Preview shows composed frames scaled to fit and turns primary-button
// drags into press, move and release events.
type Preview struct {
	widget.BaseWidget

	image     *canvas.Image
	onPointer PointerFunc

	mu      sync.Mutex
	pressed bool
	last    fyne.Position
}

var (
	_ desktop.Mouseable = (*Preview)(nil)
	_ fyne.Draggable    = (*Preview)(nil)
	_ view.Surface      = previewSurface{}
)

// NewPreview creates the preview widget. onPointer may be nil.
func NewPreview(onPointer PointerFunc) *Preview {
	img := canvas.NewImageFromImage(nil)
	img.FillMode = canvas.ImageFillContain
	img.ScaleMode = canvas.ImageScaleFastest

	p := &Preview{image: img, onPointer: onPointer}
	p.ExtendBaseWidget(p)
	return p
}

// CreateRenderer implements fyne.Widget.
func (p *Preview) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.image)
}

// MinSize keeps the preview usable when the window is shrunk.
func (p *Preview) MinSize() fyne.Size {
	return fyne.NewSize(320, 240)
}

// Surface adapts the preview for view.Loop.
func (p *Preview) Surface() view.Surface {
	return previewSurface{p}
}

// displaySize is the widget size rounded to whole units.
func (p *Preview) displaySize() (w, h int) {
	s := p.Size()
	return int(math.Round(float64(s.Width))), int(math.Round(float64(s.Height)))
}

// present shows img. The canvas keeps the reference, so img must not be
// reused by the caller.
func (p *Preview) present(img *image.RGBA) {
	p.image.Image = img
	p.image.Refresh()
}

// Image returns the image currently shown.
func (p *Preview) Image() image.Image {
	return p.image.Image
}

// MouseDown implements desktop.Mouseable.
func (p *Preview) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	p.mu.Lock()
	p.pressed = true
	p.last = ev.Position
	p.mu.Unlock()
	p.emit(view.PointerPress, ev.Position)
}

// MouseUp implements desktop.Mouseable.
func (p *Preview) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	p.release(ev.Position)
}

// Dragged implements fyne.Draggable.
func (p *Preview) Dragged(ev *fyne.DragEvent) {
	p.mu.Lock()
	if !p.pressed {
		p.mu.Unlock()
		return
	}
	p.last = ev.Position
	p.mu.Unlock()
	p.emit(view.PointerMove, ev.Position)
}

// DragEnd implements fyne.Draggable. Drivers differ on whether MouseUp
// follows a drag, so whichever arrives first releases.
func (p *Preview) DragEnd() {
	p.mu.Lock()
	pos := p.last
	p.mu.Unlock()
	p.release(pos)
}

func (p *Preview) release(pos fyne.Position) {
	p.mu.Lock()
	if !p.pressed {
		p.mu.Unlock()
		return
	}
	p.pressed = false
	p.mu.Unlock()
	p.emit(view.PointerRelease, pos)
}

func (p *Preview) emit(kind view.PointerKind, pos fyne.Position) {
	if p.onPointer == nil {
		return
	}
	w, h := p.displaySize()
	p.onPointer(view.PointerEvent{
		Kind:          kind,
		X:             float64(pos.X),
		Y:             float64(pos.Y),
		DisplayWidth:  w,
		DisplayHeight: h,
	})
}

type previewSurface struct{ p *Preview }

func (s previewSurface) Size() (w, h int)        { return s.p.displaySize() }
func (s previewSurface) Present(img *image.RGBA) { s.p.present(img) }
