package view

import (
	"image"
	"math"
)

// Fit is the aspect-preserving, centred placement of a reference image
// inside a display surface.
type Fit struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
	// Origin is added to image coordinates, e.g. the top-left of an active crop.
	Origin image.Point
	RefW   int
	RefH   int
}

// NewFit computes the placement of a refW×refH image in a displayW×displayH
// surface. Offsets are the unused display extent per axis; the image sits at
// half the offset.
func NewFit(displayW, displayH, refW, refH int, origin image.Point) Fit {
	f := Fit{Origin: origin, RefW: refW, RefH: refH}
	if refW <= 0 || refH <= 0 || displayW <= 0 || displayH <= 0 {
		return f
	}
	f.Scale = math.Min(float64(displayH)/float64(refH), float64(displayW)/float64(refW))
	f.OffsetX = float64(displayW) - f.Scale*float64(refW)
	f.OffsetY = float64(displayH) - f.Scale*float64(refH)
	return f
}

// Valid reports whether the fit can map coordinates.
func (f Fit) Valid() bool {
	return f.Scale > 0
}

// ToImage maps a display position to image coordinates.
func (f Fit) ToImage(x, y float64) (float64, float64) {
	return (x-0.5*f.OffsetX)/f.Scale + float64(f.Origin.X),
		(y-0.5*f.OffsetY)/f.Scale + float64(f.Origin.Y)
}

// ToDisplay maps image coordinates to a display position; the inverse of ToImage.
func (f Fit) ToDisplay(x, y float64) (float64, float64) {
	return (x-float64(f.Origin.X))*f.Scale + 0.5*f.OffsetX,
		(y-float64(f.Origin.Y))*f.Scale + 0.5*f.OffsetY
}

// Rect is the display area covered by the image.
func (f Fit) Rect() image.Rectangle {
	x0 := int(math.Round(0.5 * f.OffsetX))
	y0 := int(math.Round(0.5 * f.OffsetY))
	return image.Rect(x0, y0,
		x0+int(math.Round(f.Scale*float64(f.RefW))),
		y0+int(math.Round(f.Scale*float64(f.RefH))))
}
