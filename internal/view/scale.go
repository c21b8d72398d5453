package view

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Scale renders img fitted and centred on a w×h canvas with black bars.
// A non-positive w or h keeps the source size.
func Scale(img image.Image, w, h int) *image.RGBA {
	src := img.Bounds()
	if w <= 0 || h <= 0 {
		w, h = src.Dx(), src.Dy()
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.Black}, image.Point{}, draw.Src)

	fit := NewFit(w, h, src.Dx(), src.Dy(), image.Point{})
	if !fit.Valid() {
		return dst
	}
	draw.ApproxBiLinear.Scale(dst, fit.Rect(), img, src, draw.Src, nil)
	return dst
}
