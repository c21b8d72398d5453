// Package frame holds captured images and the slot that hands the newest one
// from the capture goroutine to readers.
package frame

import (
	"image"
	"image/color"
	"time"
)

// Frame is a packed 8-bit RGB image. A Frame is never modified after it has
// been published to a Slot.
type Frame struct {
	Width  int
	Height int
	Stride int
	Pix    []byte
	Seq    uint64
	Time   time.Time
}

// New allocates a zeroed frame of the given size.
func New(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Stride: width * 3,
		Pix:    make([]byte, width*height*3),
	}
}

// FromImage copies any image into a new RGB frame.
func FromImage(img image.Image) *Frame {
	b := img.Bounds()
	f := New(b.Dx(), b.Dy())

	switch src := img.(type) {
	case *image.RGBA:
		for y := 0; y < f.Height; y++ {
			s := src.Pix[(y+b.Min.Y-src.Rect.Min.Y)*src.Stride+(b.Min.X-src.Rect.Min.X)*4:]
			d := f.Pix[y*f.Stride:]
			for x := 0; x < f.Width; x++ {
				d[x*3], d[x*3+1], d[x*3+2] = s[x*4], s[x*4+1], s[x*4+2]
			}
		}
	case *image.YCbCr:
		for y := 0; y < f.Height; y++ {
			d := f.Pix[y*f.Stride:]
			for x := 0; x < f.Width; x++ {
				yi := src.YOffset(b.Min.X+x, b.Min.Y+y)
				ci := src.COffset(b.Min.X+x, b.Min.Y+y)
				d[x*3], d[x*3+1], d[x*3+2] = color.YCbCrToRGB(src.Y[yi], src.Cb[ci], src.Cr[ci])
			}
		}
	default:
		for y := 0; y < f.Height; y++ {
			for x := 0; x < f.Width; x++ {
				r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				i := y*f.Stride + x*3
				f.Pix[i], f.Pix[i+1], f.Pix[i+2] = uint8(r>>8), uint8(g>>8), uint8(bl>>8)
			}
		}
	}
	return f
}

// ColorModel implements image.Image.
func (f *Frame) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (f *Frame) Bounds() image.Rectangle { return image.Rect(0, 0, f.Width, f.Height) }

// At implements image.Image.
func (f *Frame) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(f.Bounds())) {
		return color.RGBA{}
	}
	i := y*f.Stride + x*3
	return color.RGBA{f.Pix[i], f.Pix[i+1], f.Pix[i+2], 0xff}
}

// RGBA returns a fresh RGBA copy of the frame.
func (f *Frame) RGBA() *image.RGBA {
	dst := image.NewRGBA(f.Bounds())
	for y := 0; y < f.Height; y++ {
		s := f.Pix[y*f.Stride:]
		d := dst.Pix[y*dst.Stride:]
		for x := 0; x < f.Width; x++ {
			d[x*4], d[x*4+1], d[x*4+2], d[x*4+3] = s[x*3], s[x*3+1], s[x*3+2], 0xff
		}
	}
	return dst
}
