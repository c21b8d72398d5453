package view

import (
	"image"
	"image/color"
)

// Rotate returns img turned 90° counter-clockwise n times. n is taken mod 4;
// n == 0 returns img itself.
func Rotate(img *image.RGBA, n int) *image.RGBA {
	switch ((n % 4) + 4) % 4 {
	case 1:
		return remap(img, true, func(x, y, w, h int) (int, int) { return w - 1 - y, x })
	case 2:
		return remap(img, false, func(x, y, w, h int) (int, int) { return w - 1 - x, h - 1 - y })
	case 3:
		return remap(img, true, func(x, y, w, h int) (int, int) { return y, h - 1 - x })
	}
	return img
}

// remap builds a new image whose pixel (x, y) is src at the position returned
// by from. w and h are the source dimensions.
func remap(src *image.RGBA, swap bool, from func(x, y, w, h int) (int, int)) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dw, dh := w, h
	if swap {
		dw, dh = h, w
	}
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	for y := 0; y < dh; y++ {
		d := dst.Pix[y*dst.Stride:]
		for x := 0; x < dw; x++ {
			sx, sy := from(x, y, w, h)
			s := src.PixOffset(b.Min.X+sx, b.Min.Y+sy)
			copy(d[x*4:x*4+4], src.Pix[s:s+4])
		}
	}
	return dst
}

// FlipVertical mirrors rows in place.
func FlipVertical(img *image.RGBA) {
	b := img.Bounds()
	rowLen := b.Dx() * 4
	tmp := make([]byte, rowLen)
	for top, bottom := b.Min.Y, b.Max.Y-1; top < bottom; top, bottom = top+1, bottom-1 {
		t := img.Pix[img.PixOffset(b.Min.X, top):][:rowLen]
		u := img.Pix[img.PixOffset(b.Min.X, bottom):][:rowLen]
		copy(tmp, t)
		copy(t, u)
		copy(u, tmp)
	}
}

// FlipHorizontal mirrors columns in place.
func FlipHorizontal(img *image.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):][:b.Dx()*4]
		for l, r := 0, b.Dx()-1; l < r; l, r = l+1, r-1 {
			lp, rp := row[l*4:l*4+4], row[r*4:r*4+4]
			for i := range 4 {
				lp[i], rp[i] = rp[i], lp[i]
			}
		}
	}
}

// DrawOutline paints the border of r with the given thickness, growing
// inwards and clipped to the image.
func DrawOutline(img *image.RGBA, r image.Rectangle, c color.RGBA, thickness int) {
	r = r.Canon()
	if thickness < 1 {
		thickness = 1
	}
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X+1, r.Min.Y+thickness),
		image.Rect(r.Min.X, r.Max.Y-thickness+1, r.Max.X+1, r.Max.Y+1),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+thickness, r.Max.Y+1),
		image.Rect(r.Max.X-thickness+1, r.Min.Y, r.Max.X+1, r.Max.Y+1),
	}
	for _, e := range edges {
		fill(img, e.Intersect(img.Bounds()), c)
	}
}

func fill(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// Crop copies r out of img into a new image anchored at the origin.
func Crop(img *image.RGBA, r image.Rectangle) *image.RGBA {
	r = r.Intersect(img.Bounds())
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	rowLen := r.Dx() * 4
	for y := 0; y < r.Dy(); y++ {
		copy(dst.Pix[y*dst.Stride:][:rowLen], img.Pix[img.PixOffset(r.Min.X, r.Min.Y+y):][:rowLen])
	}
	return dst
}

// OrientedSize returns the size of a w×h image after n quarter turns.
func OrientedSize(w, h, n int) (int, int) {
	if n%2 != 0 {
		return h, w
	}
	return w, h
}
