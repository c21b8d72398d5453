package view

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

// gradient encodes each pixel's coordinates in its red and green channels.
func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x), uint8(y), 7, 255})
		}
	}
	return img
}

func TestRotateQuarterTurn(t *testing.T) {
	src := gradient(4, 3)
	dst := Rotate(src, 1)

	if dst.Bounds() != image.Rect(0, 0, 3, 4) {
		t.Fatalf("bounds = %v, want 3x4", dst.Bounds())
	}
	// Counter-clockwise: the source top-right corner becomes the top-left.
	if got := dst.RGBAAt(0, 0); got != src.RGBAAt(3, 0) {
		t.Errorf("dst(0,0) = %v, want src(3,0) %v", got, src.RGBAAt(3, 0))
	}
	if got := dst.RGBAAt(2, 3); got != src.RGBAAt(0, 2) {
		t.Errorf("dst(2,3) = %v, want src(0,2) %v", got, src.RGBAAt(0, 2))
	}
}

func TestRotatePeriodicity(t *testing.T) {
	src := gradient(5, 3)
	for n := 0; n < 4; n++ {
		a := Rotate(src, n)
		b := Rotate(src, n+4)
		if !bytes.Equal(a.Pix, b.Pix) || a.Bounds() != b.Bounds() {
			t.Errorf("Rotate(%d) != Rotate(%d)", n, n+4)
		}
	}

	img := src
	for range 4 {
		img = Rotate(img, 1)
	}
	if !bytes.Equal(img.Pix, src.Pix) {
		t.Error("four quarter turns should restore the image")
	}

	stepwise := Rotate(Rotate(Rotate(src, 1), 1), 1)
	if !bytes.Equal(stepwise.Pix, Rotate(src, 3).Pix) {
		t.Error("three single turns should equal Rotate(3)")
	}
	if !bytes.Equal(Rotate(Rotate(src, 1), 1).Pix, Rotate(src, 2).Pix) {
		t.Error("two single turns should equal Rotate(2)")
	}
	if !bytes.Equal(Rotate(src, -1).Pix, Rotate(src, 3).Pix) {
		t.Error("negative turns should wrap")
	}
}

func TestFlips(t *testing.T) {
	src := gradient(4, 3)

	v := Crop(src, src.Bounds())
	FlipVertical(v)
	if got := v.RGBAAt(1, 0); got != src.RGBAAt(1, 2) {
		t.Errorf("vertical flip (1,0) = %v", got)
	}
	FlipVertical(v)
	if !bytes.Equal(v.Pix, src.Pix) {
		t.Error("vertical flip is not an involution")
	}

	h := Crop(src, src.Bounds())
	FlipHorizontal(h)
	if got := h.RGBAAt(0, 1); got != src.RGBAAt(3, 1) {
		t.Errorf("horizontal flip (0,1) = %v", got)
	}
	FlipHorizontal(h)
	if !bytes.Equal(h.Pix, src.Pix) {
		t.Error("horizontal flip is not an involution")
	}
}

func TestCrop(t *testing.T) {
	src := gradient(10, 8)
	dst := Crop(src, image.Rect(2, 3, 6, 5))

	if dst.Bounds() != image.Rect(0, 0, 4, 2) {
		t.Fatalf("bounds = %v", dst.Bounds())
	}
	if got := dst.RGBAAt(0, 0); got != src.RGBAAt(2, 3) {
		t.Errorf("origin pixel = %v", got)
	}
	if got := dst.RGBAAt(3, 1); got != src.RGBAAt(5, 4) {
		t.Errorf("last pixel = %v", got)
	}

	clamped := Crop(src, image.Rect(8, 6, 20, 20))
	if clamped.Bounds().Dx() != 2 || clamped.Bounds().Dy() != 2 {
		t.Errorf("clamped bounds = %v", clamped.Bounds())
	}
}

func TestDrawOutline(t *testing.T) {
	img := gradient(20, 20)
	red := color.RGBA{255, 0, 0, 255}
	DrawOutline(img, image.Rect(15, 12, 5, 4), red, 2)

	for _, p := range []image.Point{{5, 4}, {15, 12}, {6, 5}, {14, 11}, {10, 4}, {5, 8}} {
		if got := img.RGBAAt(p.X, p.Y); got != red {
			t.Errorf("border pixel %v = %v", p, got)
		}
	}
	for _, p := range []image.Point{{10, 8}, {7, 6}, {4, 4}, {16, 12}} {
		if got := img.RGBAAt(p.X, p.Y); got == red {
			t.Errorf("pixel %v should not be painted", p)
		}
	}

	// Rectangles partly outside the image are clipped.
	DrawOutline(img, image.Rect(-5, -5, 100, 100), red, 1)
}

func TestOrientedSize(t *testing.T) {
	for n, want := range map[int][2]int{0: {4, 3}, 1: {3, 4}, 2: {4, 3}, 3: {3, 4}} {
		w, h := OrientedSize(4, 3, n)
		if w != want[0] || h != want[1] {
			t.Errorf("OrientedSize(4,3,%d) = %d,%d", n, w, h)
		}
	}
}
