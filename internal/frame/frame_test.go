package frame

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"sync"
	"testing"
)

func TestFrameImageInterface(t *testing.T) {
	f := New(4, 2)
	i := 1*f.Stride + 3*3
	f.Pix[i], f.Pix[i+1], f.Pix[i+2] = 10, 20, 30

	if got := f.At(3, 1); got != (color.RGBA{10, 20, 30, 0xff}) {
		t.Errorf("At(3,1) = %v", got)
	}
	if got := f.At(4, 0); got != (color.RGBA{}) {
		t.Errorf("At out of bounds = %v, want zero", got)
	}
	if f.Bounds() != image.Rect(0, 0, 4, 2) {
		t.Errorf("Bounds = %v", f.Bounds())
	}

	rgba := f.RGBA()
	if got := rgba.RGBAAt(3, 1); got != (color.RGBA{10, 20, 30, 0xff}) {
		t.Errorf("RGBA copy At(3,1) = %v", got)
	}
	rgba.Pix[0] = 99
	if f.Pix[0] != 0 {
		t.Error("RGBA() must not alias frame pixels")
	}
}

func TestFromImageRGBASubImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	src.SetRGBA(5, 6, color.RGBA{1, 2, 3, 255})
	sub := src.SubImage(image.Rect(4, 4, 8, 8))

	f := FromImage(sub)
	if f.Width != 4 || f.Height != 4 {
		t.Fatalf("size = %dx%d, want 4x4", f.Width, f.Height)
	}
	if got := f.At(1, 2); got != (color.RGBA{1, 2, 3, 255}) {
		t.Errorf("At(1,2) = %v", got)
	}
}

func TestSlotPublishLoad(t *testing.T) {
	var s Slot
	if s.Load() != nil {
		t.Fatal("Load before publish should be nil")
	}

	a, b := New(2, 2), New(2, 2)
	s.Publish(a)
	s.Publish(b)

	if s.Load() != b {
		t.Error("Load should return the most recent frame")
	}
	if a.Seq != 1 || b.Seq != 2 || s.Seq() != 2 {
		t.Errorf("seq a=%d b=%d slot=%d", a.Seq, b.Seq, s.Seq())
	}
}

// Seq never runs ahead of the frame a following Load returns.
func TestSlotSeqMatchesLoadedFrame(t *testing.T) {
	var s Slot
	if s.Seq() != 0 {
		t.Fatalf("Seq before publish = %d", s.Seq())
	}

	const n = 2000
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range n {
			s.Publish(New(1, 1))
		}
	}()

	for {
		select {
		case <-done:
			if s.Seq() != n || s.Load().Seq != n {
				t.Errorf("final seq = %d, frame seq = %d", s.Seq(), s.Load().Seq)
			}
			return
		default:
		}
		seq := s.Seq()
		if seq == 0 {
			continue
		}
		if f := s.Load(); f == nil || f.Seq < seq {
			t.Fatalf("Seq() = %d ahead of loaded frame %v", seq, f)
		}
	}
}

// Every published frame is filled with a single byte value; a reader that
// sees two different values inside one frame has observed a torn write.
func TestSlotNoTornFrames(t *testing.T) {
	var s Slot
	const frames = 2000

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range frames {
			f := New(64, 48)
			v := byte(i)
			for j := range f.Pix {
				f.Pix[j] = v
			}
			s.Publish(f)
		}
	}()

	errCh := make(chan error, 4)
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var last uint64
			for s.Seq() < frames {
				f := s.Load()
				if f == nil {
					continue
				}
				if f.Seq < last {
					errCh <- errors.New("generation went backwards")
					return
				}
				last = f.Seq
				want := f.Pix[0]
				for _, p := range f.Pix {
					if p != want {
						errCh <- errors.New("torn frame observed")
						return
					}
				}
			}
		}()
	}

	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Error(err)
	}
}

func TestDecodeYUYV(t *testing.T) {
	// Two pixels: black and white luma, neutral chroma.
	buf := []byte{0, 128, 255, 128}
	f, err := DecodeYUYV(2, 1, buf)
	if err != nil {
		t.Fatal(err)
	}
	r0, g0, b0 := f.Pix[0], f.Pix[1], f.Pix[2]
	r1, g1, b1 := f.Pix[3], f.Pix[4], f.Pix[5]
	if r0 > 5 || g0 > 5 || b0 > 5 {
		t.Errorf("first pixel = %d,%d,%d, want near black", r0, g0, b0)
	}
	if r1 < 250 || g1 < 250 || b1 < 250 {
		t.Errorf("second pixel = %d,%d,%d, want near white", r1, g1, b1)
	}
}

func TestDecodeYUYVErrors(t *testing.T) {
	if _, err := DecodeYUYV(4, 2, make([]byte, 8)); !errors.Is(err, ErrShortBuffer) {
		t.Errorf("short buffer: got %v", err)
	}
	if _, err := DecodeYUYV(3, 1, make([]byte, 6)); err == nil {
		t.Error("odd width should fail")
	}
}

func TestDecodeMJPEG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 16, 8))
	for i := range src.Pix {
		src.Pix[i] = 0x80
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatal(err)
	}

	f, err := DecodeMJPEG(0, 0, buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if f.Width != 16 || f.Height != 8 {
		t.Errorf("size = %dx%d", f.Width, f.Height)
	}

	if _, err := DecodeMJPEG(0, 0, []byte{0xff, 0xd8, 0x00}); err == nil {
		t.Error("truncated jpeg should fail")
	}
}

func TestDecoderFor(t *testing.T) {
	for _, fourcc := range []string{"MJPG", "YUYV"} {
		if _, err := DecoderFor(fourcc); err != nil {
			t.Errorf("DecoderFor(%s): %v", fourcc, err)
		}
	}
	if _, err := DecoderFor("H264"); err == nil {
		t.Error("expected error for unsupported format")
	}
}
