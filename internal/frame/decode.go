package frame

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"image/jpeg"
)

// ErrShortBuffer is returned when a raw buffer is smaller than its geometry.
var ErrShortBuffer = errors.New("frame buffer too short")

// Decoder converts one raw device buffer into a frame.
type Decoder func(width, height int, buf []byte) (*Frame, error)

var decoders = map[string]Decoder{
	"MJPG": DecodeMJPEG,
	"YUYV": DecodeYUYV,
}

// DecoderFor returns the decoder registered for a FourCC pixel format.
func DecoderFor(fourcc string) (Decoder, error) {
	if d, ok := decoders[fourcc]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("no decoder for pixel format %q", fourcc)
}

// DecodeMJPEG decodes a motion-JPEG buffer. The geometry arguments are
// ignored; the JPEG header is authoritative.
func DecodeMJPEG(_, _ int, buf []byte) (*Frame, error) {
	img, err := jpeg.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("decode mjpeg: %w", err)
	}
	return FromImage(img), nil
}

// DecodeYUYV converts packed YUV 4:2:2 (Y0 U Y1 V) to RGB.
func DecodeYUYV(width, height int, buf []byte) (*Frame, error) {
	if width <= 0 || height <= 0 || width%2 != 0 {
		return nil, fmt.Errorf("invalid yuyv geometry %dx%d", width, height)
	}
	srcStride := width * 2
	if len(buf) < srcStride*height {
		return nil, fmt.Errorf("%w: have %d bytes, need %d", ErrShortBuffer, len(buf), srcStride*height)
	}

	f := New(width, height)
	for y := 0; y < height; y++ {
		s := buf[y*srcStride : (y+1)*srcStride]
		d := f.Pix[y*f.Stride:]
		for x := 0; x < width; x += 2 {
			y0, u, y1, v := s[x*2], s[x*2+1], s[x*2+2], s[x*2+3]
			d[x*3], d[x*3+1], d[x*3+2] = color.YCbCrToRGB(y0, u, v)
			d[x*3+3], d[x*3+4], d[x*3+5] = color.YCbCrToRGB(y1, u, v)
		}
	}
	return f, nil
}
