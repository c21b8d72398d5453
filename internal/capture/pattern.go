package capture

import (
	"fmt"
	"sync"
	"time"

	"github.com/smazurov/camview/internal/frame"
)

// PatternOptions configure a PatternDevice.
type PatternOptions struct {
	Width  int
	Height int
	// Interval paces ReadFrame; zero returns frames immediately.
	Interval time.Duration
	// FailEvery makes every n-th read a transient failure when > 0.
	FailEvery int
}

var barColors = [...][3]byte{
	{255, 255, 255}, {255, 255, 0}, {0, 255, 255}, {0, 255, 0},
	{255, 0, 255}, {255, 0, 0}, {0, 0, 255}, {0, 0, 0},
}

// PatternDevice renders colour bars with a vertical marker that advances one
// step per frame. The first pixel of every row stores the low byte of the
// read counter in its red channel.
type PatternDevice struct {
	opts   PatternOptions
	mu     sync.Mutex
	reads  int
	params map[Param]float64
	closed bool
	last   time.Time
}

// NewPatternDevice creates a synthetic capture source.
func NewPatternDevice(opts PatternOptions) *PatternDevice {
	if opts.Width <= 0 {
		opts.Width = 640
	}
	if opts.Height <= 0 {
		opts.Height = 480
	}
	return &PatternDevice{
		opts: opts,
		params: map[Param]float64{
			ParamBrightness:  0,
			ParamContrast:    32,
			ParamGain:        0,
			ParamFrameWidth:  float64(opts.Width),
			ParamFrameHeight: float64(opts.Height),
			ParamFPS:         fpsFor(opts.Interval),
		},
	}
}

func fpsFor(interval time.Duration) float64 {
	if interval <= 0 {
		return 0
	}
	return float64(time.Second) / float64(interval)
}

// ReadFrame implements Device.
func (d *PatternDevice) ReadFrame() (*frame.Frame, error) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil, fmt.Errorf("%w: pattern device closed", ErrDeviceLost)
	}
	d.reads++
	n := d.reads
	wait := time.Duration(0)
	if d.opts.Interval > 0 && !d.last.IsZero() {
		wait = d.opts.Interval - time.Since(d.last)
	}
	brightness := d.params[ParamBrightness]
	d.mu.Unlock()

	if wait > 0 {
		time.Sleep(wait)
	}

	d.mu.Lock()
	d.last = time.Now()
	d.mu.Unlock()

	if d.opts.FailEvery > 0 && n%d.opts.FailEvery == 0 {
		return nil, fmt.Errorf("%w: simulated miss on read %d", ErrTransientRead, n)
	}

	f := d.render(n, brightness)
	f.Time = time.Now()
	return f, nil
}

func (d *PatternDevice) render(n int, brightness float64) *frame.Frame {
	w, h := d.opts.Width, d.opts.Height
	f := frame.New(w, h)
	barWidth := max(1, w/len(barColors))
	marker := (n * 8) % w
	offset := int(brightness)

	for y := 0; y < h; y++ {
		row := f.Pix[y*f.Stride : (y+1)*f.Stride]
		for x := 0; x < w; x++ {
			c := barColors[min(x/barWidth, len(barColors)-1)]
			if x >= marker && x < marker+4 {
				c = [3]byte{128, 128, 128}
			}
			row[x*3] = clampByte(int(c[0]) + offset)
			row[x*3+1] = clampByte(int(c[1]) + offset)
			row[x*3+2] = clampByte(int(c[2]) + offset)
		}
		row[0] = byte(n)
	}
	return f
}

func clampByte(v int) byte {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return byte(v)
}

// Get implements Device.
func (d *PatternDevice) Get(p Param) float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.params[p]
}

// Set implements Device. Only adjustable controls are accepted.
func (d *PatternDevice) Set(p Param, v float64) bool {
	if !p.Adjustable() {
		return false
	}
	lo, hi, _ := d.Range(p)
	if v < lo || v > hi {
		return false
	}
	d.mu.Lock()
	d.params[p] = v
	d.mu.Unlock()
	return true
}

// Range implements Device.
func (d *PatternDevice) Range(p Param) (lo, hi float64, ok bool) {
	switch p {
	case ParamBrightness:
		return -64, 64, true
	case ParamContrast:
		return 0, 64, true
	case ParamGain:
		return 0, 100, true
	}
	return 0, 0, false
}

// Info implements Device.
func (d *PatternDevice) Info() Info {
	return Info{Path: PatternSpec, Format: "RGB3", Width: d.opts.Width, Height: d.opts.Height}
}

// Close implements Device.
func (d *PatternDevice) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return nil
}

// Closed reports whether Close has been called.
func (d *PatternDevice) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}
