//go:build linux

package capture

import (
	"log/slog"
	"math"
	"syscall"
	"time"

	"github.com/blackjack/webcam"
	"github.com/pkg/errors"

	"github.com/smazurov/camview/internal/frame"
	"github.com/smazurov/camview/internal/logging"
)

// V4L2 control ids.
const (
	cidBrightness webcam.ControlID = 0x00980900
	cidContrast   webcam.ControlID = 0x00980901
	cidGain       webcam.ControlID = 0x00980913
)

const (
	pixMJPEG webcam.PixelFormat = 0x47504A4D
	pixYUYV  webcam.PixelFormat = 0x56595559
)

type webcamDevice struct {
	cam     *webcam.Webcam
	info    Info
	decode  frame.Decoder
	waitSec uint32
	logger  *slog.Logger
}

func openWebcam(path string, opts OpenOptions) (Device, error) {
	logger := logging.GetLogger("capture")

	cam, err := webcam.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "can not open device")
	}

	pf, err := choosePixelFormat(cam.GetSupportedFormats(), opts.Format)
	if err != nil {
		cam.Close()
		return nil, err
	}

	w, h := chooseFrameSize(cam.GetSupportedFrameSizes(pf), uint32(opts.Width), uint32(opts.Height))
	pf, w, h, err = cam.SetImageFormat(pf, w, h)
	if err != nil {
		cam.Close()
		return nil, errors.Wrapf(err, "can not set image format %s %dx%d", fourCC(pf), w, h)
	}

	decode, err := frame.DecoderFor(fourCC(pf))
	if err != nil {
		cam.Close()
		return nil, errors.Wrap(err, "driver negotiated an unsupported format")
	}

	if opts.BufferCount > 0 {
		if err := cam.SetBufferCount(opts.BufferCount); err != nil {
			logger.Debug("Buffer count not accepted", "count", opts.BufferCount, "error", err)
		}
	}
	if opts.FPS > 0 {
		if err := cam.SetFramerate(float32(opts.FPS)); err != nil {
			logger.Debug("Frame rate not accepted", "fps", opts.FPS, "error", err)
		}
	}

	if err := cam.StartStreaming(); err != nil {
		cam.Close()
		return nil, errors.Wrap(err, "can not start streaming")
	}

	waitSec := uint32(math.Ceil(opts.Wait.Seconds()))
	if waitSec == 0 {
		waitSec = 1
	}

	d := &webcamDevice{
		cam:     cam,
		decode:  decode,
		waitSec: waitSec,
		logger:  logger,
		info: Info{
			Path:   path,
			Format: fourCC(pf),
			Width:  int(w),
			Height: int(h),
		},
	}
	logger.Info("Capture device opened", "path", path, "format", d.info.Format, "width", w, "height", h)
	return d, nil
}

func (d *webcamDevice) ReadFrame() (*frame.Frame, error) {
	err := d.cam.WaitForFrame(d.waitSec)
	switch err.(type) {
	case nil:
	case *webcam.Timeout:
		return nil, errors.Wrap(ErrTransientRead, "frame wait timed out")
	default:
		return nil, classifyReadError(err, "frame wait failed")
	}

	// The buffer stays dequeued until decoding is done so the driver cannot
	// refill it underneath the decoder.
	buf, index, err := d.cam.GetFrame()
	if err != nil {
		return nil, classifyReadError(err, "dequeue frame failed")
	}
	defer func() {
		if err := d.cam.ReleaseFrame(index); err != nil {
			d.logger.Debug("Failed to requeue frame buffer", "index", index, "error", err)
		}
	}()

	if len(buf) == 0 {
		return nil, errors.Wrap(ErrTransientRead, "empty frame buffer")
	}

	f, err := d.decode(d.info.Width, d.info.Height, buf)
	if err != nil {
		return nil, errors.Wrapf(ErrTransientRead, "undecodable frame: %v", err)
	}
	f.Time = time.Now()
	return f, nil
}

// classifyReadError marks a vanished device as lost and every other driver
// error as a skipped cycle.
func classifyReadError(err error, msg string) error {
	if errors.Is(err, syscall.ENODEV) || errors.Is(err, syscall.EBADF) || errors.Is(err, syscall.ENXIO) {
		return errors.Wrapf(ErrDeviceLost, "%s: %v", msg, err)
	}
	return errors.Wrapf(ErrTransientRead, "%s: %v", msg, err)
}

func (d *webcamDevice) Get(p Param) float64 {
	switch p {
	case ParamBrightness, ParamContrast, ParamGain:
		v, err := d.cam.GetControl(controlID(p))
		if err != nil {
			return 0
		}
		return float64(v)
	case ParamFrameWidth:
		return float64(d.info.Width)
	case ParamFrameHeight:
		return float64(d.info.Height)
	case ParamFPS:
		fps, err := d.cam.GetFramerate()
		if err != nil {
			return 0
		}
		return float64(fps)
	}
	return 0
}

func (d *webcamDevice) Set(p Param, v float64) bool {
	switch p {
	case ParamBrightness, ParamContrast, ParamGain:
		return d.cam.SetControl(controlID(p), int32(math.Round(v))) == nil
	case ParamFPS:
		return d.cam.SetFramerate(float32(v)) == nil
	case ParamFrameWidth, ParamFrameHeight:
		// The format is fixed once streaming has started.
		return false
	}
	return false
}

func (d *webcamDevice) Range(p Param) (lo, hi float64, ok bool) {
	if !p.Adjustable() {
		return 0, 0, false
	}
	c, found := d.cam.GetControls()[controlID(p)]
	if !found {
		return 0, 0, false
	}
	return float64(c.Min), float64(c.Max), true
}

func (d *webcamDevice) Info() Info {
	return d.info
}

func (d *webcamDevice) Close() error {
	if err := d.cam.StopStreaming(); err != nil {
		d.logger.Debug("Stop streaming failed", "error", err)
	}
	return errors.Wrap(d.cam.Close(), "close device")
}

func controlID(p Param) webcam.ControlID {
	switch p {
	case ParamContrast:
		return cidContrast
	case ParamGain:
		return cidGain
	default:
		return cidBrightness
	}
}

func fourCC(pf webcam.PixelFormat) string {
	return string([]byte{byte(pf), byte(pf >> 8), byte(pf >> 16), byte(pf >> 24)})
}

func choosePixelFormat(supported map[webcam.PixelFormat]string, want string) (webcam.PixelFormat, error) {
	switch want {
	case "MJPG":
		if _, ok := supported[pixMJPEG]; ok {
			return pixMJPEG, nil
		}
	case "YUYV":
		if _, ok := supported[pixYUYV]; ok {
			return pixYUYV, nil
		}
	default:
		for _, pf := range []webcam.PixelFormat{pixMJPEG, pixYUYV} {
			if _, ok := supported[pf]; ok {
				return pf, nil
			}
		}
	}
	names := make([]string, 0, len(supported))
	for _, name := range supported {
		names = append(names, name)
	}
	return 0, errors.Errorf("no supported pixel format (want %s, device offers %v)", want, names)
}

// chooseFrameSize picks the largest size that fits inside the request, or
// the smallest available size when nothing fits.
func chooseFrameSize(sizes []webcam.FrameSize, reqW, reqH uint32) (uint32, uint32) {
	var bestW, bestH, minW, minH uint32
	for _, s := range sizes {
		w := clampStep(reqW, s.MinWidth, s.MaxWidth, s.StepWidth)
		h := clampStep(reqH, s.MinHeight, s.MaxHeight, s.StepHeight)

		if minW == 0 || w*h < minW*minH {
			minW, minH = w, h
		}
		if w <= reqW && h <= reqH && w*h > bestW*bestH {
			bestW, bestH = w, h
		}
	}
	if bestW == 0 {
		if minW == 0 {
			return reqW, reqH
		}
		return minW, minH
	}
	return bestW, bestH
}

func clampStep(v, lo, hi, step uint32) uint32 {
	if step == 0 || lo == hi {
		return hi
	}
	if v < lo {
		return lo
	}
	if v > hi {
		v = hi
	}
	return lo + (v-lo)/step*step
}
