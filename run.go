package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2/app"
	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/smazurov/camview/cmd"
	"github.com/smazurov/camview/internal/api"
	"github.com/smazurov/camview/internal/capture"
	"github.com/smazurov/camview/internal/config"
	"github.com/smazurov/camview/internal/devices"
	"github.com/smazurov/camview/internal/events"
	"github.com/smazurov/camview/internal/frame"
	"github.com/smazurov/camview/internal/logging"
	"github.com/smazurov/camview/internal/metrics"
	"github.com/smazurov/camview/internal/snapshot"
	"github.com/smazurov/camview/internal/ui"
	"github.com/smazurov/camview/internal/view"
)

const appID = "io.github.smazurov.camview"

// headlessStatusInterval is how often the terminal preview logs progress.
const headlessStatusInterval = 5 * time.Second

// run opens the camera and drives it until the window closes, q is entered
// in headless mode, or ctx is cancelled.
func run(ctx context.Context, opts *Options) error {
	logger := logging.GetLogger("main")
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bus := events.New()
	logging.SetLogCallback(api.LogPublisher(bus))
	defer logging.SetLogCallback(nil)

	// The device prompt and the headless quit command share one reader.
	stdin := bufio.NewReader(os.Stdin)
	spec, err := cmd.ChooseDevice(opts.Device, stdin, os.Stderr)
	if err != nil {
		return err
	}
	settings := opts.captureSettings()
	dev, err := capture.Open(spec, settings.OpenOptions())
	if err != nil {
		return err
	}

	workerOpts := []capture.Option{capture.WithEvents(bus)}
	if !opts.GUI {
		fmt.Fprintln(os.Stderr, "Headless preview: enter q to quit")
		workerOpts = append(workerOpts, capture.WithPreviewer(capture.NewTerminalPreviewer(stdin, headlessStatusInterval)))
	}
	slot := &frame.Slot{}
	worker := capture.NewWorker(dev, slot, workerOpts...)

	if v, ok, err := parseBrightness(opts.Brightness); err != nil {
		logger.Warn("Ignoring brightness override", "value", opts.Brightness, "error", err)
	} else if ok && !worker.SetBrightness(v) {
		logger.Warn("Brightness override rejected", "value", v)
	}

	ctrl := view.NewController(slot, snapshot.NewTarget(opts.SavePath), view.WithEvents(bus))
	ctrl.SetRotation(opts.Rotation)

	watcher := config.NewConfigWatcher(opts.Config, config.LoadCameraSettings, logging.GetLogger("config"))
	watcher.OnReload(func(s config.CameraSettings) {
		applyCameraSettings(worker, s)
	})
	if err := watcher.Start(); err != nil {
		logger.Warn("Config hot reload disabled", "path", opts.Config, "error", err)
	} else {
		defer func() {
			if err := watcher.Stop(); err != nil {
				logger.Warn("Failed to stop config watcher", "error", err)
			}
		}()
	}

	if opts.API {
		server := api.NewServer(&api.Options{
			AuthUsername:      opts.AuthUsername,
			AuthPassword:      opts.AuthPassword,
			Camera:            worker,
			Viewer:            ctrl,
			EventBus:          bus,
			FindDevices:       devices.FindDevices,
			PrometheusHandler: metrics.HTTPHandler(),
		})
		go func() {
			if err := server.Start(opts.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("API server failed", "error", err)
			}
		}()
		defer func() {
			if err := server.Stop(); err != nil {
				logger.Warn("Failed to stop API server", "error", err)
			}
		}()
	}

	monitor := devices.NewMonitor(bus)
	go func() {
		if err := monitor.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Info("Device hotplug monitoring unavailable", "error", err)
		}
	}()

	worker.Start(ctx)

	// Notify systemd that the camera is open and frames are flowing.
	if _, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		logger.Debug("sd_notify failed", "error", err)
	}

	if !opts.GUI {
		logger.Info("Capturing headless", "device", worker.Info().Path)
		return worker.Wait()
	}

	loop := view.NewLoop(ctrl, time.Duration(opts.IntervalMs)*time.Millisecond)
	window := ui.New(app.NewWithID(appID), worker, ctrl, loop, bus, ui.DefaultOptions())
	return window.Run(ctx)
}

// parseBrightness reads the optional brightness override. ok is false when
// the value is empty.
func parseBrightness(s string) (v float64, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	v, err = strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

// cameraSetter is the part of the worker a config reload touches.
type cameraSetter interface {
	Set(p capture.Param, v float64) bool
}

// applyCameraSettings pushes the keys present in s to the camera and reports
// which were rejected.
func applyCameraSettings(cam cameraSetter, s config.CameraSettings) []capture.Param {
	logger := logging.GetLogger("config")
	if s.Empty() {
		logger.Debug("Config reloaded without camera settings")
		return nil
	}

	var rejected []capture.Param
	apply := func(p capture.Param, v *float64) {
		if v == nil {
			return
		}
		if !cam.Set(p, *v) {
			rejected = append(rejected, p)
			logger.Warn("Camera rejected reloaded value", "param", p.String(), "value", *v)
			return
		}
		logger.Info("Applied reloaded camera setting", "param", p.String(), "value", *v)
	}
	apply(capture.ParamBrightness, s.Brightness)
	apply(capture.ParamContrast, s.Contrast)
	apply(capture.ParamGain, s.Gain)
	return rejected
}
