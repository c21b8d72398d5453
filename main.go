package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/smazurov/camview/cmd"
	"github.com/smazurov/camview/internal/config"
	"github.com/smazurov/camview/internal/logging"
	"github.com/spf13/cobra"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"camview.toml"`

	// Capture settings
	Device     string `help:"Camera index, /dev path, by-id name, or 'test' for a synthetic pattern; prompts when empty and several cameras exist" short:"d" default:"" toml:"capture.device" env:"CAPTURE_DEVICE"`
	Width      int    `help:"Requested frame width; the largest supported size within the request is used" default:"3840" toml:"capture.width" env:"CAPTURE_WIDTH"`
	Height     int    `help:"Requested frame height" default:"2160" toml:"capture.height" env:"CAPTURE_HEIGHT"`
	FPS        int    `help:"Requested frame rate; 0 keeps the driver default" default:"0" toml:"capture.fps" env:"CAPTURE_FPS"`
	Format     string `help:"Pixel format (auto, MJPG, YUYV)" default:"auto" toml:"capture.format" env:"CAPTURE_FORMAT"`
	Brightness string `help:"Initial brightness override; empty leaves the device value" default:"" toml:"camera.brightness" env:"CAMERA_BRIGHTNESS"`

	// View settings
	GUI        bool   `help:"Open the desktop window instead of the headless preview" default:"false" toml:"view.gui" env:"VIEW_GUI"`
	SavePath   string `help:"First snapshot file; each save increments its number" default:"" toml:"view.save_path" env:"VIEW_SAVE_PATH"`
	IntervalMs int    `help:"Render loop interval in milliseconds" default:"33" toml:"view.interval_ms" env:"VIEW_INTERVAL_MS"`
	Rotation   int    `help:"Initial quarter turns counter-clockwise" default:"0" toml:"view.rotation" env:"VIEW_ROTATION"`

	// API settings
	API          bool   `help:"Serve the HTTP control API" default:"false" toml:"api.enabled" env:"API_ENABLED"`
	Port         string `help:"API listen address" short:"p" default:":8090" toml:"api.port" env:"API_PORT"`
	AuthUsername string `help:"Basic auth username; empty disables auth" default:"" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Logging settings
	LoggingLevel   string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat  string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingCapture string `help:"Capture logging level" default:"info" toml:"logging.capture" env:"LOGGING_CAPTURE"`
	LoggingView    string `help:"View logging level" default:"info" toml:"logging.view" env:"LOGGING_VIEW"`
	LoggingAPI     string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
	LoggingUI      string `help:"Window logging level" default:"info" toml:"logging.ui" env:"LOGGING_UI"`
	LoggingDevices string `help:"Devices logging level" default:"info" toml:"logging.devices" env:"LOGGING_DEVICES"`
	LoggingConfig  string `help:"Config logging level" default:"info" toml:"logging.config" env:"LOGGING_CONFIG"`
}

// loggingConfig maps the logging flags onto per-module levels.
func (o *Options) loggingConfig() logging.Config {
	return logging.Config{
		Level:  o.LoggingLevel,
		Format: o.LoggingFormat,
		Modules: map[string]string{
			"capture": o.LoggingCapture,
			"view":    o.LoggingView,
			"api":     o.LoggingAPI,
			"ui":      o.LoggingUI,
			"devices": o.LoggingDevices,
			"config":  o.LoggingConfig,
		},
	}
}

func main() {
	var cli humacli.CLI
	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		// Runs for every command once flags are parsed.
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}
		logging.Initialize(opts.loggingConfig())
	})

	root := cli.Root()
	root.Use = "camview"
	root.Short = "Live webcam viewer with ROI, zoom, rotation and snapshots"

	// fyne must own the main goroutine, so the root command runs the viewer
	// itself rather than through humacli's start hook.
	root.Run = func(c *cobra.Command, _ []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := run(ctx, optionsFrom(c)); err != nil {
			logging.GetLogger("main").Error("camview failed", "error", err)
			stop()
			os.Exit(1)
		}
	}

	root.AddCommand(cmd.CreateDevicesCmd())
	root.AddCommand(cmd.CreateSnapshotCmd(func(c *cobra.Command) cmd.CaptureSettings {
		return optionsFrom(c).captureSettings()
	}))

	cli.Run()
}

// optionsFrom returns the options humacli parsed for c.
func optionsFrom(c *cobra.Command) *Options {
	var out *Options
	humacli.WithOptions(func(_ *cobra.Command, _ []string, opts *Options) {
		out = opts
	})(c, nil)
	return out
}

func (o *Options) captureSettings() cmd.CaptureSettings {
	return cmd.CaptureSettings{
		Device:   o.Device,
		Width:    o.Width,
		Height:   o.Height,
		FPS:      o.FPS,
		Format:   o.Format,
		SavePath: o.SavePath,
	}
}
