package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/smazurov/camview/internal/capture"
	"github.com/smazurov/camview/internal/frame"
	"github.com/smazurov/camview/internal/logging"
	"github.com/smazurov/camview/internal/snapshot"
	"github.com/smazurov/camview/internal/view"
	"github.com/spf13/cobra"
)

// SnapshotOptions control a one-shot capture.
type SnapshotOptions struct {
	Output  string
	Rotate  int
	FlipV   bool
	FlipH   bool
	Skip    int
	Timeout time.Duration
}

// CreateSnapshotCmd creates the snapshot command. settings supplies the
// capture options parsed by the root command.
func CreateSnapshotCmd(settings func(*cobra.Command) CaptureSettings) *cobra.Command {
	var opts SnapshotOptions

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Capture one frame and save it",
		Long: `Open the camera, wait for a frame, apply rotation and flips, and save the result.
Without --output the configured save path is used, or ~/image_001.png.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := settings(cmd)
			spec, err := ChooseDevice(s.Device, os.Stdin, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			s.Device = spec
			if opts.Output == "" {
				opts.Output = s.SavePath
			}

			res, err := Snapshot(cmd.Context(), s, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%dx%d)\n", res.Path, res.Width, res.Height)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output file; the extension selects the format")
	cmd.Flags().IntVar(&opts.Rotate, "rotate", 0, "Quarter turns counter-clockwise")
	cmd.Flags().BoolVar(&opts.FlipV, "flip-v", false, "Mirror rows")
	cmd.Flags().BoolVar(&opts.FlipH, "flip-h", false, "Mirror columns")
	cmd.Flags().IntVar(&opts.Skip, "skip", 5, "Frames to discard while exposure settles")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 5*time.Second, "Give up when no frame arrives in time")
	return cmd
}

// Snapshot opens the device in s, captures until Skip frames have passed and
// saves the composed view to opts.Output.
func Snapshot(ctx context.Context, s CaptureSettings, opts SnapshotOptions) (view.SaveResult, error) {
	logger := logging.GetLogger("capture")

	if opts.Output != "" {
		if err := snapshot.ValidatePath(opts.Output); err != nil {
			return view.SaveResult{}, err
		}
	}

	dev, err := capture.Open(s.Device, s.OpenOptions())
	if err != nil {
		return view.SaveResult{}, err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	slot := &frame.Slot{}
	worker := capture.NewWorker(dev, slot)
	worker.Start(ctx)
	defer func() {
		worker.RequestStop()
		if err := worker.Wait(); err != nil {
			logger.Warn("Capture stopped with error", "error", err)
		}
	}()

	if err := waitForFrames(ctx, worker, uint64(opts.Skip)+1, opts.Timeout); err != nil {
		return view.SaveResult{}, err
	}

	ctrl := view.NewController(slot, snapshot.NewTarget(opts.Output))
	ctrl.SetRotation(opts.Rotate)
	ctrl.SetFlipVertical(opts.FlipV)
	ctrl.SetFlipHorizontal(opts.FlipH)
	return ctrl.Save()
}

// waitForFrames blocks until the worker has published n frames.
func waitForFrames(ctx context.Context, worker *capture.Worker, n uint64, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for worker.Frames() < n {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("no frame within %s: %w", timeout, view.ErrNoFrame)
			}
			return ctx.Err()
		case <-worker.Done():
			if err := worker.Wait(); err != nil {
				return err
			}
			return fmt.Errorf("capture ended early: %w", view.ErrNoFrame)
		case <-ticker.C:
		}
	}
	return nil
}
