package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestWatcherReloadsCameraSettings(t *testing.T) {
	path := writeFile(t, "camview.toml", "[camera]\nbrightness = 0.1\n")

	received := make(chan CameraSettings, 1)
	w := NewConfigWatcher(path, LoadCameraSettings, newTestLogger(),
		WithDebounce[CameraSettings](50*time.Millisecond))
	w.OnReload(func(c CameraSettings) {
		select {
		case received <- c:
		default:
		}
	})

	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer func() {
		if err := w.Stop(); err != nil {
			t.Errorf("Stop: %v", err)
		}
	}()

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("[camera]\nbrightness = 0.9\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case c := <-received:
		if c.Brightness == nil || *c.Brightness != 0.9 {
			t.Errorf("brightness = %v, want 0.9", c.Brightness)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for reload")
	}
}

func TestWatcherPicksUpRenameSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "camview.toml")
	if err := os.WriteFile(path, []byte("[camera]\ngain = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	received := make(chan CameraSettings, 1)
	w := NewConfigWatcher(path, LoadCameraSettings, newTestLogger(),
		WithDebounce[CameraSettings](50*time.Millisecond))
	w.OnReload(func(c CameraSettings) {
		select {
		case received <- c:
		default:
		}
	})
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(100 * time.Millisecond)
	tmp := filepath.Join(dir, "camview.toml.swp")
	if err := os.WriteFile(tmp, []byte("[camera]\ngain = 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	select {
	case c := <-received:
		if c.Gain == nil || *c.Gain != 7 {
			t.Errorf("gain = %v, want 7", c.Gain)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for reload after rename")
	}
}

func TestWatcherDebouncesBursts(t *testing.T) {
	path := writeFile(t, "camview.toml", "[camera]\ncontrast = 0\n")

	calls := make(chan CameraSettings, 10)
	w := NewConfigWatcher(path, LoadCameraSettings, newTestLogger(),
		WithDebounce[CameraSettings](200*time.Millisecond))
	w.OnReload(func(c CameraSettings) { calls <- c })
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(100 * time.Millisecond)
	for i := 1; i <= 5; i++ {
		content := []byte(fmt.Sprintf("[camera]\ncontrast = %d\n", i))
		if err := os.WriteFile(path, content, 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	select {
	case c := <-calls:
		if c.Contrast == nil || *c.Contrast != 5 {
			t.Errorf("contrast = %v, want final value 5", c.Contrast)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for debounced reload")
	}

	select {
	case c := <-calls:
		t.Errorf("unexpected second reload: %+v", c)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatcherErrorHandler(t *testing.T) {
	path := writeFile(t, "camview.toml", "[camera]\n")

	errs := make(chan error, 1)
	w := NewConfigWatcher(path, LoadCameraSettings, newTestLogger(),
		WithErrorHandler[CameraSettings](func(err error) { errs <- err }))
	w.OnReload(func(CameraSettings) { t.Error("handler should not run on load error") })

	if err := os.WriteFile(path, []byte("[camera\nbroken"), 0o644); err != nil {
		t.Fatal(err)
	}
	w.Reload()

	select {
	case err := <-errs:
		if err == nil {
			t.Error("expected non-nil error")
		}
	default:
		t.Fatal("error handler not called")
	}
}

func TestWatcherUnsubscribe(t *testing.T) {
	path := writeFile(t, "camview.toml", "[camera]\ngain = 2\n")
	w := NewConfigWatcher(path, LoadCameraSettings, newTestLogger())

	count := 0
	unsubscribe := w.OnReload(func(CameraSettings) { count++ })
	w.Reload()
	unsubscribe()
	w.Reload()

	if count != 1 {
		t.Errorf("handler called %d times, want 1", count)
	}
}

func TestWatcherStartFailsForMissingDir(t *testing.T) {
	w := NewConfigWatcher(filepath.Join(t.TempDir(), "nope", "camview.toml"), LoadCameraSettings, newTestLogger())
	if err := w.Start(); err == nil {
		w.Stop()
		t.Fatal("expected error watching a missing directory")
	}
}
