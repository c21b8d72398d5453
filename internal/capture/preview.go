package capture

import (
	"bufio"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/smazurov/camview/internal/frame"
	"github.com/smazurov/camview/internal/logging"
	"github.com/smazurov/camview/internal/metrics"
)

// TerminalPreviewer is the headless preview: it logs capture progress
// periodically and stops the worker when a line reading "q" arrives on its input.
type TerminalPreviewer struct {
	interval time.Duration
	logger   *slog.Logger
	quit     atomic.Bool
	lastLog  time.Time
}

// NewTerminalPreviewer starts reading quit commands from in.
func NewTerminalPreviewer(in io.Reader, interval time.Duration) *TerminalPreviewer {
	p := &TerminalPreviewer{
		interval: interval,
		logger:   logging.GetLogger("capture"),
	}
	if in != nil {
		go p.readCommands(in)
	}
	return p
}

func (p *TerminalPreviewer) readCommands(in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if strings.EqualFold(strings.TrimSpace(scanner.Text()), "q") {
			p.quit.Store(true)
			return
		}
	}
}

// Show implements Previewer.
func (p *TerminalPreviewer) Show(f *frame.Frame) bool {
	if p.interval > 0 && f.Time.Sub(p.lastLog) >= p.interval {
		p.lastLog = f.Time
		p.logger.Info("Preview",
			"frame", f.Seq,
			"width", f.Width,
			"height", f.Height,
			"fps", metrics.GetCaptureStats().FPS)
	}
	return p.quit.Load()
}
