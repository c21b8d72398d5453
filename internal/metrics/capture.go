// Package metrics provides Prometheus metrics for capture, rendering and snapshots.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "camview"

var (
	captureFrames = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "capture",
		Name:      "frames_total",
		Help:      "Frames published to the frame slot",
	})

	captureReadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "capture",
		Name:      "read_failures_total",
		Help:      "Transient read failures that skipped a capture cycle",
	})

	captureLastFrame = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "capture",
		Name:      "last_frame_timestamp_seconds",
		Help:      "Unix time of the most recently published frame",
	})

	captureFPS = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "capture",
		Name:      "fps",
		Help:      "Measured capture frame rate",
	})

	paramSets = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "capture",
		Name:      "param_sets_total",
		Help:      "Capture parameter set attempts by result",
	}, []string{"param", "result"})

	// Local cache for API access.
	captureStats   CaptureStats
	captureStatsMu sync.RWMutex
)

// CaptureStats holds current capture counters.
type CaptureStats struct {
	Frames       uint64
	ReadFailures uint64
	FPS          float64
	LastFrame    time.Time
}

// RecordFrame counts a published frame captured at ts.
func RecordFrame(ts time.Time) {
	captureFrames.Inc()
	captureLastFrame.Set(float64(ts.UnixNano()) / 1e9)

	captureStatsMu.Lock()
	captureStats.Frames++
	captureStats.LastFrame = ts
	captureStatsMu.Unlock()
}

// RecordReadFailure counts a skipped capture cycle.
func RecordReadFailure() {
	captureReadFailures.Inc()

	captureStatsMu.Lock()
	captureStats.ReadFailures++
	captureStatsMu.Unlock()
}

// SetCaptureFPS sets the measured capture frame rate.
func SetCaptureFPS(fps float64) {
	captureFPS.Set(fps)

	captureStatsMu.Lock()
	captureStats.FPS = fps
	captureStatsMu.Unlock()
}

// RecordParamSet counts a parameter set attempt.
func RecordParamSet(param string, ok bool) {
	result := "ok"
	if !ok {
		result = "rejected"
	}
	paramSets.WithLabelValues(param, result).Inc()
}

// GetCaptureStats returns a copy of the current capture counters.
func GetCaptureStats() CaptureStats {
	captureStatsMu.RLock()
	defer captureStatsMu.RUnlock()
	return captureStats
}
