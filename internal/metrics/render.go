package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	renderDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "view",
		Name:      "render_pass_seconds",
		Help:      "Duration of one compose and present pass",
		Buckets:   []float64{.001, .0025, .005, .01, .02, .033, .05, .1, .25},
	})

	snapshots = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "snapshot",
		Name:      "saves_total",
		Help:      "Snapshot save attempts by result",
	}, []string{"result"})

	renderPasses   atomic.Uint64
	snapshotsSaved atomic.Uint64
	snapshotsFail  atomic.Uint64
)

// ObserveRenderPass records the duration of a render pass.
func ObserveRenderPass(d time.Duration) {
	renderDuration.Observe(d.Seconds())
	renderPasses.Add(1)
}

// RecordSnapshot counts a save attempt.
func RecordSnapshot(ok bool) {
	if ok {
		snapshots.WithLabelValues("saved").Inc()
		snapshotsSaved.Add(1)
		return
	}
	snapshots.WithLabelValues("failed").Inc()
	snapshotsFail.Add(1)
}

// RenderPasses returns the number of observed render passes.
func RenderPasses() uint64 {
	return renderPasses.Load()
}

// SnapshotCounts returns saved and failed snapshot totals.
func SnapshotCounts() (saved, failed uint64) {
	return snapshotsSaved.Load(), snapshotsFail.Load()
}
