// Package metrics exports per-run gauges in the node_exporter textfile format.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jyang234/autopilot/internal/document"
	"github.com/jyang234/autopilot/internal/gather"
	"github.com/jyang234/autopilot/internal/tasks"
)

const namespace = "autopilot"

// Recorder holds the gauges describing the latest run
type Recorder struct {
	registry *prometheus.Registry

	sourceTasks    *prometheus.GaugeVec
	sourceDuration *prometheus.GaugeVec
	sourceSkipped  *prometheus.GaugeVec
	pendingTasks   *prometheus.GaugeVec
	lastRun        prometheus.Gauge
}

// NewRecorder creates a recorder with its own registry
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		sourceTasks: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "source_tasks",
			Help:      "Tasks gathered from each source in the last run.",
		}, []string{"source"}),
		sourceDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "source_duration_seconds",
			Help:      "Time spent gathering from each source in the last run.",
		}, []string{"source"}),
		sourceSkipped: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "source_skipped",
			Help:      "1 if the source was skipped or failed in the last run, else 0.",
		}, []string{"source"}),
		pendingTasks: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_tasks",
			Help:      "Pending tasks written to the document, by priority.",
		}, []string{"priority"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last completed run.",
		}),
	}

	r.registry.MustRegister(r.sourceTasks, r.sourceDuration, r.sourceSkipped, r.pendingTasks, r.lastRun)
	return r
}

// Observe replaces the gauges with the outcome of one run
func (r *Recorder) Observe(results []gather.Result, b document.Buckets, now time.Time) {
	r.sourceTasks.Reset()
	r.sourceDuration.Reset()
	r.sourceSkipped.Reset()
	r.pendingTasks.Reset()

	for _, res := range results {
		if res.Status == gather.StatusDisabled {
			continue
		}
		r.sourceTasks.WithLabelValues(res.Source).Set(float64(len(res.Tasks)))
		r.sourceDuration.WithLabelValues(res.Source).Set(res.Duration.Seconds())

		skipped := 0.0
		if res.Status == gather.StatusSkipped || res.Status == gather.StatusFailed {
			skipped = 1
		}
		r.sourceSkipped.WithLabelValues(res.Source).Set(skipped)
	}

	for _, p := range tasks.Priorities {
		r.pendingTasks.WithLabelValues(string(p)).Set(float64(len(b.Pending[p])))
	}

	r.lastRun.Set(float64(now.Unix()))
}

// WriteFile writes the gauges to path atomically
func (r *Recorder) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
