// Package pipeline runs one gather-merge-render-persist cycle.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/jyang234/autopilot/internal/config"
	"github.com/jyang234/autopilot/internal/document"
	"github.com/jyang234/autopilot/internal/gather"
	"github.com/jyang234/autopilot/internal/metrics"
	"github.com/jyang234/autopilot/internal/pathguard"
	"github.com/jyang234/autopilot/internal/tasks"
)

// DefaultOutput is the document written inside the project root
const DefaultOutput = "TASKS.md"

// Options configures a run
type Options struct {
	ProjectDir  string
	Output      string   // Relative to the project root unless absolute
	ConfigPath  string   // Optional explicit config file
	DryRun      bool     // Render without writing
	Sources     []string // Restrict the run to these sources
	MetricsFile string   // Optional node_exporter textfile
}

// Outcome describes a finished run
type Outcome struct {
	Root       string
	OutputPath string
	Config     config.Config
	Results    []gather.Result
	Gathered   int // Tasks found before deduplication
	Buckets    document.Buckets
	Content    string // Empty when no tasks were found
	Written    bool
}

// NoTasks reports whether every source came back empty
func (o *Outcome) NoTasks() bool {
	return o.Gathered == 0
}

// Pipeline wires the registry, aggregator, renderer and persister
type Pipeline struct {
	registry *gather.Registry
	logger   *zap.Logger
	now      func() time.Time
}

// New creates a pipeline around registry
func New(registry *gather.Registry, logger *zap.Logger) *Pipeline {
	return &Pipeline{registry: registry, logger: logger, now: time.Now}
}

// WithClock replaces the clock used for the document timestamp
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// Root returns the canonical absolute project directory
func Root(projectDir string) (string, error) {
	if projectDir == "" {
		projectDir = "."
	}
	abs, err := filepath.Abs(projectDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project directory: %w", err)
	}
	return pathguard.Canonical(abs)
}

// OutputPath returns where the document for root is written
func OutputPath(root, output string) string {
	if output == "" {
		output = DefaultOutput
	}
	if filepath.IsAbs(output) {
		return filepath.Clean(output)
	}
	return filepath.Join(root, output)
}

// Run gathers from every selected source and writes the merged document.
// Only failing to read the previous document or to persist the new one is
// returned as an error.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Outcome, error) {
	root, err := Root(opts.ProjectDir)
	if err != nil {
		return nil, err
	}

	out := &Outcome{
		Root:       root,
		OutputPath: OutputPath(root, opts.Output),
		Config:     config.Load(root, opts.ConfigPath, p.logger),
	}

	p.logger.Info("gathering tasks", zap.String("project", root))
	out.Results = p.registry.Run(ctx, root, out.Config, opts.Sources)
	all := gather.Flatten(out.Results)
	out.Gathered = len(all)

	if out.NoTasks() {
		p.writeMetrics(opts.MetricsFile, out)
		return out, nil
	}

	previous, err := readPrevious(out.OutputPath)
	if err != nil {
		return out, err
	}

	completed := document.ParseCompleted(previous)
	out.Buckets = document.Aggregate(all, completed)
	out.Content = document.Render(out.Buckets, p.now())

	if !opts.DryRun {
		if err := tasks.Commit(out.OutputPath, out.Content); err != nil {
			return out, err
		}
		out.Written = true
		p.logger.Info("wrote task list",
			zap.String("path", out.OutputPath),
			zap.Int("pending", out.Buckets.PendingCount()),
			zap.Int("completed", len(out.Buckets.Completed)))
	}

	p.writeMetrics(opts.MetricsFile, out)
	return out, nil
}

// readPrevious returns the current document, or "" when there is none. A
// document that exists but cannot be read is an error so it is never replaced.
func readPrevious(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read previous task list %s: %w", path, err)
	}
	return string(data), nil
}

func (p *Pipeline) writeMetrics(path string, out *Outcome) {
	if path == "" {
		return
	}
	rec := metrics.NewRecorder()
	rec.Observe(out.Results, out.Buckets, p.now())
	if err := rec.WriteFile(path); err != nil {
		p.logger.Warn("failed to write metrics", zap.Error(err))
	}
}
