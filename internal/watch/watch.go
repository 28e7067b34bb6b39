// Package watch re-runs task gathering when its inputs change on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/jyang234/autopilot/internal/config"
	"github.com/jyang234/autopilot/internal/gather"
	"github.com/jyang234/autopilot/internal/pathguard"
	"github.com/jyang234/autopilot/internal/tasks"
)

// DefaultDebounce groups bursts of events such as an editor's save sequence
const DefaultDebounce = 500 * time.Millisecond

// Plan lists the paths a watcher reacts to. All paths are absolute.
type Plan struct {
	Root    string
	Files   []string // Individual inputs such as HANDOFF.md
	Trees   []string // Directories watched recursively
	Exclude []string // Directory names skipped inside trees
	Ignore  []string // Files whose changes never trigger a run
}

// PlanFor derives the watch plan for a project from its configuration
func PlanFor(root string, cfg config.Config, configPath, outputPath string) Plan {
	cfgFile := config.Path(root, configPath)
	if abs, err := filepath.Abs(cfgFile); err == nil {
		cfgFile = abs
	}

	plan := Plan{
		Root:   root,
		Files:  []string{cfgFile},
		Ignore: []string{filepath.Clean(outputPath)},
	}

	if cfg.Source(config.SourceHandoff).Enabled {
		plan.Files = append(plan.Files, filepath.Join(root, gather.HandoffFile))
	}
	for _, name := range []string{config.SourceRoadmap, config.SourceCustom} {
		sc := cfg.Source(name)
		if !sc.Enabled {
			continue
		}
		for _, f := range sc.Files {
			if abs, err := pathguard.Resolve(f, root); err == nil {
				plan.Files = append(plan.Files, abs)
			}
		}
	}

	if sc := cfg.Source(config.SourceTodos); sc.Enabled {
		for _, p := range sc.Paths {
			if abs, err := pathguard.Resolve(p, root); err == nil {
				plan.Trees = append(plan.Trees, abs)
			}
		}
		for _, e := range sc.Exclude {
			if e = strings.Trim(e, "/"); e != "" {
				plan.Exclude = append(plan.Exclude, e)
			}
		}
	}

	return plan
}

// RunFunc performs one run and returns the plan for the next one
type RunFunc func(ctx context.Context) (Plan, error)

// Watcher serializes runs triggered by filesystem events
type Watcher struct {
	Debounce time.Duration

	logger  *zap.Logger
	watcher *fsnotify.Watcher
	plan    Plan
	watched map[string]bool
}

// New creates a watcher
func New(logger *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &Watcher{
		Debounce: DefaultDebounce,
		logger:   logger,
		watcher:  fw,
		watched:  make(map[string]bool),
	}, nil
}

// Run calls run once, then again after every debounced batch of relevant
// changes, until ctx is done. A failed run is logged and watching continues.
func (w *Watcher) Run(ctx context.Context, run RunFunc) error {
	defer w.watcher.Close()

	w.runOnce(ctx, run)

	timer := time.NewTimer(w.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.handleEvent(event) {
				timer.Reset(w.Debounce)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-timer.C:
			w.runOnce(ctx, run)
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context, run RunFunc) {
	plan, err := run(ctx)
	if err != nil {
		w.logger.Error("run failed", zap.Error(err))
	}
	if plan.Root != "" {
		w.apply(plan)
	}
}

// apply starts watching every directory the plan needs
func (w *Watcher) apply(plan Plan) {
	w.plan = plan

	w.add(plan.Root)
	for _, f := range plan.Files {
		w.add(filepath.Dir(f))
	}
	for _, tree := range plan.Trees {
		w.addTree(tree)
	}
}

func (w *Watcher) add(dir string) {
	if w.watched[dir] {
		return
	}
	if err := w.watcher.Add(dir); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			w.logger.Warn("cannot watch directory", zap.String("dir", dir), zap.Error(err))
		}
		return
	}
	w.watched[dir] = true
	w.logger.Debug("watching", zap.String("dir", dir))
}

func (w *Watcher) addTree(root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && w.excluded(d.Name()) {
			return filepath.SkipDir
		}
		w.add(path)
		return nil
	})
}

func (w *Watcher) excluded(name string) bool {
	for _, e := range w.plan.Exclude {
		if name == e {
			return true
		}
	}
	return false
}

// handleEvent reports whether the event should trigger a run
func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	path := filepath.Clean(event.Name)
	if !w.relevant(path) {
		return false
	}

	// Newly created directories inside a tree are watched too
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			w.addTree(path)
		}
	}

	w.logger.Debug("change detected", zap.String("path", path), zap.String("op", event.Op.String()))
	return true
}

func (w *Watcher) relevant(path string) bool {
	if strings.HasPrefix(filepath.Base(path), tasks.TempPrefix) {
		return false
	}
	for _, ignored := range w.plan.Ignore {
		if path == ignored {
			return false
		}
	}
	for _, f := range w.plan.Files {
		if path == f {
			return true
		}
	}
	for _, tree := range w.plan.Trees {
		if pathguard.Within(path, tree) && !w.inExcluded(path, tree) {
			return true
		}
	}
	return false
}

func (w *Watcher) inExcluded(path, tree string) bool {
	rel, err := filepath.Rel(tree, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if w.excluded(part) {
			return true
		}
	}
	return false
}
