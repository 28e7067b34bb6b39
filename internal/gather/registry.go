package gather

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jyang234/autopilot/internal/config"
	"github.com/jyang234/autopilot/internal/tasks"
	"github.com/jyang234/autopilot/internal/toolexec"
)

// Status describes how a source fared in a run
type Status string

const (
	StatusOK       Status = "ok"
	StatusSkipped  Status = "skipped"
	StatusFailed   Status = "failed"
	StatusDisabled Status = "disabled"
)

// Result is the outcome of one gatherer invocation
type Result struct {
	Source   string
	Tasks    []tasks.Task
	Duration time.Duration
	Err      error
	Status   Status
}

// Registry maps source names to gatherers
type Registry struct {
	gatherers map[string]Gatherer
	order     []string
	logger    *zap.Logger
}

// NewRegistry creates a registry holding the given gatherers
func NewRegistry(logger *zap.Logger, gs ...Gatherer) *Registry {
	r := &Registry{
		gatherers: make(map[string]Gatherer),
		logger:    logger,
	}
	for _, g := range gs {
		r.Register(g)
	}
	return r
}

// NewDefaultRegistry creates a registry with every built-in source
func NewDefaultRegistry(runner toolexec.Runner, logger *zap.Logger) *Registry {
	return NewRegistry(logger,
		NewGitHubIssues(runner, logger.Named(config.SourceGitHubIssues)),
		NewHandoff(logger.Named(config.SourceHandoff)),
		NewRoadmap(logger.Named(config.SourceRoadmap)),
		NewTodos(runner, logger.Named(config.SourceTodos)),
		NewCustom(logger.Named(config.SourceCustom)),
	)
}

// Register adds g, replacing any gatherer with the same name
func (r *Registry) Register(g Gatherer) {
	name := strings.ToLower(g.Name())
	if _, exists := r.gatherers[name]; !exists {
		r.order = append(r.order, name)
	}
	r.gatherers[name] = g
}

// Lookup returns the gatherer registered under name
func (r *Registry) Lookup(name string) (Gatherer, bool) {
	g, ok := r.gatherers[strings.ToLower(name)]
	return g, ok
}

// Names returns registered source names in registration order
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Run invokes each enabled gatherer in cfg.PriorityOrder. Names with no
// gatherer are ignored. When only is non-empty, other names are not run.
func (r *Registry) Run(ctx context.Context, root string, cfg config.Config, only []string) []Result {
	filter := make(map[string]bool, len(only))
	for _, name := range only {
		filter[strings.ToLower(strings.TrimSpace(name))] = true
	}

	var results []Result
	for _, name := range cfg.PriorityOrder {
		name = strings.ToLower(name)
		if len(filter) > 0 && !filter[name] {
			continue
		}

		g, ok := r.gatherers[name]
		if !ok {
			r.logger.Debug("no gatherer registered", zap.String("source", name))
			continue
		}

		if !cfg.Source(name).Enabled {
			r.logger.Debug("source disabled", zap.String("source", name))
			results = append(results, Result{Source: name, Status: StatusDisabled})
			continue
		}

		if err := ctx.Err(); err != nil {
			results = append(results, Result{Source: name, Err: err, Status: StatusFailed})
			continue
		}

		results = append(results, r.runOne(ctx, g, name, root, cfg))
	}

	return results
}

func (r *Registry) runOne(ctx context.Context, g Gatherer, name, root string, cfg config.Config) (res Result) {
	start := time.Now()
	res.Source = name

	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("source panicked",
				zap.String("source", name),
				zap.Any("panic", p),
				zap.ByteString("stack", debug.Stack()))
			res.Tasks = nil
			res.Err = fmt.Errorf("%s panicked: %v", name, p)
			res.Status = StatusFailed
		}
		res.Duration = time.Since(start)
	}()

	found, err := g.Gather(ctx, root, cfg)
	if err != nil {
		res.Err = err
		var skipErr *SkipError
		switch {
		case errors.As(err, &skipErr) && skipErr.Hint != "":
			res.Status = StatusSkipped
			r.logger.Warn(skipErr.Reason, zap.String("source", name), zap.String("hint", skipErr.Hint))
		case errors.As(err, &skipErr):
			res.Status = StatusSkipped
			fields := []zap.Field{zap.String("source", name)}
			if skipErr.Err != nil {
				fields = append(fields, zap.Error(skipErr.Err))
			}
			r.logger.Info("skipping source: "+skipErr.Reason, fields...)
		default:
			res.Status = StatusFailed
			r.logger.Error("source failed", zap.String("source", name), zap.Error(err))
		}
		return res
	}

	res.Tasks = found
	res.Status = StatusOK
	r.logger.Info("gathered tasks", zap.String("source", name), zap.Int("count", len(found)))
	return res
}

// Flatten concatenates the tasks of every result in order
func Flatten(results []Result) []tasks.Task {
	var all []tasks.Task
	for _, res := range results {
		all = append(all, res.Tasks...)
	}
	return all
}
