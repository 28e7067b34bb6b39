package gather

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/jyang234/autopilot/internal/config"
	"github.com/jyang234/autopilot/internal/pathguard"
	"github.com/jyang234/autopilot/internal/tasks"
	"github.com/jyang234/autopilot/internal/toolexec"
)

const (
	todosLabel  = "Inline TODOs"
	todoPattern = "(TODO|FIXME|HACK|XXX):"
)

// Markers are checked in this order; the first one present in a line wins.
var todoMarkers = []string{"TODO:", "FIXME:", "HACK:", "XXX:"}

// SourceExtensions limits the search to source files
var SourceExtensions = []string{
	"*.ts", "*.tsx", "*.js", "*.jsx", "*.py", "*.php", "*.rb", "*.go",
	"*.rs", "*.java", "*.c", "*.cpp", "*.h", "*.cs", "*.swift", "*.kt",
}

// Todos collects inline TODO/FIXME/HACK/XXX annotations with grep
type Todos struct {
	runner toolexec.Runner
	logger *zap.Logger
}

// NewTodos creates the inline annotation gatherer
func NewTodos(runner toolexec.Runner, logger *zap.Logger) *Todos {
	return &Todos{runner: runner, logger: logger}
}

func (g *Todos) Name() string { return config.SourceTodos }

func (g *Todos) Description() string {
	return "TODO, FIXME, HACK and XXX comments in source files"
}

func (g *Todos) Gather(ctx context.Context, root string, cfg config.Config) ([]tasks.Task, error) {
	if !g.runner.LookPath("grep") {
		return nil, skip(g.Name(), "grep not available", nil)
	}

	sc := cfg.Source(g.Name())
	limit := sc.Limit(config.MaxTodosLimit)

	var result []tasks.Task
	for _, p := range sc.Paths {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		dir, err := pathguard.Resolve(p, root)
		if err != nil {
			g.logger.Warn("path escapes project directory", zap.String("path", p), zap.Error(err))
			continue
		}
		if _, err := os.Stat(dir); err != nil {
			g.logger.Debug("path not found", zap.String("path", p))
			continue
		}

		found, err := g.search(ctx, root, dir, sc.Exclude, limit)
		if err != nil {
			if errors.Is(err, toolexec.ErrTimeout) {
				g.logger.Warn("search timed out", zap.String("path", p))
			} else {
				g.logger.Warn("search failed", zap.String("path", p), zap.Error(err))
			}
			continue
		}
		result = append(result, found...)
	}

	return result, nil
}

func (g *Todos) search(ctx context.Context, root, dir string, exclude []string, limit int) ([]tasks.Task, error) {
	out, err := g.runner.Run(ctx, root, toolexec.SearchTimeout, "grep", grepArgs(dir, exclude)...)
	if err != nil {
		// Status 1 means no line matched
		if toolexec.ExitCode(err) != 1 {
			return nil, err
		}
	}

	var result []tasks.Task
	for _, line := range strings.Split(out, "\n") {
		if len(result) >= limit {
			break
		}
		if t, ok := parseGrepLine(line, root); ok {
			result = append(result, t)
		}
	}
	return result, nil
}

// grepArgs builds the argument vector; options precede the pattern for BSD grep.
// -H keeps the file name when the search path is a single file.
func grepArgs(dir string, exclude []string) []string {
	args := []string{"-rnH", "-E"}
	for _, e := range exclude {
		e = strings.Trim(e, "/")
		if e != "" {
			args = append(args, "--exclude-dir="+e)
		}
	}
	for _, ext := range SourceExtensions {
		args = append(args, "--include="+ext)
	}
	return append(args, "-e", todoPattern, dir)
}

// parseGrepLine turns "path:line:content" into a low priority task
func parseGrepLine(line, root string) (tasks.Task, bool) {
	parts := strings.SplitN(line, ":", 3)
	if len(parts) < 3 {
		return tasks.Task{}, false
	}
	path, lineNo, content := parts[0], parts[1], parts[2]

	for _, marker := range todoMarkers {
		idx := strings.Index(content, marker)
		if idx < 0 {
			continue
		}
		rest := strings.TrimSpace(content[idx+len(marker):])
		rest = strings.TrimSpace(strings.TrimRight(rest, "*/"))

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		text := fmt.Sprintf("%s %s (%s:%s)", marker, rest, filepath.ToSlash(rel), lineNo)
		return tasks.New(text, todosLabel, tasks.PriorityLow), true
	}
	return tasks.Task{}, false
}
