package gather

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jyang234/autopilot/internal/config"
	"github.com/jyang234/autopilot/internal/tasks"
)

// Gatherer extracts tasks from one category of source
type Gatherer interface {
	// Name is the source key used in configuration
	Name() string

	// Gather returns the source's tasks in discovery order
	Gather(ctx context.Context, root string, cfg config.Config) ([]tasks.Task, error)
}

// Describer is implemented by gatherers that can explain themselves
type Describer interface {
	Description() string
}

// SkipError reports a source that is unavailable for this run
type SkipError struct {
	Source string
	Reason string
	Hint   string // Optional remedy shown to the user
	Err    error
}

func (e *SkipError) Error() string {
	msg := fmt.Sprintf("%s skipped: %s", e.Source, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SkipError) Unwrap() error {
	return e.Err
}

func skip(source, reason string, err error) *SkipError {
	return &SkipError{Source: source, Reason: reason, Err: err}
}

var (
	uncheckedPattern = regexp.MustCompile(`^\s*-\s*\[ \]\s*(.*)`)
	headingPattern   = regexp.MustCompile(`^#{1,3}\s+(.*)`)
)

// uncheckedItem returns the text of a "- [ ] text" line
func uncheckedItem(line string) (string, bool) {
	m := uncheckedPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	text := strings.TrimSpace(m[1])
	return text, text != ""
}

// heading returns the title of a level 1-3 markdown heading
func heading(line string) (string, bool) {
	m := headingPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// readLines reads a UTF-8 text file and splits it into lines
func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%s is not valid UTF-8", path)
	}
	return strings.Split(string(data), "\n"), nil
}
