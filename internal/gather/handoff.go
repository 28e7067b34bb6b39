package gather

import (
	"context"
	"errors"
	"os"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/jyang234/autopilot/internal/config"
	"github.com/jyang234/autopilot/internal/pathguard"
	"github.com/jyang234/autopilot/internal/tasks"
)

const (
	// HandoffFile is the well-known handoff note in the project root
	HandoffFile = "HANDOFF.md"

	// WarningPrefix marks tasks taken from the Warnings section
	WarningPrefix = "[HANDOFF WARNING]"

	handoffLabel = "HANDOFF.md"
	noWarnings   = "(none yet)"
)

var warningsHeading = regexp.MustCompile(`^##\s+Warnings\s*$`)

// Handoff reads warnings and open checklist items from HANDOFF.md
type Handoff struct {
	logger *zap.Logger
}

// NewHandoff creates the handoff gatherer
func NewHandoff(logger *zap.Logger) *Handoff {
	return &Handoff{logger: logger}
}

func (h *Handoff) Name() string { return config.SourceHandoff }

func (h *Handoff) Description() string {
	return "Warnings and unchecked items in " + HandoffFile
}

// Gather runs two independent passes over HANDOFF.md. A checklist line inside
// the Warnings section is reported by both passes.
func (h *Handoff) Gather(ctx context.Context, root string, cfg config.Config) ([]tasks.Task, error) {
	path, err := pathguard.Resolve(HandoffFile, root)
	if err != nil {
		return nil, skip(h.Name(), "cannot resolve "+HandoffFile, err)
	}

	lines, err := readLines(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, skip(h.Name(), HandoffFile+" not found", nil)
		}
		return nil, skip(h.Name(), "could not read "+HandoffFile, err)
	}

	var result []tasks.Task
	for _, w := range warningLines(lines) {
		result = append(result, tasks.New(WarningPrefix+" "+w, handoffLabel, tasks.PriorityHigh))
	}
	for _, line := range lines {
		if text, ok := uncheckedItem(line); ok {
			result = append(result, tasks.New(text, handoffLabel, tasks.PriorityHigh))
		}
	}

	return result, nil
}

// warningLines returns the entries of the first "## Warnings" section
func warningLines(lines []string) []string {
	start := -1
	for i, line := range lines {
		if warningsHeading.MatchString(strings.TrimRight(line, "\r")) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil
	}

	var result []string
	for _, line := range lines[start:] {
		if strings.HasPrefix(line, "## ") {
			break
		}
		entry := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "- "))
		if entry == "" || entry == noWarnings || strings.HasPrefix(entry, "#") {
			continue
		}
		result = append(result, entry)
	}
	return result
}
