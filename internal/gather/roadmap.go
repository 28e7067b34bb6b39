package gather

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jyang234/autopilot/internal/config"
	"github.com/jyang234/autopilot/internal/tasks"
)

const defaultSection = "Roadmap"

// Roadmap reads unchecked items from planning documents
type Roadmap struct {
	logger *zap.Logger
}

// NewRoadmap creates the roadmap gatherer
func NewRoadmap(logger *zap.Logger) *Roadmap {
	return &Roadmap{logger: logger}
}

func (r *Roadmap) Name() string { return config.SourceRoadmap }

func (r *Roadmap) Description() string {
	return "Unchecked items in roadmap files, tagged with their section"
}

// Gather annotates each item with its file and the nearest preceding heading
func (r *Roadmap) Gather(ctx context.Context, root string, cfg config.Config) ([]tasks.Task, error) {
	sc := cfg.Source(r.Name())

	var result []tasks.Task
	for _, file := range sc.Files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		lines, ok := readSourceFile(root, file, r.logger)
		if !ok {
			continue
		}

		source := fmt.Sprintf("Roadmap (%s)", file)
		section := defaultSection
		for _, line := range lines {
			if title, ok := heading(line); ok {
				section = title
				continue
			}
			if text, ok := uncheckedItem(line); ok {
				result = append(result, tasks.New(
					fmt.Sprintf("%s (from %s: %s)", text, file, section),
					source,
					tasks.PriorityNormal,
				))
			}
		}
	}

	return result, nil
}
