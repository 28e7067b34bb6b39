package gather

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jyang234/autopilot/internal/config"
	"github.com/jyang234/autopilot/internal/tasks"
)

// Custom reads unchecked items from an explicit list of files
type Custom struct {
	logger *zap.Logger
}

// NewCustom creates the custom-file gatherer
func NewCustom(logger *zap.Logger) *Custom {
	return &Custom{logger: logger}
}

func (c *Custom) Name() string { return config.SourceCustom }

func (c *Custom) Description() string {
	return "Unchecked items in user-listed files"
}

func (c *Custom) Gather(ctx context.Context, root string, cfg config.Config) ([]tasks.Task, error) {
	sc := cfg.Source(c.Name())

	var result []tasks.Task
	for _, file := range sc.Files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		lines, ok := readSourceFile(root, file, c.logger)
		if !ok {
			continue
		}

		source := fmt.Sprintf("Custom (%s)", file)
		for _, line := range lines {
			if text, ok := uncheckedItem(line); ok {
				result = append(result, tasks.New(text, source, tasks.PriorityNormal))
			}
		}
	}

	return result, nil
}
