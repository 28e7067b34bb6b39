package document

import (
	"fmt"
	"strings"
	"time"

	"github.com/jyang234/autopilot/internal/tasks"
)

const (
	// TimestampLayout formats the generation time in the header
	TimestampLayout = "2006-01-02 15:04"

	formatLegend = "*Format: `- [ ]` = pending, `- [x]` = done, `- [?]` = blocked*"
)

// Render converts buckets to the TASKS.md text. The output has no trailing
// newline.
func Render(b Buckets, now time.Time) string {
	lines := []string{
		"# Tasks",
		"# Auto-generated by Autopilot on " + now.Format(TimestampLayout),
		"# Sources: " + strings.Join(b.AllSources, ", "),
		"",
	}

	if len(b.Completed) > 0 {
		lines = append(lines, "## Completed")
		lines = append(lines, b.Completed...)
		lines = append(lines, "")
	}

	for _, p := range tasks.Priorities {
		pending := b.Pending[p]
		if len(pending) == 0 {
			continue
		}

		sources := tasks.Sources(pending)
		single := len(sources) == 1

		heading := "## " + p.Label()
		if single {
			heading += fmt.Sprintf(" (from %s)", sources[0])
		}
		lines = append(lines, heading)

		for _, t := range pending {
			line := "- [ ] " + t.Text
			if !single {
				line += fmt.Sprintf(" [%s]", t.Source)
			}
			lines = append(lines, line)
		}
		lines = append(lines, "")
	}

	lines = append(lines, "---", formatLegend)
	return strings.Join(lines, "\n")
}
