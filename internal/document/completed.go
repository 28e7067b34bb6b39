package document

import (
	"regexp"
	"strings"

	"github.com/jyang234/autopilot/internal/tasks"
)

var completedPattern = regexp.MustCompile(`^\s*-\s*\[x\]\s*(.*)`)

// ParseCompleted returns every checked line of a previous document, trimmed
func ParseCompleted(text string) []string {
	var completed []string
	for _, line := range strings.Split(text, "\n") {
		if completedPattern.MatchString(line) {
			completed = append(completed, strings.TrimSpace(line))
		}
	}
	return completed
}

// completedKeys returns the normalized texts of the completed lines
func completedKeys(completed []string) map[string]bool {
	keys := make(map[string]bool, len(completed))
	for _, line := range completed {
		if m := completedPattern.FindStringSubmatch(line); m != nil {
			keys[tasks.NormalizeText(m[1])] = true
		}
	}
	return keys
}
