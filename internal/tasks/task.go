package tasks

import (
	"sort"
	"strings"
)

// Priority is the bucket a task renders under
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityNormal   Priority = "normal"
	PriorityLow      Priority = "low"
)

// Priorities lists every priority in render order
var Priorities = []Priority{PriorityCritical, PriorityHigh, PriorityNormal, PriorityLow}

// Label returns the section heading used for the priority
func (p Priority) Label() string {
	switch p {
	case PriorityCritical:
		return "Critical"
	case PriorityHigh:
		return "High Priority"
	case PriorityNormal:
		return "Normal"
	case PriorityLow:
		return "Low Priority"
	default:
		s := string(p)
		if s == "" {
			return ""
		}
		return strings.ToUpper(s[:1]) + s[1:]
	}
}

// Valid reports whether p is one of the four known priorities
func (p Priority) Valid() bool {
	for _, known := range Priorities {
		if p == known {
			return true
		}
	}
	return false
}

// Task is one discovered, not-yet-completed unit of work
type Task struct {
	Text     string   `yaml:"text" json:"text"`
	Source   string   `yaml:"source" json:"source"`
	Priority Priority `yaml:"priority" json:"priority"`
}

// New creates a task
func New(text, source string, priority Priority) Task {
	return Task{Text: text, Source: source, Priority: priority}
}

// Key returns the comparison key used for deduplication
func (t Task) Key() string {
	return NormalizeText(t.Text)
}

// NormalizeText trims and case-folds text for duplicate detection
func NormalizeText(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Sources returns the sorted distinct source labels of the given tasks
func Sources(all []Task) []string {
	seen := make(map[string]bool)
	var result []string
	for _, t := range all {
		if seen[t.Source] {
			continue
		}
		seen[t.Source] = true
		result = append(result, t.Source)
	}
	sort.Strings(result)
	return result
}
