package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileName is the project-relative configuration file
const FileName = ".autopilot.yml"

// Built-in source names
const (
	SourceGitHubIssues = "github_issues"
	SourceHandoff      = "handoff"
	SourceRoadmap      = "roadmap"
	SourceTodos        = "todos"
	SourceCustom       = "custom"
)

// Default returns a fresh copy of the built-in configuration
func Default() Config {
	return Config{
		Sources: map[string]SourceConfig{
			SourceGitHubIssues: {
				Enabled:       true,
				Labels:        []string{"autopilot", "ready"},
				ExcludeLabels: []string{"blocked", "wontfix"},
				Max:           20,
			},
			SourceHandoff: {
				Enabled: true,
			},
			SourceRoadmap: {
				Enabled: true,
				Files:   []string{"ROADMAP.md", ".claude/context.md"},
			},
			SourceTodos: {
				Enabled: true,
				Paths:   []string{"src/", "lib/", "app/"},
				Exclude: []string{"node_modules/", "vendor/", ".git/", "dist/", "build/"},
				Max:     50,
			},
			SourceCustom: {
				Enabled: false,
				Files:   []string{},
			},
		},
		PriorityOrder: []string{SourceGitHubIssues, SourceHandoff, SourceRoadmap, SourceTodos, SourceCustom},
		Invariants:    []string{},
	}
}

const defaultHeader = `# Autopilot task gathering configuration
#
# Sources are gathered in priority_order. Set enabled: false to skip one.
# github_issues.labels: [] fetches every open issue instead of a labeled subset.
# Caps are clamped: github_issues.max <= 100, todos.max <= 500.

`

// WriteDefault writes the built-in configuration to path
func WriteDefault(path string) error {
	data, err := Marshal(Default())
	if err != nil {
		return err
	}
	return os.WriteFile(path, append([]byte(defaultHeader), data...), 0644)
}

// Marshal renders a configuration as YAML
func Marshal(cfg Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}
