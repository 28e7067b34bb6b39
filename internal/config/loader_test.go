package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return zap.New(core), logs
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := Default()

	assert.Equal(t, []string{"github_issues", "handoff", "roadmap", "todos", "custom"}, cfg.PriorityOrder)
	assert.True(t, cfg.Source(SourceGitHubIssues).Enabled)
	assert.Equal(t, []string{"autopilot", "ready"}, cfg.Source(SourceGitHubIssues).Labels)
	assert.Equal(t, 20, cfg.Source(SourceGitHubIssues).Max)
	assert.Equal(t, []string{"ROADMAP.md", ".claude/context.md"}, cfg.Source(SourceRoadmap).Files)
	assert.Equal(t, 50, cfg.Source(SourceTodos).Max)
	assert.False(t, cfg.Source(SourceCustom).Enabled)
	assert.Empty(t, cfg.Invariants)
}

func TestDefaultReturnsFreshValue(t *testing.T) {
	t.Parallel()

	a := Default()
	a.PriorityOrder[0] = "mutated"
	a.Sources[SourceRoadmap] = SourceConfig{}

	b := Default()
	assert.Equal(t, SourceGitHubIssues, b.PriorityOrder[0])
	assert.True(t, b.Source(SourceRoadmap).Enabled)
}

func TestSourceReturnsCopy(t *testing.T) {
	t.Parallel()

	cfg := Default()
	sc := cfg.Source(SourceRoadmap)
	sc.Files[0] = "changed.md"

	assert.Equal(t, "ROADMAP.md", cfg.Source(SourceRoadmap).Files[0])
	assert.False(t, cfg.Source("not_configured").Enabled)
	assert.True(t, cfg.Source("GITHUB_ISSUES").Enabled)
}

func TestLimitClamps(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 100, SourceConfig{Max: 1000}.Limit(MaxIssuesLimit))
	assert.Equal(t, 20, SourceConfig{Max: 20}.Limit(MaxIssuesLimit))
	assert.Equal(t, 0, SourceConfig{Max: -5}.Limit(MaxIssuesLimit))
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()
	logger, logs := observedLogger()

	cfg := Load(t.TempDir(), "", logger)

	assert.Equal(t, Default(), cfg)
	assert.Zero(t, logs.FilterLevelExact(zap.WarnLevel).Len())
}

func TestLoadProjectFile(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, FileName, `
sources:
  github_issues:
    labels: [bug-bash]
    max: 500
  todos:
    paths: [internal/, cmd/]
  custom:
    enabled: true
    files: [NOTES.md]
priority_order: [custom, todos]
invariants:
  - never push to main
runner:
  max_iterations: 5
`)

	cfg := Load(tmpDir, "", zap.NewNop())

	gh := cfg.Source(SourceGitHubIssues)
	assert.True(t, gh.Enabled, "enabled should be inherited from defaults")
	assert.Equal(t, []string{"bug-bash"}, gh.Labels)
	assert.Equal(t, []string{"blocked", "wontfix"}, gh.ExcludeLabels)
	assert.Equal(t, 500, gh.Max)
	assert.Equal(t, MaxIssuesLimit, gh.Limit(MaxIssuesLimit))

	todos := cfg.Source(SourceTodos)
	assert.Equal(t, []string{"internal/", "cmd/"}, todos.Paths)
	assert.Equal(t, []string{"node_modules/", "vendor/", ".git/", "dist/", "build/"}, todos.Exclude)

	assert.True(t, cfg.Source(SourceCustom).Enabled)
	assert.Equal(t, []string{"NOTES.md"}, cfg.Source(SourceCustom).Files)
	assert.Equal(t, []string{"custom", "todos"}, cfg.PriorityOrder)
	assert.Equal(t, []string{"never push to main"}, cfg.Invariants)
	assert.EqualValues(t, 5, cfg.Runner["max_iterations"])
}

func TestLoadExplicitEmptyLabels(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, FileName, "sources:\n  github_issues:\n    labels: []\n")

	cfg := Load(tmpDir, "", zap.NewNop())

	assert.Empty(t, cfg.Source(SourceGitHubIssues).Labels)
}

func TestLoadUnknownSourceKeptVerbatim(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	path := writeConfig(t, tmpDir, "autopilot.yaml", `
sources:
  jira:
    enabled: true
    project: CORE
    max: 10
`)

	cfg := Load(tmpDir, path, zap.NewNop())

	jira := cfg.Source("jira")
	assert.True(t, jira.Enabled)
	assert.Equal(t, 10, jira.Max)
	assert.Equal(t, "CORE", jira.Extra["project"])
	assert.NotContains(t, cfg.PriorityOrder, "jira")
}

func TestLoadJSON(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	path := writeConfig(t, tmpDir, "autopilot.json", `{"sources": {"handoff": {"enabled": false}}}`)

	cfg := Load(tmpDir, path, zap.NewNop())

	assert.False(t, cfg.Source(SourceHandoff).Enabled)
	assert.True(t, cfg.Source(SourceRoadmap).Enabled)
}

func TestLoadFallsBackToDefaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"malformed yaml", FileName, "sources: [unclosed\n  - : :"},
		{"unsupported format", "autopilot.ini", "[sources]\nhandoff=false\n"},
		{"wrong type", FileName, "sources:\n  todos:\n    max: lots\n"},
		{"negative cap", FileName, "sources:\n  todos:\n    max: -1\n"},
		{"empty source name in order", FileName, "priority_order: [handoff, \"\"]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			path := writeConfig(t, tmpDir, tt.file, tt.content)
			logger, logs := observedLogger()

			cfg := Load(tmpDir, path, logger)

			assert.Equal(t, Default(), cfg)
			assert.Equal(t, 1, logs.FilterMessage("ignoring config, using defaults").Len())
		})
	}
}

func TestReadOverrideUnsupportedFormat(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, t.TempDir(), "autopilot.ini", "x=1")

	_, err := ReadOverride(path)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestSupportsFormat(t *testing.T) {
	t.Parallel()

	for _, ext := range []string{".yml", ".yaml", "YAML", ".json", ".toml"} {
		assert.True(t, SupportsFormat(ext), ext)
	}
	for _, ext := range []string{".ini", ".xml", ""} {
		assert.False(t, SupportsFormat(ext), ext)
	}
}

func TestPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, filepath.Join("/proj", FileName), Path("/proj", ""))
	assert.Equal(t, "/etc/autopilot.yml", Path("/proj", "/etc/autopilot.yml"))
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	path := filepath.Join(tmpDir, FileName)
	require.NoError(t, WriteDefault(path))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Default().PriorityOrder, cfg.PriorityOrder)
	for _, name := range Default().PriorityOrder {
		assert.Equal(t, Default().Source(name).Enabled, cfg.Source(name).Enabled, name)
		assert.Equal(t, Default().Source(name).Max, cfg.Source(name).Max, name)
	}
	assert.Equal(t, Default().Source(SourceTodos).Paths, cfg.Source(SourceTodos).Paths)
}
