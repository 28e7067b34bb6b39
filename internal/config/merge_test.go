package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T {
	return &v
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	base := Default()
	override := Override{
		Sources: map[string]SourceOverride{
			SourceRoadmap: {Files: ptr([]string{"PLAN.md"})},
		},
		PriorityOrder: ptr([]string{SourceRoadmap}),
	}

	merged := Merge(base, override)
	merged.Sources[SourceHandoff] = SourceConfig{}

	assert.Equal(t, Default(), base)
	assert.Equal(t, []string{"PLAN.md"}, merged.Source(SourceRoadmap).Files)
	assert.Equal(t, []string{SourceRoadmap}, merged.PriorityOrder)
}

func TestMergeKeyByKey(t *testing.T) {
	t.Parallel()

	merged := Merge(Default(), Override{
		Sources: map[string]SourceOverride{
			SourceGitHubIssues: {Max: ptr(5), Enabled: ptr(false)},
		},
	})

	gh := merged.Source(SourceGitHubIssues)
	assert.False(t, gh.Enabled)
	assert.Equal(t, 5, gh.Max)
	assert.Equal(t, []string{"autopilot", "ready"}, gh.Labels)
}

func TestMergeExplicitEmptyReplaces(t *testing.T) {
	t.Parallel()

	merged := Merge(Default(), Override{
		Sources: map[string]SourceOverride{
			SourceGitHubIssues: {Labels: ptr([]string{})},
		},
		Invariants: ptr([]string{}),
	})

	assert.NotNil(t, merged.Source(SourceGitHubIssues).Labels)
	assert.Empty(t, merged.Source(SourceGitHubIssues).Labels)
}

func TestMergeUnknownSource(t *testing.T) {
	t.Parallel()

	merged := Merge(Default(), Override{
		Sources: map[string]SourceOverride{
			"Linear": {Enabled: ptr(true), Extra: map[string]any{"team": "core"}},
		},
	})

	linear := merged.Source("linear")
	assert.True(t, linear.Enabled)
	assert.Equal(t, "core", linear.Extra["team"])
	assert.Len(t, merged.Sources, 6)
}

func TestMergeEmptyOverride(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Default(), Merge(Default(), Override{}))
}
