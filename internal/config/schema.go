package config

import "strings"

// Hard upper bounds applied to configured caps regardless of the configured value
const (
	MaxIssuesLimit = 100
	MaxTodosLimit  = 500
)

// Config is the merged, read-only configuration for one run
type Config struct {
	// Per-source settings keyed by source name
	Sources map[string]SourceConfig `yaml:"sources" mapstructure:"sources" validate:"dive"`

	// Order in which sources are gathered
	PriorityOrder []string `yaml:"priority_order" mapstructure:"priority_order" validate:"dive,required"`

	// Free-form project invariants, passed through untouched
	Invariants []string `yaml:"invariants" mapstructure:"invariants"`

	// Runner settings consumed by the agent loop, passed through untouched
	Runner map[string]any `yaml:"runner,omitempty" mapstructure:"runner"`
}

// SourceConfig configures a single source. Keys that no gatherer knows about
// are kept verbatim in Extra.
type SourceConfig struct {
	Enabled       bool           `yaml:"enabled" mapstructure:"enabled"`
	Labels        []string       `yaml:"labels" mapstructure:"labels"`
	ExcludeLabels []string       `yaml:"exclude_labels" mapstructure:"exclude_labels"`
	Max           int            `yaml:"max,omitempty" mapstructure:"max" validate:"gte=0"`
	Files         []string       `yaml:"files,omitempty" mapstructure:"files"`
	Paths         []string       `yaml:"paths,omitempty" mapstructure:"paths"`
	Exclude       []string       `yaml:"exclude,omitempty" mapstructure:"exclude"`
	Extra         map[string]any `yaml:",inline" mapstructure:",remain"`
}

// Source returns a copy of the named source's settings. Names are
// case-insensitive; an unconfigured source is returned disabled.
func (c Config) Source(name string) SourceConfig {
	sc, ok := c.Sources[strings.ToLower(name)]
	if !ok {
		return SourceConfig{}
	}
	return sc.clone()
}

// Limit returns Max clamped to [0, hard]
func (s SourceConfig) Limit(hard int) int {
	switch {
	case s.Max < 0:
		return 0
	case s.Max > hard:
		return hard
	default:
		return s.Max
	}
}

func (s SourceConfig) clone() SourceConfig {
	out := s
	out.Labels = cloneStrings(s.Labels)
	out.ExcludeLabels = cloneStrings(s.ExcludeLabels)
	out.Files = cloneStrings(s.Files)
	out.Paths = cloneStrings(s.Paths)
	out.Exclude = cloneStrings(s.Exclude)
	out.Extra = cloneMap(s.Extra)
	return out
}

func (c Config) clone() Config {
	out := Config{
		Sources:       make(map[string]SourceConfig, len(c.Sources)),
		PriorityOrder: cloneStrings(c.PriorityOrder),
		Invariants:    cloneStrings(c.Invariants),
		Runner:        cloneMap(c.Runner),
	}
	for name, sc := range c.Sources {
		out.Sources[name] = sc.clone()
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
