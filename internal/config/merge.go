package config

import "strings"

// Override is a user-supplied partial configuration. Nil pointers mean "not
// set"; a non-nil pointer to an empty slice is an explicit empty value.
type Override struct {
	Sources       map[string]SourceOverride `mapstructure:"sources"`
	PriorityOrder *[]string                 `mapstructure:"priority_order"`
	Invariants    *[]string                 `mapstructure:"invariants"`
	Runner        map[string]any            `mapstructure:"runner"`
}

// SourceOverride is a partial SourceConfig
type SourceOverride struct {
	Enabled       *bool          `mapstructure:"enabled"`
	Labels        *[]string      `mapstructure:"labels"`
	ExcludeLabels *[]string      `mapstructure:"exclude_labels"`
	Max           *int           `mapstructure:"max"`
	Files         *[]string      `mapstructure:"files"`
	Paths         *[]string      `mapstructure:"paths"`
	Exclude       *[]string      `mapstructure:"exclude"`
	Extra         map[string]any `mapstructure:",remain"`
}

// Merge returns a new Config with override applied on top of base. Neither
// argument is modified. Known sources are merged key by key; sources absent
// from base are taken as given.
func Merge(base Config, override Override) Config {
	out := base.clone()
	if out.Sources == nil {
		out.Sources = make(map[string]SourceConfig)
	}

	for name, so := range override.Sources {
		key := strings.ToLower(name)
		out.Sources[key] = so.apply(out.Sources[key])
	}

	if override.PriorityOrder != nil {
		out.PriorityOrder = cloneStrings(*override.PriorityOrder)
	}
	if override.Invariants != nil {
		out.Invariants = cloneStrings(*override.Invariants)
	}
	if override.Runner != nil {
		out.Runner = cloneMap(override.Runner)
	}

	return out
}

func (so SourceOverride) apply(sc SourceConfig) SourceConfig {
	if so.Enabled != nil {
		sc.Enabled = *so.Enabled
	}
	if so.Labels != nil {
		sc.Labels = cloneStrings(*so.Labels)
	}
	if so.ExcludeLabels != nil {
		sc.ExcludeLabels = cloneStrings(*so.ExcludeLabels)
	}
	if so.Max != nil {
		sc.Max = *so.Max
	}
	if so.Files != nil {
		sc.Files = cloneStrings(*so.Files)
	}
	if so.Paths != nil {
		sc.Paths = cloneStrings(*so.Paths)
	}
	if so.Exclude != nil {
		sc.Exclude = cloneStrings(*so.Exclude)
	}
	if len(so.Extra) > 0 {
		if sc.Extra == nil {
			sc.Extra = make(map[string]any, len(so.Extra))
		}
		for k, v := range so.Extra {
			sc.Extra[k] = v
		}
	}
	return sc
}
