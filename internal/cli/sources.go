package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jyang234/autopilot/internal/config"
	"github.com/jyang234/autopilot/internal/gather"
	"github.com/jyang234/autopilot/internal/pipeline"
)

func (a *app) sourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List task sources in priority order",
		Args:  cobra.NoArgs,
		RunE:  a.runSources,
	}
}

func (a *app) runSources(cmd *cobra.Command, args []string) error {
	root, err := pipeline.Root(a.projectDir)
	if err != nil {
		return err
	}
	cfg := config.Load(root, a.configPath, a.logger)
	registry := a.registry()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SOURCE\tENABLED\tDESCRIPTION")

	listed := make(map[string]bool)
	for _, name := range cfg.PriorityOrder {
		listed[name] = true
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, enabledLabel(cfg, name), describe(registry, name))
	}
	// Registered sources left out of priority_order never run
	for _, name := range registry.Names() {
		if !listed[name] {
			fmt.Fprintf(w, "%s\t%s\t%s\n", name, "not in priority_order", describe(registry, name))
		}
	}

	return w.Flush()
}

func enabledLabel(cfg config.Config, name string) string {
	if cfg.Source(name).Enabled {
		return "yes"
	}
	return "no"
}

func describe(registry *gather.Registry, name string) string {
	g, ok := registry.Lookup(name)
	if !ok {
		return "no gatherer"
	}
	if d, ok := g.(gather.Describer); ok {
		return d.Description()
	}
	return ""
}
