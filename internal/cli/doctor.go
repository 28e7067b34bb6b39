package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jyang234/autopilot/internal/config"
	"github.com/jyang234/autopilot/internal/gather"
	"github.com/jyang234/autopilot/internal/pathguard"
	"github.com/jyang234/autopilot/internal/pipeline"
	"github.com/jyang234/autopilot/internal/toolexec"
)

func (a *app) doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that task sources are usable",
		Long:  `Runs diagnostic checks on the tools and files autopilot reads and reports pass/fail for each.`,
		Args:  cobra.NoArgs,
		RunE:  a.runDoctor,
	}
}

func (a *app) runDoctor(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	root, err := pipeline.Root(a.projectDir)
	if err != nil {
		return err
	}

	passed := 0
	failed := 0

	check := func(name string, ok bool, detail string) {
		if ok {
			fmt.Fprintf(out, "  ✓ %s\n", name)
			passed++
		} else {
			fmt.Fprintf(out, "  ✗ %s — %s\n", name, detail)
			failed++
		}
	}

	// Tools
	fmt.Fprintln(out, "Tools:")
	check("gh", a.runner.LookPath("gh"), "install from https://cli.github.com")
	check("git", a.runner.LookPath("git"), "install git")
	check("grep", a.runner.LookPath("grep"), "install grep")

	// Project
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Project (%s):\n", root)
	inside, err := a.runner.Run(cmd.Context(), root, toolexec.CheckTimeout, "git", "rev-parse", "--is-inside-work-tree")
	check("git work tree", err == nil && inside == "true", "GitHub issues are skipped outside a repository")

	cfgPath := config.Path(root, a.configPath)
	cfg := config.Default()
	if exists(cfgPath) {
		loaded, err := config.LoadFile(cfgPath)
		if err != nil {
			check("config readable", false, err.Error())
		} else {
			check("config readable", true, "")
			cfg = loaded
		}
	} else {
		fmt.Fprintf(out, "  → no %s, using defaults\n", config.FileName)
	}

	// Sources
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Sources:")
	for _, name := range cfg.PriorityOrder {
		sc := cfg.Source(name)
		if !sc.Enabled {
			fmt.Fprintf(out, "  → %s: disabled\n", name)
			continue
		}
		switch name {
		case config.SourceHandoff:
			check(gather.HandoffFile, pathExists(root, gather.HandoffFile), "not found; handoff source yields nothing")
		case config.SourceRoadmap, config.SourceCustom:
			for _, f := range sc.Files {
				check(name+": "+f, pathExists(root, f), "missing or outside the project")
			}
		case config.SourceTodos:
			for _, p := range sc.Paths {
				check(name+": "+p, pathExists(root, p), "missing or outside the project")
			}
		}
	}

	// Summary
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Results: %d passed, %d failed\n", passed, failed)

	return nil
}

// pathExists reports whether rel resolves inside root and exists
func pathExists(root, rel string) bool {
	path, err := pathguard.Resolve(rel, root)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}
