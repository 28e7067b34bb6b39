package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/jyang234/autopilot/internal/gather"
	"github.com/jyang234/autopilot/internal/logging"
	"github.com/jyang234/autopilot/internal/pipeline"
)

const rule = "=================================================="

func (a *app) gatherCmd() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "gather",
		Short: "Gather tasks and write TASKS.md",
		Long: `Runs every enabled source in priority order, drops tasks that are
already checked off in the existing task list, and writes the result
atomically. Use --dry-run to print instead of writing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGather(cmd, flags)
		},
	}
	addRunFlags(cmd, &flags, true)
	return cmd
}

func (a *app) runGather(cmd *cobra.Command, flags runFlags) error {
	logger, _ := logging.WithRunID(a.logger)
	p := pipeline.New(gather.NewDefaultRegistry(a.runner, logger), logger)

	out := cmd.OutOrStdout()
	outcome, err := p.Run(cmd.Context(), flags.options(a))
	if outcome != nil {
		fmt.Fprintf(out, "Gathering tasks from: %s\n\n", outcome.Root)
		printResults(out, outcome.Results)
	}
	if err != nil {
		return err
	}

	if outcome.NoTasks() {
		printNoTasks(out)
		return nil
	}

	fmt.Fprintf(out, "\n%s\nTotal tasks gathered: %d\n%s\n", rule, outcome.Gathered, rule)

	if flags.dryRun {
		name := flags.output
		if name == "" {
			name = filepath.Base(outcome.OutputPath)
		}
		fmt.Fprintf(out, "\n--- %s (dry run) ---\n", name)
		content := outcome.Content
		if flags.pretty {
			content = renderPretty(content)
		}
		fmt.Fprintln(out, content)
		return nil
	}

	fmt.Fprintf(out, "\n+ Written to %s\n", outcome.OutputPath)
	return nil
}

func printResults(w io.Writer, results []gather.Result) {
	for _, res := range results {
		switch res.Status {
		case gather.StatusOK:
			fmt.Fprintf(w, "  + %s: %d tasks\n", res.Source, len(res.Tasks))
		case gather.StatusSkipped:
			line := fmt.Sprintf("  - %s: skipped", res.Source)
			var skipErr *gather.SkipError
			if errors.As(res.Err, &skipErr) {
				line += " (" + skipErr.Reason + ")"
				if skipErr.Hint != "" {
					line += "\n    " + skipErr.Hint
				}
			}
			fmt.Fprintln(w, line)
		case gather.StatusFailed:
			fmt.Fprintf(w, "  ! %s: %v\n", res.Source, res.Err)
		}
	}
}

func printNoTasks(w io.Writer) {
	fmt.Fprintln(w, "\n! No tasks found from any source.")
	fmt.Fprintln(w, "  - Check that sources are configured in .autopilot.yml")
	fmt.Fprintln(w, "  - Ensure GitHub issues are labeled correctly")
	fmt.Fprintln(w, "  - Verify roadmap files exist and have unchecked items")
}

// renderPretty styles markdown for the terminal, falling back to plain text
func renderPretty(content string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return content
	}
	styled, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(styled, "\n")
}
