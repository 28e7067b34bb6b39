package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jyang234/autopilot/internal/gather"
	"github.com/jyang234/autopilot/internal/logging"
	"github.com/jyang234/autopilot/internal/pipeline"
	"github.com/jyang234/autopilot/internal/watch"
)

func (a *app) watchCmd() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate TASKS.md whenever a source changes",
		Long: `Runs a gather, then watches the config file, HANDOFF.md, roadmap and
custom files and the TODO search paths. Changes are debounced and each
triggers one more run. Stop with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runWatch(cmd, flags)
		},
	}
	addRunFlags(cmd, &flags, false)
	return cmd
}

func (a *app) runWatch(cmd *cobra.Command, flags runFlags) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.New(a.logger.Named("watch"))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	opts := flags.options(a)

	return w.Run(ctx, func(ctx context.Context) (watch.Plan, error) {
		logger, _ := logging.WithRunID(a.logger)
		p := pipeline.New(gather.NewDefaultRegistry(a.runner, logger), logger)

		outcome, err := p.Run(ctx, opts)
		if outcome == nil {
			return watch.Plan{}, err
		}

		plan := watch.PlanFor(outcome.Root, outcome.Config, a.configPath, outcome.OutputPath)
		switch {
		case err != nil:
			return plan, err
		case outcome.NoTasks():
			fmt.Fprintln(out, "! No tasks found from any source.")
		default:
			fmt.Fprintf(out, "+ %d tasks gathered, written to %s\n", outcome.Gathered, outcome.OutputPath)
		}
		logger.Debug("waiting for changes", zap.Int("files", len(plan.Files)), zap.Int("trees", len(plan.Trees)))
		return plan, nil
	})
}
