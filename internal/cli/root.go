package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jyang234/autopilot/internal/gather"
	"github.com/jyang234/autopilot/internal/logging"
	"github.com/jyang234/autopilot/internal/pipeline"
	"github.com/jyang234/autopilot/internal/toolexec"
)

// app carries global flags and the dependencies shared by every command
type app struct {
	version string
	runner  toolexec.Runner

	verbose    bool
	logFile    string
	projectDir string
	configPath string

	logger  *zap.Logger
	cleanup func()
}

// runFlags are the options of a gathering run
type runFlags struct {
	output      string
	dryRun      bool
	sources     []string
	pretty      bool
	metricsFile string
}

func (f runFlags) options(a *app) pipeline.Options {
	return pipeline.Options{
		ProjectDir:  a.projectDir,
		Output:      f.output,
		ConfigPath:  a.configPath,
		DryRun:      f.dryRun,
		Sources:     f.sources,
		MetricsFile: f.metricsFile,
	}
}

func addRunFlags(cmd *cobra.Command, f *runFlags, withDryRun bool) {
	cmd.Flags().StringVarP(&f.output, "output", "o", pipeline.DefaultOutput, "Output file, relative to the project directory")
	cmd.Flags().StringArrayVarP(&f.sources, "source", "s", nil, "Only gather from this source (repeatable)")
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus textfile metrics to this path")
	if withDryRun {
		cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Print the task list without writing it")
		cmd.Flags().BoolVar(&f.pretty, "pretty", false, "Render the dry-run output as styled markdown")
	}
}

// NewRootCmd builds the command tree
func NewRootCmd(version string) *cobra.Command {
	return newRootCmd(&app{version: version, runner: toolexec.NewExecRunner()})
}

func newRootCmd(a *app) *cobra.Command {
	var flags runFlags

	rootCmd := &cobra.Command{
		Use:   "autopilot",
		Short: "Gather tasks from every project source into TASKS.md",
		Long: `Autopilot collects actionable work from GitHub issues, HANDOFF.md,
roadmap documents, inline TODO comments and custom checklists, and merges
them into one prioritized TASKS.md. Items already checked off in TASKS.md
are kept and never reappear as pending.

Running autopilot without a subcommand is the same as 'autopilot gather'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGather(cmd, flags)
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, cleanup, err := logging.New(logging.Options{
				Verbose: a.verbose,
				File:    a.logFile,
				Console: cmd.ErrOrStderr(),
			})
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger, a.cleanup = logger, cleanup
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.cleanup != nil {
				a.cleanup()
			}
		},
		Version:       a.version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&a.logFile, "log-file", "", "Also write JSON logs to this file (rotated)")
	rootCmd.PersistentFlags().StringVarP(&a.projectDir, "project-dir", "C", ".", "Project root directory")
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to config file (default: <project-dir>/.autopilot.yml)")
	addRunFlags(rootCmd, &flags, true)

	rootCmd.AddCommand(a.gatherCmd())
	rootCmd.AddCommand(a.configCmd())
	rootCmd.AddCommand(a.sourcesCmd())
	rootCmd.AddCommand(a.doctorCmd())
	rootCmd.AddCommand(a.watchCmd())
	rootCmd.AddCommand(a.versionCmd())

	return rootCmd
}

// registry builds the gatherer registry for a run
func (a *app) registry() *gather.Registry {
	return gather.NewDefaultRegistry(a.runner, a.logger)
}

// Execute runs the root command
func Execute(version string) error {
	if err := NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
