package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jyang234/autopilot/internal/config"
	"github.com/jyang234/autopilot/internal/pipeline"
)

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage autopilot configuration",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show merged configuration",
		Args:  cobra.NoArgs,
		RunE:  a.runConfigShow,
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE:  a.runConfigPath,
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration to .autopilot.yml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigInit(cmd, force)
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")

	cmd.AddCommand(showCmd, pathCmd, initCmd)
	return cmd
}

func (a *app) configFile() (string, error) {
	root, err := pipeline.Root(a.projectDir)
	if err != nil {
		return "", err
	}
	return config.Path(root, a.configPath), nil
}

func (a *app) runConfigShow(cmd *cobra.Command, args []string) error {
	root, err := pipeline.Root(a.projectDir)
	if err != nil {
		return err
	}

	cfg := config.Load(root, a.configPath, a.logger)
	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "# Merged configuration (defaults + project)")
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func (a *app) runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := a.configFile()
	if err != nil {
		return err
	}

	status := "not found, using defaults"
	if exists(path) {
		status = "exists"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", path, status)
	return nil
}

func (a *app) runConfigInit(cmd *cobra.Command, force bool) error {
	path, err := a.configFile()
	if err != nil {
		return err
	}

	if exists(path) && !force {
		return fmt.Errorf("%s already exists; use --force to overwrite", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := config.WriteDefault(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
