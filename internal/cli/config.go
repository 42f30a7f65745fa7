// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Config command implementation for kronos.
//
// Command: config [subcommand]
//
// Subcommands:
//   show (default)   Display the effective configuration as TOML
//   path             Show the configuration file path
//   init [--force]   Write a config file with the defaults
//
// Examples:
//   kronos config
//   kronos config show --json
//   kronos --config ./kronos.toml config init

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeranaias/kronos-tui/internal/app"
	"github.com/jeranaias/kronos-tui/internal/config"
)

func newConfigCommand(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View the configuration or create a config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd, g)
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath(g)
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return &ValidationError{
					Field:   "config",
					Value:   path,
					Reason:  "file already exists",
					Example: "kronos config init --force",
				}
			}
			if err := config.Save(config.Default(), path); err != nil {
				return &CommandError{Command: "config", Action: "init", Reason: "save", Err: err}
			}
			return printDone(cmd, g, "config init", "Wrote "+path, map[string]string{"path": path})
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Display the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runConfigShow(cmd, g)
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Show the configuration file path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				out := cmd.OutOrStdout()
				return OutputJSON(out, g.jsonMode, "config path", func() (interface{}, error) {
					path, err := configPath(g)
					if err != nil {
						return nil, err
					}
					_, statErr := os.Stat(path)
					if !g.jsonMode {
						fmt.Fprintln(out, path)
						if statErr != nil {
							fmt.Fprintln(out, DimStyle.Render("(not created yet; run 'kronos config init')"))
						}
					}
					return map[string]interface{}{"path": path, "exists": statErr == nil}, nil
				})
			},
		},
		initCmd,
	)
	return cmd
}

func runConfigShow(cmd *cobra.Command, g *globalOptions) error {
	out := cmd.OutOrStdout()
	return OutputJSON(out, g.jsonMode, "config show", func() (interface{}, error) {
		cfg, err := app.LoadConfig(g.overrides())
		if err != nil {
			return nil, err
		}
		if !g.jsonMode {
			fmt.Fprint(out, cfg.String())
		}
		return cfg, nil
	})
}

func configPath(g *globalOptions) (string, error) {
	if g.configPath != "" {
		return g.configPath, nil
	}
	return config.ConfigPath()
}
