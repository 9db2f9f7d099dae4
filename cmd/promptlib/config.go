// ABOUTME: Config command for creating and locating the configuration file.
// ABOUTME: Runs without opening storage.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/promptlib/internal/config"
	"github.com/harper/promptlib/internal/ui"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Manage configuration",
		Annotations: map[string]string{skipStore: "true"},
	}

	cmd.AddCommand(&cobra.Command{
		Use:         "path",
		Short:       "Print the config file path",
		Annotations: map[string]string{skipStore: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.cfgFile
			if path == "" {
				path = config.ConfigPath()
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:         "init",
		Short:       "Write a default config file",
		Annotations: map[string]string{skipStore: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.cfgFile
			if path == "" {
				path = config.ConfigPath()
			}
			if err := config.WriteDefault(path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Success("Wrote "+path))
			return nil
		},
	})

	return cmd
}
