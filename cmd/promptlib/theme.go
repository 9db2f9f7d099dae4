// ABOUTME: Theme command for the dark/light display preference.
// ABOUTME: The preference is stored apart from prompt data and used by show.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/promptlib/internal/ui"
)

func newThemeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [dark|light|toggle]",
		Short:     "Show or change the display theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"dark", "light", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				theme, err := app.theme.Get()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), theme)
				return nil
			}

			var theme ui.Theme
			var err error
			if args[0] == "toggle" {
				theme, err = app.theme.Toggle()
			} else {
				theme, err = ui.ParseTheme(args[0])
				if err != nil {
					return err
				}
				err = app.theme.Set(theme)
			}
			if err != nil {
				return fmt.Errorf("failed to save theme: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Theme set to %s", theme)))
			return nil
		},
	}
}
