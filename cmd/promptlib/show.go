// ABOUTME: Show command for displaying a single prompt.
// ABOUTME: Renders content as markdown using the stored theme.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/promptlib/internal/ui"
)

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id-prefix>",
		Short: "Show a prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.store.Resolve(args[0])
			if err != nil {
				return fmt.Errorf("failed to get prompt: %w", err)
			}

			theme, err := app.theme.Get()
			if err != nil {
				return fmt.Errorf("failed to read theme: %w", err)
			}

			rendered, err := ui.FormatPromptContent(p.Content, theme)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, ui.FormatPromptHeader(p))
			fmt.Fprint(out, rendered)
			return nil
		},
	}
}
