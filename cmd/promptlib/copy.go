// ABOUTME: Copy command placing a prompt's content on the clipboard.
// ABOUTME: Falls back to printing the content when the terminal cannot receive it.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/promptlib/internal/ui"
)

func newCopyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "copy <id-prefix>",
		Aliases: []string{"cp"},
		Short:   "Copy a prompt to the clipboard",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.store.Resolve(args[0])
			if err != nil {
				return fmt.Errorf("failed to get prompt: %w", err)
			}

			if app.clipboard.CopyText(p.Content) {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Copied %q to clipboard", p.Title)))
				return nil
			}

			fmt.Fprintln(cmd.ErrOrStderr(), ui.Warning("Clipboard unavailable, printing instead."))
			fmt.Fprintln(cmd.OutOrStdout(), p.Content)
			return nil
		},
	}
}
