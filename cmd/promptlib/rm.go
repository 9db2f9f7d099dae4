// ABOUTME: Remove command for deleting prompts.
// ABOUTME: Includes confirmation prompt before deletion.

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/promptlib/internal/store"
	"github.com/harper/promptlib/internal/ui"
)

func newRmCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id-prefix>",
		Short: "Remove a prompt",
		Long:  `Permanently delete a prompt. Asks for confirmation unless --force is given.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")

			p, err := app.store.Resolve(args[0])
			if err != nil {
				return fmt.Errorf("failed to get prompt: %w", err)
			}

			if !force {
				if app.in == os.Stdin && !ui.IsInteractive() {
					return fmt.Errorf("refusing to delete without a terminal; pass --force")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Delete prompt %q (%s)? [y/N] ", p.Title, ui.IDPrefix(p.ID))
				reader := bufio.NewReader(app.in)
				response, _ := reader.ReadString('\n')
				response = strings.TrimSpace(strings.ToLower(response))
				if response != "y" && response != "yes" {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			ok, err := app.store.Delete(p.ID)
			if err := warnPersist(cmd, err); err != nil {
				return fmt.Errorf("failed to delete prompt: %w", err)
			}
			if !ok {
				return fmt.Errorf("failed to delete prompt: %w", store.ErrNotFound)
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Deleted prompt %s", ui.IDPrefix(p.ID))))
			return nil
		},
	}

	cmd.Flags().BoolP("force", "f", false, "skip confirmation")
	return cmd
}
