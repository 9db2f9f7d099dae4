// ABOUTME: Rate command for scoring prompts from 0 to 5.
// ABOUTME: Out-of-range ratings are clamped; re-rating with the same value is a no-op.

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/harper/promptlib/internal/store"
	"github.com/harper/promptlib/internal/ui"
)

func newRateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rate <id-prefix> <0-5>",
		Short: "Rate a prompt",
		Long:  `Set a prompt's rating. 0 clears it.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rating, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("rating must be a number from 0 to 5: %q", args[1])
			}

			p, err := app.store.Resolve(args[0])
			if err != nil {
				return fmt.Errorf("failed to get prompt: %w", err)
			}

			ok, err := app.store.Rate(p.ID, rating)
			if err := warnPersist(cmd, err); err != nil {
				return fmt.Errorf("failed to rate prompt: %w", err)
			}
			if !ok {
				return fmt.Errorf("failed to rate prompt: %w", store.ErrNotFound)
			}

			updated, _ := app.store.Get(p.ID)
			fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Rated %s %s", ui.IDPrefix(p.ID), ui.Stars(updated.Rating))))
			return nil
		},
	}
}
