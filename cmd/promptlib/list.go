// ABOUTME: List command for browsing prompts.
// ABOUTME: Supports text search, rating filter, sort mode, and a result limit.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/promptlib/internal/query"
	"github.com/harper/promptlib/internal/ui"
)

func sortNames() string {
	names := make([]string, len(query.SortModes))
	for i, m := range query.SortModes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

func newListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List prompts",
		Long:    `List prompts, optionally filtered by text and rating. Sort modes: ` + sortNames() + `.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			searchFlag, _ := cmd.Flags().GetString("search")
			ratingFlag, _ := cmd.Flags().GetString("rating")
			sortFlag, _ := cmd.Flags().GetString("sort")
			limitFlag, _ := cmd.Flags().GetInt("limit")

			rating, err := query.ParseRatingFilter(ratingFlag)
			if err != nil {
				return err
			}

			qcfg := app.cfg.Get().Query
			if sortFlag == "" {
				sortFlag = qcfg.Sort
			}

			if app.store.Len() == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No prompts yet. Add one with: promptlib add <title>")
				return nil
			}

			prompts := query.Run(app.store.Snapshot(), query.Options{
				Text:   searchFlag,
				Rating: rating,
				Sort:   query.ParseSort(sortFlag),
				Limit:  limitFlag,
				Locale: qcfg.Locale,
			})

			var r ui.Renderer = ui.NewListRenderer(cmd.OutOrStdout())
			return r.Render(prompts)
		},
	}

	cmd.Flags().StringP("search", "s", "", "case-insensitive text search in title and content")
	cmd.Flags().StringP("rating", "r", "all", "show only prompts with this rating (all or 1-5)")
	cmd.Flags().String("sort", "", "sort mode (default from config, updatedDesc)")
	cmd.Flags().IntP("limit", "n", 0, "max results (0 = all)")
	return cmd
}
