// ABOUTME: Import command merging prompts from an export file.
// ABOUTME: Accepts a JSON envelope or array, a markdown file, or a markdown directory.

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/promptlib/internal/models"
	"github.com/harper/promptlib/internal/transfer"
	"github.com/harper/promptlib/internal/ui"
)

func readImport(path string) ([]models.Prompt, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() || strings.HasSuffix(strings.ToLower(path), ".md") {
		return transfer.ParseMarkdown(path)
	}

	data, err := os.ReadFile(path) //nolint:gosec // User-specified file path is expected CLI behavior
	if err != nil {
		return nil, err
	}
	return transfer.Parse(data)
}

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>",
		Short: "Import prompts",
		Long: `Import prompts from a JSON export, a bare JSON array, a markdown file, or a
directory of markdown files. A prompt whose id already exists is replaced only when
the imported copy was updated more recently.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			incoming, err := readImport(args[0])
			switch {
			case errors.Is(err, transfer.ErrImportParse):
				return fmt.Errorf("could not parse %s: %w", args[0], err)
			case errors.Is(err, transfer.ErrNothingToImport):
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to import.")
				return nil
			case err != nil:
				return fmt.Errorf("failed to read import: %w", err)
			}

			res, err := app.store.Merge(incoming)
			if err := warnPersist(cmd, err); err != nil {
				return fmt.Errorf("failed to import: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Imported: %d added, %d updated.", res.Added, res.Updated)))
			return nil
		},
	}
}
