// ABOUTME: Export command for backing up the prompt library.
// ABOUTME: Writes a versioned JSON envelope or a directory of markdown files.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harper/promptlib/internal/query"
	"github.com/harper/promptlib/internal/transfer"
	"github.com/harper/promptlib/internal/ui"
)

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export prompts",
		Long: `Export every prompt, newest first.

JSON (default) writes prompt-library-<YYYY-MM-DD>.json, or stdout with --output -.
Markdown writes one file per prompt into the --output directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			outputPath, _ := cmd.Flags().GetString("output")

			if app.store.Len() == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to export yet.")
				return nil
			}
			prompts := query.Run(app.store.Snapshot(), query.Options{Sort: query.UpdatedDesc})

			switch format {
			case "json":
				data, err := transfer.NewEnvelope(prompts, app.now()).Encode()
				if err != nil {
					return err
				}
				if outputPath == "-" {
					_, err := cmd.OutOrStdout().Write(append(data, '\n'))
					return err
				}
				if outputPath == "" {
					outputPath = transfer.ExportFileName(app.now())
				}
				if err := os.WriteFile(outputPath, data, 0o600); err != nil {
					return fmt.Errorf("failed to write export: %w", err)
				}
			case "md", "markdown":
				if outputPath == "" || outputPath == "-" {
					outputPath = "prompt-library-" + app.now().UTC().Format("2006-01-02")
				}
				if err := transfer.WriteMarkdownDir(outputPath, prompts); err != nil {
					return fmt.Errorf("failed to write export: %w", err)
				}
			default:
				return fmt.Errorf("unknown format %q: use json or md", format)
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Exported %d prompt(s) to %s", len(prompts), outputPath)))
			return nil
		},
	}

	cmd.Flags().String("format", "json", "export format: json or md")
	cmd.Flags().StringP("output", "o", "", "output file or directory")
	return cmd
}
