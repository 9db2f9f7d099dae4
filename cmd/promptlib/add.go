// ABOUTME: Add command for saving new prompts.
// ABOUTME: Supports inline content, file input, or $EDITOR.

package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/harper/promptlib/internal/store"
	"github.com/harper/promptlib/internal/ui"
)

func newAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a new prompt",
		Long:  `Save a new prompt with the given title. Content can be provided via --content, --file, or $EDITOR.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := args[0]

			contentFlag, _ := cmd.Flags().GetString("content")
			fileFlag, _ := cmd.Flags().GetString("file")

			var content string
			var err error

			switch {
			case contentFlag != "":
				content = contentFlag
			case fileFlag != "":
				data, err := os.ReadFile(fileFlag) //nolint:gosec // User-specified file path is expected CLI behavior
				if err != nil {
					return fmt.Errorf("failed to read file: %w", err)
				}
				content = string(data)
			default:
				content, err = openEditor()
				if err != nil {
					return fmt.Errorf("failed to open editor: %w", err)
				}
			}

			p, err := app.store.Create(title, content)
			var verr *store.ValidationError
			if errors.As(err, &verr) {
				return errors.New(verr.Msg)
			}
			if err := warnPersist(cmd, err); err != nil {
				return fmt.Errorf("failed to add prompt: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Saved prompt %s", ui.IDPrefix(p.ID))))
			return nil
		},
	}

	cmd.Flags().String("content", "", "prompt content (inline)")
	cmd.Flags().String("file", "", "read content from file")
	return cmd
}

func openEditor() (string, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vim"
	}

	tmpFile, err := os.CreateTemp("", "promptlib-*.md")
	if err != nil {
		return "", err
	}
	defer func() {
		_ = os.Remove(tmpFile.Name()) // Best-effort cleanup
	}()

	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	cmd := exec.Command(editor, tmpFile.Name()) //nolint:gosec // Launching $EDITOR is expected CLI behavior
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(tmpFile.Name())
	if err != nil {
		return "", err
	}

	return string(data), nil
}
