// ABOUTME: Terminal UI formatting for promptlib output.
// ABOUTME: Uses glamour for markdown and fatih/color for styling.

package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"

	"github.com/harper/promptlib/internal/models"
)

var (
	faint  = color.New(color.Faint).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

const timeLayout = "2006-01-02 15:04"

// Renderer displays a query result.
type Renderer interface {
	Render(prompts []models.Prompt) error
}

// ListRenderer writes prompts as a compact list.
type ListRenderer struct {
	W io.Writer
}

func NewListRenderer(w io.Writer) *ListRenderer {
	return &ListRenderer{W: w}
}

func (r *ListRenderer) Render(prompts []models.Prompt) error {
	if len(prompts) == 0 {
		_, err := fmt.Fprintln(r.W, faint("No matches."))
		return err
	}
	for _, p := range prompts {
		if _, err := fmt.Fprint(r.W, FormatPromptListItem(p)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(r.W, faint(fmt.Sprintf("\n%d prompt(s)", len(prompts))))
	return err
}

// IDPrefix shortens an id for display.
func IDPrefix(id string) string {
	return models.Truncate(id, 8)
}

// Stars renders a rating as filled and empty stars.
func Stars(rating int) string {
	r := models.ClampRating(rating)
	return strings.Repeat("★", r) + strings.Repeat("☆", models.MaxRating-r)
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).Local().Format(timeLayout)
}

func FormatPromptListItem(p models.Prompt) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("  %s  %s  %s\n", faint(IDPrefix(p.ID)), bold(p.Title), yellow(Stars(p.Rating))))
	sb.WriteString(fmt.Sprintf("            %s %s\n",
		faint("Updated:"),
		faint(formatMillis(p.UpdatedAt))))

	return sb.String()
}

func FormatPromptHeader(p models.Prompt) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s\n", bold(p.Title)))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("ID:"), faint(p.ID)))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("Rating:"), yellow(Stars(p.Rating))))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("Created:"), faint(formatMillis(p.CreatedAt))))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("Updated:"), faint(formatMillis(p.UpdatedAt))))

	sb.WriteString(Separator())
	return sb.String()
}

// FormatPromptContent renders markdown with the glamour style matching theme.
func FormatPromptContent(content string, theme Theme) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(theme.GlamourStyle()),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Fallback to raw content if renderer fails
		return content, nil //nolint:nilerr // Intentional fallback
	}

	out, err := renderer.Render(content)
	if err != nil {
		return content, nil //nolint:nilerr // Intentional fallback
	}
	return out, nil
}

func Separator() string {
	return faint(strings.Repeat("─", 50)) + "\n"
}

func Success(msg string) string {
	return color.New(color.FgGreen).Sprint("✓ ") + msg
}

func Warning(msg string) string {
	return color.New(color.FgYellow).Sprint("! ") + msg
}

func Error(msg string) string {
	return color.New(color.FgRed).Sprint("✗ ") + msg
}
