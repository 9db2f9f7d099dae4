// ABOUTME: Clipboard collaborator writing OSC52 escape sequences.
// ABOUTME: Works over SSH and inside tmux or screen when the terminal allows it.

package ui

import (
	"io"
	"os"

	"github.com/aymanbagabas/go-osc52/v2"
	"golang.org/x/term"
)

// Clipboard copies text for the user. CopyText reports whether it was attempted.
type Clipboard interface {
	CopyText(text string) bool
}

// OSC52Clipboard emits the sequence to Out when Out is a terminal.
type OSC52Clipboard struct {
	Out io.Writer
	// Force skips the terminal check.
	Force bool
}

func NewClipboard() *OSC52Clipboard {
	return &OSC52Clipboard{Out: os.Stderr}
}

func (c *OSC52Clipboard) CopyText(text string) bool {
	if c.Out == nil || (!c.Force && !isTerminal(c.Out)) {
		return false
	}

	seq := osc52.New(text)
	switch {
	case os.Getenv("TMUX") != "":
		seq = seq.Tmux()
	case isScreen(os.Getenv("TERM")):
		seq = seq.Screen()
	}

	_, err := seq.WriteTo(c.Out)
	return err == nil
}

func isScreen(termName string) bool {
	return len(termName) >= 6 && termName[:6] == "screen"
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// IsInteractive reports whether stdin is a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
