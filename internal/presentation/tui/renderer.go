package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown for the
// terminal. Coach replies are markdown; plain text passes through
// unharmed.
func NewRenderer() func(string) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // light/dark picked from the terminal background
	)

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}
