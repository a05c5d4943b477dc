package output

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

const defaultWrap = 80

// Markdown renders text as terminal markdown in the dark or light style.
// A non-positive width uses 80 columns.
func Markdown(text string, dark bool, width int) (string, error) {
	style := "light"
	if dark {
		style = "dark"
	}
	if width <= 0 {
		width = defaultWrap
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(text)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}
