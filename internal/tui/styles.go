package tui

import "github.com/charmbracelet/lipgloss"

// Styles is one colour palette.
type Styles struct {
	Title     lipgloss.Style
	Row       lipgloss.Style
	Selected  lipgloss.Style
	Done      lipgloss.Style
	Overdue   lipgloss.Style
	DueSoon   lipgloss.Style
	Category  lipgloss.Style
	Dim       lipgloss.Style
	StatusBar lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Dialog    lipgloss.Style
	Label     lipgloss.Style

	Priority map[string]lipgloss.Style
}

const (
	dialogPadY = 1
	dialogPadX = 2
)

// DarkStyles is the palette for dark terminals.
func DarkStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Padding(0, 1),
		Row:       lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Selected:  lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("237")).Bold(true),
		Done:      lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Strikethrough(true),
		Overdue:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		DueSoon:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Category:  lipgloss.NewStyle().Foreground(lipgloss.Color("110")),
		Dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		StatusBar: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(dialogPadY, dialogPadX),
		Label: lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Bold(true),
		Priority: map[string]lipgloss.Style{
			"high":   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
			"medium": lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
			"low":    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
		},
	}
}

// LightStyles is the palette for light terminals.
func LightStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")).Background(lipgloss.Color("25")).Padding(0, 1),
		Row:       lipgloss.NewStyle().Foreground(lipgloss.Color("235")),
		Selected:  lipgloss.NewStyle().Foreground(lipgloss.Color("16")).Background(lipgloss.Color("153")).Bold(true),
		Done:      lipgloss.NewStyle().Foreground(lipgloss.Color("246")).Strikethrough(true),
		Overdue:   lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true),
		DueSoon:   lipgloss.NewStyle().Foreground(lipgloss.Color("130")),
		Category:  lipgloss.NewStyle().Foreground(lipgloss.Color("25")),
		Dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		StatusBar: lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("130")).Bold(true),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true),
		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("25")).
			Padding(dialogPadY, dialogPadX),
		Label: lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Bold(true),
		Priority: map[string]lipgloss.Style{
			"high":   lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
			"medium": lipgloss.NewStyle().Foreground(lipgloss.Color("136")),
			"low":    lipgloss.NewStyle().Foreground(lipgloss.Color("246")),
		},
	}
}

func stylesFor(dark bool) Styles {
	if dark {
		return DarkStyles()
	}
	return LightStyles()
}
