package ui

import "github.com/charmbracelet/lipgloss"

// Theme colors used throughout the UI
const (
	ColorAccent    = "86"      // Cyan/green - titles, focused controls
	ColorHighlight = "205"     // Magenta - favorites, primary action
	ColorMuted     = "241"     // Gray - descriptions, hints
	ColorText      = "252"     // Light gray - normal text
	ColorBorder    = "#cccccc" // Container and card outlines
	ColorHandleA   = "#00ff00" // Left card's drag handle
	ColorHandleB   = "#007bff" // Right card's drag handle
)

// Styles contains shared style definitions used by cards and the app.
var Styles = struct {
	Container   lipgloss.Style // Outline around the card row
	Card        lipgloss.Style // Outlined card body
	CardTitle   lipgloss.Style
	CardBody    lipgloss.Style
	Favorite    lipgloss.Style // Toggle when off
	FavoriteOn  lipgloss.Style // Toggle when on
	Action      lipgloss.Style // Primary action button
	Status      lipgloss.Style
	Hint        lipgloss.Style
	NoticeBox   lipgloss.Style // Overlay shown after an action
	NoticeTitle lipgloss.Style
}{
	Container: lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)),
	Card: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(0, 1),
	CardTitle: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	CardBody: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Favorite: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)),
	FavoriteOn: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)),
	Action: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorHighlight)),
	Status: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccent)),
	Hint: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	NoticeBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(0, 2),
	NoticeTitle: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorHighlight)),
}

// handleStyle returns the strip style for the given card index.
func handleStyle(index int) lipgloss.Style {
	color := ColorHandleA
	if index == 1 {
		color = ColorHandleB
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}
