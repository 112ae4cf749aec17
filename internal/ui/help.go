package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// RenderHelp produces the one-line help bar under the cards.
func RenderHelp(reg *KeybindRegistry, width int) string {
	if reg == nil {
		return ""
	}
	helpModel := help.New()
	helpModel.Width = width
	helpModel.Styles.ShortKey = lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true)
	helpModel.Styles.ShortDesc = Styles.Hint
	helpModel.Styles.ShortSeparator = Styles.Hint

	return helpModel.View(NewKeyMap(reg))
}
