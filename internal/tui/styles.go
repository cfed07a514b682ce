package tui

import "github.com/charmbracelet/lipgloss"

const cardWidth = 16

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#4F4FB7")).
			Padding(0, 1)

	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#959595"))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F"))

	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	PlaceholderStyle = lipgloss.NewStyle().
				Italic(true).
				Foreground(lipgloss.Color("#959595")).
				Padding(1, 2)

	// Face-down card
	CardStyle = lipgloss.NewStyle().
			Width(cardWidth).
			Align(lipgloss.Center).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#626262"))

	// Card showing the studied language
	FlippedStyle = CardStyle.
			Foreground(lipgloss.Color("#27AE60")).
			Bold(true)

	SelectedBorder = lipgloss.Color("#4F4FB7")
	CursorBorder   = lipgloss.Color("#FFFFFF")
)
