package tui

import "github.com/charmbracelet/lipgloss"

var (
	oceanBlue  = lipgloss.Color("#2563EB")
	amber      = lipgloss.Color("#F59E0B")
	errorRed   = lipgloss.Color("#EF4444")
	mutedGray  = lipgloss.Color("#6B7280")
	borderGray = lipgloss.Color("#374151")

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(oceanBlue)

	taglineStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Italic(true)

	linkStyle = lipgloss.NewStyle().
			Foreground(amber).
			Underline(true)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderGray).
			Padding(0, 1)

	activePaneStyle = paneStyle.
			BorderForeground(oceanBlue)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(oceanBlue)

	itemStyle = lipgloss.NewStyle()

	dateStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	emptyStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Italic(true)

	ctaStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(amber)

	savingStyle = lipgloss.NewStyle().
			Foreground(amber)

	savedStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorRed)

	confirmStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(errorRed).
			Border(lipgloss.NormalBorder()).
			BorderForeground(errorRed).
			Padding(0, 1)
)
