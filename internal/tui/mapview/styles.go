package mapview

import "github.com/charmbracelet/lipgloss"

var (
	// Base colors
	primaryColor = lipgloss.Color("212")
	mutedColor   = lipgloss.Color("241")
	successColor = lipgloss.Color("42")
	warningColor = lipgloss.Color("214")
	errorColor   = lipgloss.Color("196")
	gridColor    = lipgloss.Color("237")

	// Panel styles
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(primaryColor).
				Padding(0, 1)

	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.Color("237")).
			Foreground(lipgloss.Color("255")).
			Padding(0, 1)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2)

	// Text styles
	titleStyle  = lipgloss.NewStyle().Bold(true)
	subtleStyle = lipgloss.NewStyle().Foreground(mutedColor)
	errorStyle  = lipgloss.NewStyle().Foreground(errorColor)
	warnStyle   = lipgloss.NewStyle().Foreground(warningColor)
	okStyle     = lipgloss.NewStyle().Foreground(successColor)

	// Map glyph styles
	gridStyle        = lipgloss.NewStyle().Foreground(gridColor)
	crosshairStyle   = lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	pinStyle         = lipgloss.NewStyle().Foreground(warningColor)
	selectedPinStyle = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	selectedRowStyle = lipgloss.NewStyle().Foreground(successColor).Bold(true)
)

// Map glyphs
const (
	glyphEmpty       = "·"
	glyphCrosshair   = "+"
	glyphPin         = "●"
	glyphSelectedPin = "◉"
)
