package tui

import "github.com/charmbracelet/lipgloss"

// Layout constants
const (
	cellW        = 11 // width of each column in characters
	labelVisualW = 7  // visual width of qubit label area
	gateNameW    = 5  // width of gate name inside box
	gateBoxW     = 7  // ┤ + gateNameW + ├
	histogramW   = 24 // widest histogram bar
	listLimit    = 12 // rows shown per result table
)

const (
	colorBlue   = lipgloss.Color("#7aa2f7")
	colorPurple = lipgloss.Color("#bb9af7")
	colorGold   = lipgloss.Color("#e0af68")
	colorGreen  = lipgloss.Color("#9ece6a")
	colorOrange = lipgloss.Color("#ff9e64")
	colorRed    = lipgloss.Color("#f7768e")
	colorCyan   = lipgloss.Color("#7dcfff")
	colorTeal   = lipgloss.Color("#73daca")
	colorMuted  = lipgloss.Color("#565f89")
	colorText   = lipgloss.Color("#c0caf5")
)

// panel is a rounded box with a coloured border.
func panel(border lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
}

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

var (
	circuitStyle  = panel(colorBlue)
	qasmStyle     = panel(colorPurple)
	resultsStyle  = panel(colorGold)
	controlsStyle = panel(colorGreen)
	paletteStyle  = panel(colorOrange)

	titleStyle       = fg(colorOrange).Bold(true)
	activeStyle      = fg(colorGold)
	errorStyle       = fg(colorRed).Bold(true)
	qubitLabelStyle  = fg(colorCyan)
	gateStyle        = fg(colorTeal).Bold(true)
	conditionalStyle = fg(colorGold).Bold(true)
	barStyle         = fg(colorGreen)
	dimStyle         = fg(colorMuted)

	menuSelectedStyle = fg(colorOrange).Bold(true)
	menuNormalStyle   = fg(colorText)
)
