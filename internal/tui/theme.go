package tui

import "github.com/charmbracelet/lipgloss"

// ---------------------------------------------------------------------------
// Catppuccin Mocha palette, true-color hex values
// https://catppuccin.com/palette
// ---------------------------------------------------------------------------

const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorSapphire lipgloss.Color = "#74c7ec"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface2 lipgloss.Color = "#585b70"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorMantle   lipgloss.Color = "#181825"
	colorCrust    lipgloss.Color = "#11111b"
)

// ---------------------------------------------------------------------------
// Semantic color aliases
// ---------------------------------------------------------------------------

const (
	colorAccent  = colorPink
	colorBrand   = colorBlue
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
	colorInfo    = colorTeal
	colorMuted   = colorOverlay1
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorBrand)
	subtitleStyle  = lipgloss.NewStyle().Foreground(colorSubtext0)
	resetStyle     = lipgloss.NewStyle().Foreground(colorText).Background(colorSurface0).Padding(0, 1)
	footerStyle    = lipgloss.NewStyle().Foreground(colorText)
	statusStyle    = lipgloss.NewStyle().Foreground(colorInfo)
	statusErrStyle = lipgloss.NewStyle().Foreground(colorError)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface2).
			Padding(0, 1)
	cardFocusStyle = cardStyle.BorderForeground(colorFocus)
	cardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	pathTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorSubtext0)
	pathDotStyle   = lipgloss.NewStyle().Foreground(colorBlue)
	pathLineStyle  = lipgloss.NewStyle().Foreground(colorSurface1)
	buttonStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorCrust).Background(colorBlue).Padding(0, 1)
	buttonOffStyle = lipgloss.NewStyle().Foreground(colorOverlay0).Background(colorSurface0).Padding(0, 1)
	matchStyle     = lipgloss.NewStyle().Foreground(colorText)
	matchBestStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	hintStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Foreground(colorSubtext0).
			Padding(0, 2)
	hintKeyStyle = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	loadingStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBlue).
			Foreground(colorBlue).
			Padding(1, 3)
	emptyStyle   = lipgloss.NewStyle().Foreground(colorOverlay0)
	spinnerStyle = lipgloss.NewStyle().Foreground(colorBlue)
)

// ---------------------------------------------------------------------------
// Canvas styles
// ---------------------------------------------------------------------------

type styleID uint8

const (
	stylePlain styleID = iota
	styleEdge
	styleRootBorder
	styleRootLabel
	styleNodeBorder
	styleNodeLabel
	stylePendingBorder
	styleExpandedBorder
	styleSelectedBorder
)

var canvasStyles = map[styleID]lipgloss.Style{
	styleEdge:           lipgloss.NewStyle().Foreground(colorSurface2),
	styleRootBorder:     lipgloss.NewStyle().Foreground(colorLavender).Background(colorBlue),
	styleRootLabel:      lipgloss.NewStyle().Bold(true).Foreground(colorCrust).Background(colorBlue),
	styleNodeBorder:     lipgloss.NewStyle().Foreground(colorBlue).Background(colorSurface0),
	styleNodeLabel:      lipgloss.NewStyle().Bold(true).Foreground(colorText).Background(colorSurface0),
	stylePendingBorder:  lipgloss.NewStyle().Foreground(colorWarning).Background(colorSurface0),
	styleExpandedBorder: lipgloss.NewStyle().Foreground(colorSapphire).Background(colorSurface0),
	styleSelectedBorder: lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Background(colorSurface0),
}
