package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/coderno/planner/internal/model"
)

// Color palette
var (
	colorPrimary   = lipgloss.Color("#6C63FF")
	colorMuted     = lipgloss.Color("#666666")
	colorSuccess   = lipgloss.Color("#2ECC71")
	colorWarning   = lipgloss.Color("#F39C12")
	colorError     = lipgloss.Color("#E74C3C")
	colorFg        = lipgloss.Color("#C0CAF5")
	colorSubtle    = lipgloss.Color("#414868")
	colorHighlight = lipgloss.Color("#7AA2F7")
)

// blockColors maps the semantic entity colors onto the terminal palette.
var blockColors = map[model.Color]lipgloss.Color{
	model.ColorYellow:  lipgloss.Color("#F1C40F"),
	model.ColorGreen:   lipgloss.Color("#2ECC71"),
	model.ColorBlue:    lipgloss.Color("#3498DB"),
	model.ColorIndigo:  lipgloss.Color("#6C63FF"),
	model.ColorPurple:  lipgloss.Color("#9B59B6"),
	model.ColorOrange:  lipgloss.Color("#F39C12"),
	model.ColorRed:     lipgloss.Color("#E74C3C"),
	model.ColorNeutral: lipgloss.Color("#888888"),
}

func blockColor(c model.Color) lipgloss.Color {
	if lc, ok := blockColors[c]; ok {
		return lc
	}
	return blockColors[model.ColorNeutral]
}

// iconGlyphs maps the semantic routine icons onto glyphs.
var iconGlyphs = map[model.Icon]string{
	model.IconSun:   "☀",
	model.IconMeal:  "🍽",
	model.IconRest:  "☕",
	model.IconSleep: "🌙",
	model.IconNote:  "✎",
}

func iconGlyph(i model.Icon) string {
	if g, ok := iconGlyphs[i]; ok {
		return g
	}
	return "•"
}

// Styles
var (
	// Tabs
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 2)

	// Panels
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Padding(1, 2)

	// Countdown
	timerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Align(lipgloss.Center)

	// Text
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	highlightStyle = lipgloss.NewStyle().
			Foreground(colorHighlight)

	// Header/footer
	headerStyle = lipgloss.NewStyle().
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	// List items
	selectedItemStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)
)
