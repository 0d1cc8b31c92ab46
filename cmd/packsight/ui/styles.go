// Package ui provides the visual styling for the packsight terminal
// interface, with light/dark mode support.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Light Mode Colors (Default)
	LightBackground = lipgloss.Color("#f4f5f6")
	LightForeground = lipgloss.Color("#101F38")
	LightPrimary    = lipgloss.Color("#101F38")
	LightAccent     = lipgloss.Color("#2196F3")
	LightSecondary  = lipgloss.Color("#e1e4e8")
	LightMuted      = lipgloss.Color("#8a94a3")
	LightBorder     = lipgloss.Color("#dce0e5")
	LightCard       = lipgloss.Color("#ffffff")

	// Dark Mode Colors
	DarkBackground = lipgloss.Color("#141d2b")
	DarkForeground = lipgloss.Color("#f2f2f2")
	DarkPrimary    = lipgloss.Color("#64b5f6")
	DarkAccent     = lipgloss.Color("#2196F3")
	DarkSecondary  = lipgloss.Color("#1e2a3d")
	DarkMuted      = lipgloss.Color("#5a6a85")
	DarkBorder     = lipgloss.Color("#2a3850")
	DarkCard       = lipgloss.Color("#1a2536")

	// Semantic colors (same in both modes). Pass/Fail/Warn carry the gate
	// verdicts and the win/lose classification in the comparison table.
	PassColor = lipgloss.Color("#8BC34A") // Lime Green
	FailColor = lipgloss.Color("#e53935") // Red
	WarnColor = lipgloss.Color("#FFC107") // Yellow
	InfoColor = lipgloss.Color("#2196F3") // Blue

	// Chart colors for the telemetry plot
	ChartBar     = lipgloss.Color("#4db6ac") // Teal, healthy column
	ChartUtil    = lipgloss.Color("#e53935") // Red, utilization below floor
	ChartPower   = lipgloss.Color("#FFC107") // Yellow, power above ceiling
	ChartAxis    = lipgloss.Color("#5a6a85")
	ChartOverlay = lipgloss.Color("#ff8a65") // Orange-red, temperature overlay
)

// Theme holds the current color scheme
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Secondary  lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Secondary:  LightSecondary,
		Muted:      LightMuted,
		Border:     LightBorder,
		Card:       LightCard,
		IsDark:     false,
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Secondary:  DarkSecondary,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Card:       DarkCard,
		IsDark:     true,
	}
}

// DetectTheme auto-detects based on terminal or returns light mode
func DetectTheme() Theme {
	// COLORFGBG is usually "foreground;background"; ANSI indices 0-6
	// and 8 indicate a dark background.
	colorTerm := os.Getenv("COLORFGBG")
	if colorTerm != "" {
		parts := strings.Split(colorTerm, ";")
		if len(parts) == 2 {
			if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
				if (bgIdx >= 0 && bgIdx <= 6) || bgIdx == 8 {
					return DarkTheme()
				}
			}
		}
	}

	if os.Getenv("PACKSIGHT_DARK_MODE") == "1" {
		return DarkTheme()
	}

	return LightTheme()
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	// Layout
	App     lipgloss.Style
	Header  lipgloss.Style
	Footer  lipgloss.Style
	Content lipgloss.Style

	// Text
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style

	// Verdicts
	Pass lipgloss.Style
	Fail lipgloss.Style
	Warn lipgloss.Style
	Info lipgloss.Style

	// Comparison rows
	Win  lipgloss.Style
	Lose lipgloss.Style
	Tie  lipgloss.Style

	// Chart
	ChartBar   lipgloss.Style
	ChartUtil  lipgloss.Style
	ChartPower lipgloss.Style
	ChartAxis  lipgloss.Style

	// Components
	Spinner lipgloss.Style
	Divider lipgloss.Style
	Badge   lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		App: lipgloss.NewStyle().
			Background(theme.Background).
			Foreground(theme.Foreground),

		Header: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),

		Content: lipgloss.NewStyle().
			Padding(1, 2),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Pass: lipgloss.NewStyle().
			Foreground(PassColor).
			Bold(true),

		Fail: lipgloss.NewStyle().
			Foreground(FailColor).
			Bold(true),

		Warn: lipgloss.NewStyle().
			Foreground(WarnColor).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(InfoColor),

		Win: lipgloss.NewStyle().
			Foreground(PassColor),

		Lose: lipgloss.NewStyle().
			Foreground(FailColor),

		Tie: lipgloss.NewStyle().
			Foreground(theme.Muted),

		ChartBar: lipgloss.NewStyle().
			Foreground(ChartBar),

		ChartUtil: lipgloss.NewStyle().
			Foreground(ChartUtil).
			Bold(true),

		ChartPower: lipgloss.NewStyle().
			Foreground(ChartPower),

		ChartAxis: lipgloss.NewStyle().
			Foreground(ChartAxis),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Accent),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),

		Badge: lipgloss.NewStyle().
			Background(theme.Accent).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 1).
			Bold(true),
	}
}

// DefaultStyles returns styles with the default (light) theme
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

// RenderDivider returns a horizontal divider
func (s Styles) RenderDivider(width int) string {
	return s.Divider.Render(strings.Repeat("─", width))
}
