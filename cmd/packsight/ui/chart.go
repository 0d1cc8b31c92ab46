package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"packsight/internal/telemetry"
)

// Chart glyphs. The power series draws as columns, utilization and
// temperature overlay as markers on top of them.
const (
	glyphBar      = "█"
	glyphUtil     = "•"
	glyphUtilFail = "×"
	glyphTemp     = "·"
	glyphBlank    = " "
)

// RenderChart draws a normalized telemetry plot as a fixed-size grid.
// Power renders as vertical bars, utilization and temperature as point
// overlays. Columns whose sample trips a threshold get the fail/warn
// treatment; gaps in a series simply leave blank columns.
func RenderChart(plot *telemetry.Plot, styles Styles) string {
	w, h := plot.Dims.Width, plot.Dims.Height
	if w < 2 || h < 2 {
		return styles.Muted.Render("chart area too small")
	}

	tempStyle := lipgloss.NewStyle().Foreground(ChartOverlay)

	type cell struct {
		glyph string
		style lipgloss.Style
	}
	grid := make([][]cell, h)
	for r := range grid {
		grid[r] = make([]cell, w)
		for c := range grid[r] {
			grid[r][c] = cell{glyph: glyphBlank, style: styles.Body}
		}
	}

	for _, s := range plot.Points {
		col := int(s.X + 0.5)
		if col < 0 || col >= w {
			continue
		}

		if s.PowerPct != nil {
			barStyle := styles.ChartBar
			if s.PowerWarn {
				barStyle = styles.ChartPower
			}
			top := plot.Y(*s.PowerPct)
			for r := top; r < h; r++ {
				grid[r][col] = cell{glyph: glyphBar, style: barStyle}
			}
		}

		if s.TempPct != nil {
			r := plot.Y(*s.TempPct)
			grid[r][col] = cell{glyph: glyphTemp, style: tempStyle}
		}

		// Utilization wins the cell so a failing sample is never
		// hidden under a bar.
		if s.UtilPct != nil {
			r := plot.Y(*s.UtilPct)
			if s.UtilFail {
				grid[r][col] = cell{glyph: glyphUtilFail, style: styles.ChartUtil}
			} else {
				grid[r][col] = cell{glyph: glyphUtil, style: styles.Bold}
			}
		}
	}

	var sb strings.Builder
	for r := 0; r < h; r++ {
		sb.WriteString(styles.ChartAxis.Render(axisLabel(r, h)))
		for c := 0; c < w; c++ {
			sb.WriteString(grid[r][c].style.Render(grid[r][c].glyph))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(styles.ChartAxis.Render(strings.Repeat(" ", axisWidth) + strings.Repeat("─", w)))
	sb.WriteString("\n")
	sb.WriteString(styles.Muted.Render(plot.Status()))
	sb.WriteString("\n")
	sb.WriteString(chartLegend(styles))
	return sb.String()
}

// RenderChartError draws the explicit invalid-telemetry state shown in
// place of a chart when a track cannot be normalized.
func RenderChartError(track string, err error, styles Styles) string {
	var sb strings.Builder
	sb.WriteString(styles.Fail.Render("telemetry unavailable"))
	sb.WriteString("\n")
	sb.WriteString(styles.Body.Render(fmt.Sprintf("track: %s", track)))
	sb.WriteString("\n")
	sb.WriteString(styles.Muted.Render(err.Error()))
	return sb.String()
}

const axisWidth = 5

// axisLabel returns the y-axis gutter for a row; only the top, middle
// and bottom rows carry a percentage label.
func axisLabel(row, height int) string {
	switch row {
	case 0:
		return " 100%"
	case (height - 1) / 2:
		return "  50%"
	case height - 1:
		return "   0%"
	}
	return strings.Repeat(" ", axisWidth)
}

func chartLegend(styles Styles) string {
	parts := []string{
		styles.ChartBar.Render(glyphBar) + " power",
		styles.ChartPower.Render(glyphBar) + " power >85% limit",
		styles.Bold.Render(glyphUtil) + " util",
		styles.ChartUtil.Render(glyphUtilFail) + " util <70%",
		lipgloss.NewStyle().Foreground(ChartOverlay).Render(glyphTemp) + " temp",
	}
	return styles.Muted.Render(strings.Join(parts, "   "))
}
