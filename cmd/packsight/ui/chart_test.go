package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"packsight/internal/telemetry"
)

func pct(v float64) *float64 { return &v }

func testPlot() *telemetry.Plot {
	return &telemetry.Plot{
		Track: "omega",
		Dims:  telemetry.Dims{Width: 10, Height: 6},
		Points: []telemetry.Sample{
			{X: 0, UtilPct: pct(90), PowerPct: pct(80)},
			{X: 4.5, UtilPct: pct(65), PowerPct: pct(100), UtilFail: true, PowerWarn: true, Flagged: true},
			{X: 9, UtilPct: pct(72), PowerPct: pct(60)},
		},
		FlaggedCount: 1,
		SpanSeconds:  10,
	}
}

func TestRenderChart(t *testing.T) {
	styles := NewStyles(LightTheme())
	out := RenderChart(testPlot(), styles)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	// Height rows plus x-axis, status line and legend.
	require.Len(t, lines, 6+3)

	assert.Contains(t, out, "3 points | 10.0s window | 1 flagged")
	assert.Contains(t, out, glyphUtilFail, "failing utilization sample gets the distinct marker")
	assert.Contains(t, out, glyphBar)
	assert.Contains(t, lines[0], "100%")
	assert.Contains(t, lines[5], "0%")
}

func TestRenderChart_GapBreaksLine(t *testing.T) {
	plot := testPlot()
	plot.Points[1].UtilPct = nil
	plot.Points[1].PowerPct = nil
	plot.Points[1].UtilFail = false
	plot.Points[1].PowerWarn = false
	plot.Points[1].Flagged = false
	plot.FlaggedCount = 0

	out := RenderChart(plot, NewStyles(LightTheme()))
	assert.NotContains(t, out, glyphUtilFail)

	// The middle column renders blank at every row.
	lines := strings.Split(out, "\n")
	for _, line := range lines[:6] {
		cols := []rune(line)
		require.Greater(t, len(cols), axisWidth+5)
		assert.Equal(t, ' ', cols[axisWidth+5])
	}
}

func TestRenderChart_TooSmall(t *testing.T) {
	plot := testPlot()
	plot.Dims = telemetry.Dims{Width: 1, Height: 1}
	out := RenderChart(plot, NewStyles(LightTheme()))
	assert.Contains(t, out, "too small")
}

func TestRenderChartError(t *testing.T) {
	out := RenderChartError("omega", errors.New("t_s/power_w length mismatch"), NewStyles(LightTheme()))
	assert.Contains(t, out, "telemetry unavailable")
	assert.Contains(t, out, "track: omega")
	assert.Contains(t, out, "length mismatch")
}
