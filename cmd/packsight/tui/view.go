package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"packsight/cmd/packsight/ui"
	"packsight/internal/compare"
	"packsight/internal/gates"
	"packsight/internal/logging"
	"packsight/internal/pack"
	"packsight/internal/session"
	"packsight/internal/telemetry"
)

func (m Model) View() string {
	if !m.ready {
		return "initializing..."
	}

	var sb strings.Builder
	sb.WriteString(m.styles.Header.Render("packsight · evidence pack audit"))
	sb.WriteString("\n\n")

	switch m.viewMode {
	case FilePickerView:
		sb.WriteString(m.styles.Title.Render(fmt.Sprintf("Open pack into slot %s", m.pendingSlot)))
		sb.WriteString("\n")
		sb.WriteString(m.filepicker.View())
	case TrackListView:
		sb.WriteString(m.list.View())
	case CompareView:
		sb.WriteString(m.viewport.View())
	default:
		sb.WriteString(m.renderDashboard())
	}

	sb.WriteString("\n")
	sb.WriteString(m.renderFooter())
	return sb.String()
}

func (m Model) renderDashboard() string {
	p, ok := m.session.Get(session.SlotCurrent)
	if !ok {
		return m.styles.Muted.Render("no pack loaded (press o to open one)")
	}

	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render(fmt.Sprintf("GPU: %s", p.GPUName())))
	sb.WriteString("\n")
	if n, ok := p.OOMWallN(); ok {
		sb.WriteString(m.styles.Warn.Render(fmt.Sprintf("baseline OOM wall at n=%.0f", n)))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString(m.renderGates(p))
	sb.WriteString("\n")
	sb.WriteString(m.renderChart(p))

	if len(p.Disclaimers) > 0 {
		sb.WriteString("\n\n")
		for _, d := range p.Disclaimers {
			sb.WriteString(m.styles.Muted.Render("· " + d))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (m Model) renderGates(p *pack.Pack) string {
	results := gates.Evaluate(p)

	tbl := ui.NewTable("Gates", "gate", "status", "detail")
	for _, name := range gates.Names {
		g := results[name]
		style := m.gateStyle(g.Status)
		tbl.AddStyledRow(
			ui.Cell{Text: g.Name},
			ui.Cell{Text: strings.ToUpper(string(g.Status)), Style: &style},
			ui.Cell{Text: g.Detail},
		)
	}
	return tbl.View(m.styles)
}

func (m Model) renderChart(p *pack.Pack) string {
	dims := telemetry.Dims{Width: m.cfg.Plot.Width, Height: m.cfg.Plot.Height}
	if m.width > 0 && dims.Width > m.width-8 {
		dims.Width = m.width - 8
	}

	plot, err := telemetry.Normalize(p, m.track, dims)
	if err != nil {
		return ui.RenderChartError(m.track, err, m.styles)
	}

	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render(fmt.Sprintf("Telemetry: %s", m.track)))
	sb.WriteString("\n")
	sb.WriteString(ui.RenderChart(plot, m.styles))
	return sb.String()
}

func (m Model) renderCompare() string {
	a, okA := m.session.Get(session.SlotA)
	b, okB := m.session.Get(session.SlotB)
	if !okA || !okB {
		return m.styles.Muted.Render("comparison needs both slots (keys a, b)")
	}

	res := compare.Compare(a, b)

	tbl := ui.NewTable("A/B comparison", "metric", "A", "B", "delta", "verdict")
	tbl.SetAligns(ui.AlignLeft, ui.AlignRight, ui.AlignRight, ui.AlignRight, ui.AlignLeft)
	for _, row := range res.Rows {
		verdictStyle := m.classStyle(row.Class)
		tbl.AddStyledRow(
			ui.Cell{Text: rowLabel(row)},
			ui.Cell{Text: sideText(row.TextA, row.ValueA)},
			ui.Cell{Text: sideText(row.TextB, row.ValueB)},
			ui.Cell{Text: deltaText(row.Delta)},
			ui.Cell{Text: row.Class.String(), Style: &verdictStyle},
		)
	}

	var sb strings.Builder
	sb.WriteString(tbl.View(m.styles))
	for _, hint := range res.Hints {
		sb.WriteString("\n")
		sb.WriteString(m.styles.Warn.Render(fmt.Sprintf(
			"side %s: top-1 accuracy %.4f below exact", hint.Side, hint.Accuracy)))
	}
	return sb.String()
}

func (m Model) renderFooter() string {
	var status string
	switch {
	case m.isLoading:
		status = m.spinner.View() + " " + m.statusMessage
	case m.err != nil:
		status = m.styles.Fail.Render(m.err.Error())
	case m.statusMessage != "":
		status = m.styles.Muted.Render(m.statusMessage)
	}

	width := m.width
	if width <= 0 {
		width = 80
	}
	footer := m.styles.Footer.Render("o: open  a/b: slots  c: compare  d: dashboard  t: tracks  e: export  q: quit")
	if logging.IsDebugMode() {
		footer += " " + m.styles.Badge.Render("debug")
	}
	return m.styles.RenderDivider(width) + "\n" + footer + "\n" + status
}

func (m Model) gateStyle(status gates.Status) lipgloss.Style {
	switch status {
	case gates.StatusPass:
		return m.styles.Pass
	case gates.StatusFail:
		return m.styles.Fail
	default:
		return m.styles.Warn
	}
}

func (m Model) classStyle(c compare.Class) lipgloss.Style {
	switch c {
	case compare.ClassWin:
		return m.styles.Win
	case compare.ClassLose:
		return m.styles.Lose
	case compare.ClassTie:
		return m.styles.Tie
	default:
		return m.styles.Muted
	}
}

func rowLabel(row compare.Row) string {
	if row.Unit == "" {
		return row.Label
	}
	return fmt.Sprintf("%s (%s)", row.Label, row.Unit)
}

// sideText formats one operand cell: display-only rows carry text, metric
// rows a resolved value, absent metrics a dash.
func sideText(text string, value *float64) string {
	if text != "" {
		return text
	}
	if value == nil {
		return "-"
	}
	return formatMetric(*value)
}

func deltaText(delta *float64) string {
	if delta == nil {
		return ""
	}
	return fmt.Sprintf("%+.2f", *delta)
}

// formatMetric trims trailing zeros so accuracy reads 1.0 while QPS
// still shows its decimals.
func formatMetric(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s
}
