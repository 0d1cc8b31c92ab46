package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Align controls horizontal alignment within a table column.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Cell is a table cell with an optional style override. The zero style
// renders with the table's default row style.
type Cell struct {
	Text  string
	Style *lipgloss.Style
}

// Table renders static tabular data. Numeric columns should be
// right-aligned so magnitudes line up.
type Table struct {
	Title   string
	Headers []string
	Aligns  []Align
	Rows    [][]Cell
}

// NewTable creates a table with the given title and headers. Alignment
// defaults to left for every column until SetAligns is called.
func NewTable(title string, headers ...string) *Table {
	return &Table{
		Title:   title,
		Headers: headers,
		Aligns:  make([]Align, len(headers)),
	}
}

// SetAligns sets per-column alignment. Extra or missing entries are
// tolerated; unset columns stay left-aligned.
func (t *Table) SetAligns(aligns ...Align) *Table {
	for i, a := range aligns {
		if i < len(t.Aligns) {
			t.Aligns[i] = a
		}
	}
	return t
}

// AddRow adds a plain-text row.
func (t *Table) AddRow(cells ...string) {
	row := make([]Cell, len(cells))
	for i, c := range cells {
		row[i] = Cell{Text: c}
	}
	t.Rows = append(t.Rows, row)
}

// AddStyledRow adds a row of pre-built cells.
func (t *Table) AddStyledRow(cells ...Cell) {
	t.Rows = append(t.Rows, cells)
}

// View renders the table using the provided styles.
func (t *Table) View(styles Styles) string {
	if len(t.Rows) == 0 {
		return ""
	}

	var sb strings.Builder

	if t.Title != "" {
		sb.WriteString(styles.Title.Render(t.Title))
		sb.WriteString("\n")
	}

	colWidths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		colWidths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(colWidths) {
				if w := lipgloss.Width(cell.Text); w > colWidths[i] {
					colWidths[i] = w
				}
			}
		}
	}

	headerStyle := styles.Bold
	rowStyle := styles.Body
	sepStyle := styles.Muted

	for i, h := range t.Headers {
		sb.WriteString(" ")
		sb.WriteString(headerStyle.Render(pad(h, colWidths[i], t.align(i))))
		sb.WriteString(" ")
		if i < len(t.Headers)-1 {
			sb.WriteString(sepStyle.Render("|"))
		}
	}
	sb.WriteString("\n")

	totalWidth := len(t.Headers) - 1 // separators
	for _, w := range colWidths {
		totalWidth += w + 2
	}
	sb.WriteString(sepStyle.Render(strings.Repeat("-", totalWidth)) + "\n")

	for _, row := range t.Rows {
		for i, cell := range row {
			if i >= len(colWidths) {
				continue
			}
			style := rowStyle
			if cell.Style != nil {
				style = *cell.Style
			}
			sb.WriteString(" ")
			sb.WriteString(style.Render(pad(cell.Text, colWidths[i], t.align(i))))
			sb.WriteString(" ")
			if i < len(row)-1 {
				sb.WriteString(sepStyle.Render("|"))
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func (t *Table) align(col int) Align {
	if col < len(t.Aligns) {
		return t.Aligns[col]
	}
	return AlignLeft
}

// pad pads text to width before styling so ANSI sequences do not skew
// the column math.
func pad(text string, width int, a Align) string {
	gap := width - lipgloss.Width(text)
	if gap <= 0 {
		return text
	}
	fill := strings.Repeat(" ", gap)
	if a == AlignRight {
		return fill + text
	}
	return text + fill
}
