package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table is a plain column-aligned listing
type Table struct {
	Headers []string
	Rows    [][]string
}

// NewTable creates a table with the given headers
func NewTable(headers ...string) *Table {
	return &Table{Headers: headers}
}

// AddRow appends a row; missing cells render empty
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Render lays the table out with two spaces between columns.
// Widths are measured with lipgloss so styled cells line up.
func (t *Table) Render() string {
	if len(t.Headers) == 0 {
		return ""
	}

	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	b.WriteString(StyleHeader.Render(t.line(t.Headers, widths)))
	b.WriteString("\n")

	rules := make([]string, len(widths))
	for i, w := range widths {
		rules[i] = strings.Repeat("─", w)
	}
	b.WriteString(StyleMuted.Render(strings.Join(rules, "  ")))
	b.WriteString("\n")

	for _, row := range t.Rows {
		b.WriteString(t.line(row, widths))
		b.WriteString("\n")
	}
	return b.String()
}

func (t *Table) line(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if i == len(widths)-1 {
			parts[i] = cell
			continue
		}
		parts[i] = cell + strings.Repeat(" ", w-lipgloss.Width(cell))
	}
	return strings.Join(parts, "  ")
}
