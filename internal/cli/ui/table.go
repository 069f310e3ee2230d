// Package ui renders loomctl's inspect/decode output as simple lipgloss
// tables.
package ui

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true)
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// Table is a simple title + header + rows renderer for terminal output.
type Table struct {
	headers []string
	rows    [][]string
	title   string
}

func NewTable(headers []string) *Table {
	return &Table{headers: headers}
}

func (t *Table) WithTitle(title string) *Table {
	t.title = title
	return t
}

func (t *Table) AddRow(row []string) *Table {
	t.rows = append(t.rows, row)
	return t
}

// Render lays out the table, right-padding every column to its widest cell.
func (t *Table) Render() string {
	if len(t.rows) == 0 {
		return ""
	}

	colWidths := make([]int, len(t.headers))
	for i, header := range t.headers {
		colWidths[i] = lipgloss.Width(header)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(colWidths) {
				if w := lipgloss.Width(cell); w > colWidths[i] {
					colWidths[i] = w
				}
			}
		}
	}

	var out strings.Builder
	if t.title != "" {
		out.WriteString("\n")
		out.WriteString(titleStyle.Render(t.title))
		out.WriteString("\n\n")
	}

	headerParts := make([]string, len(t.headers))
	for i, header := range t.headers {
		headerParts[i] = padRight(tableHeaderStyle.Render(header), colWidths[i])
	}
	out.WriteString(strings.Join(headerParts, "  "))
	out.WriteString("\n")

	sep := "─"
	if runtime.GOOS == "windows" {
		sep = "-"
	}
	sepParts := make([]string, len(t.headers))
	for i := range t.headers {
		sepParts[i] = mutedStyle.Render(strings.Repeat(sep, colWidths[i]))
	}
	out.WriteString(strings.Join(sepParts, "  "))
	out.WriteString("\n")

	for _, row := range t.rows {
		rowParts := make([]string, len(t.headers))
		for i, cell := range row {
			if i < len(colWidths) {
				rowParts[i] = padRight(cell, colWidths[i])
			}
		}
		out.WriteString(strings.Join(rowParts, "  "))
		out.WriteString("\n")
	}

	return out.String()
}

func padRight(text string, width int) string {
	if w := lipgloss.Width(text); w < width {
		return text + strings.Repeat(" ", width-w)
	}
	return text
}

func (t *Table) Print() {
	fmt.Print(t.Render())
}
