// Package termui renders standings and reports for the terminal.
package termui

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/KaramelBytes/leaguelens/internal/league"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	oddRowStyle = cellStyle.Foreground(lipgloss.Color("245"))
)

// RenderTable draws the given columns of t (all columns when none are
// given) as a bordered table.
func RenderTable(t *league.Table, cols ...string) (string, error) {
	if len(cols) == 0 {
		cols = t.Columns
	}
	values := make([][]string, len(cols))
	for j, c := range cols {
		v, err := t.Strings(c)
		if err != nil {
			return "", err
		}
		values[j] = v
	}
	rows := make([][]string, t.Len())
	for i := range rows {
		row := make([]string, len(cols))
		for j := range cols {
			row[j] = values[j][i]
		}
		rows[i] = row
	}
	tb := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		Headers(cols...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row%2 == 1:
				return oddRowStyle
			default:
				return cellStyle
			}
		})
	return fmt.Sprintf("%s (%d teams)\n%s", t.Name, t.Len(), tb.String()), nil
}

// RenderMarkdown renders md for a terminal. style is a glamour style name
// ("dark", "light", "notty", ...); empty selects one from the terminal.
func RenderMarkdown(md, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
