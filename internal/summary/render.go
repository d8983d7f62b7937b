package summary

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"cloudcover/internal/domain"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Print writes the head of the merged table and its statistics to w.
func Print(w io.Writer, rows []domain.MergedRecord, previewRows int) error {
	head := Preview(rows, previewRows)
	if _, err := fmt.Fprintf(w, "Head of table (%d of %d rows):\n", len(head), len(rows)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, RenderPreview(domain.MergedColumns, head)); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "\nDescription:"); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, RenderStats(Describe(MergedColumns(rows))))
	return err
}

// RenderPreview renders rows under header as a bordered table.
func RenderPreview(header []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(header...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.Render()
}

// RenderStats renders column statistics with one column per table column
// and one row per statistic.
func RenderStats(stats []ColumnStats) string {
	header := make([]string, 0, len(stats)+1)
	header = append(header, "")
	for _, s := range stats {
		header = append(header, s.Name)
	}

	rows := make([][]string, 0, len(statRows))
	for _, name := range statRows {
		row := make([]string, 0, len(stats)+1)
		row = append(row, name)
		for _, s := range stats {
			row = append(row, s.cell(name))
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(header...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return labelStyle
			default:
				return cellStyle
			}
		})
	return t.Render()
}
