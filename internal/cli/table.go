package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Veraticus/trendscout/internal/extract"
	"github.com/Veraticus/trendscout/internal/model"
	"github.com/Veraticus/trendscout/internal/service"
)

// ProductHeaders are the columns of the product listing table.
var ProductHeaders = []string{"#", "Score", "Name", "Category", "Country", "Price", "Margin", "Status"}

const tableNameWidth = 48

// ProductRows converts records into plain table rows.
func ProductRows(products []model.ProductRecord) [][]string {
	rows := make([][]string, len(products))
	for i, p := range products {
		rows[i] = []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", p.Scores.Overall),
			extract.Truncate(p.Name, tableNameWidth),
			string(p.Category),
			p.Country,
			FormatPrice(p.RetailPrice),
			FormatMargin(p.Margin),
			string(p.Status),
		}
	}
	return rows
}

// RenderProductTable renders records as a bordered table.
func RenderProductTable(products []model.ProductRecord) string {
	statusCol := len(ProductHeaders) - 1
	scoreCol := 1

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(SubtleStyle).
		Headers(ProductHeaders...).
		Rows(ProductRows(products)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			if row < 0 || row >= len(products) {
				return TableCellStyle
			}
			p := products[row]
			switch col {
			case statusCol:
				return StatusStyle(p.Status).Padding(0, 1)
			case scoreCol:
				return ScoreStyle(p.Scores.Overall).Padding(0, 1)
			default:
				return TableCellStyle
			}
		})

	return t.Render()
}

// RunHeaders are the columns of the research run table.
var RunHeaders = []string{"Started", "Run", "Strategy", "Collected", "Saved", "Errors", "Avg Margin", "Duration"}

// RunRows converts run summaries into plain table rows. Run IDs are shortened
// to their first eight characters.
func RunRows(runs []service.RunSummary) [][]string {
	rows := make([][]string, len(runs))
	for i, r := range runs {
		rows[i] = []string{
			r.StartedAt.Local().Format(time.DateTime),
			r.RunID[:min(8, len(r.RunID))],
			r.Strategy,
			fmt.Sprintf("%d", r.Collected),
			fmt.Sprintf("%d", r.Saved),
			fmt.Sprintf("%d", r.SourceErrors),
			fmt.Sprintf("%.1f%%", r.AverageMargin),
			r.Duration.Round(time.Second).String(),
		}
	}
	return rows
}

// RenderRunTable renders run summaries as a bordered table.
func RenderRunTable(runs []service.RunSummary) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(SubtleStyle).
		Headers(RunHeaders...).
		Rows(RunRows(runs)...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		}).
		Render()
}
