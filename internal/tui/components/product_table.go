// Package components holds the reusable widgets of the review dashboard.
package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/trendscout/internal/extract"
	"github.com/Veraticus/trendscout/internal/model"
	"github.com/Veraticus/trendscout/internal/tui/themes"
)

const (
	nameColumnWidth = 30
	minTableHeight  = 3
)

// ProductTableModel lists products in a scrollable table.
type ProductTableModel struct {
	theme    themes.Theme
	table    table.Model
	products []model.ProductRecord
}

// NewProductTableModel creates an empty, focused product table.
func NewProductTableModel(theme themes.Theme) ProductTableModel {
	t := table.New(
		table.WithColumns(productColumns()),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Bold(true).
		Foreground(theme.Secondary)
	styles.Selected = theme.Selected
	t.SetStyles(styles)

	return ProductTableModel{theme: theme, table: t}
}

func productColumns() []table.Column {
	return []table.Column{
		{Title: "Score", Width: 5},
		{Title: "Name", Width: nameColumnWidth},
		{Title: "Category", Width: 14},
		{Title: "Country", Width: 8},
		{Title: "Price", Width: 9},
		{Title: "Margin", Width: 7},
		{Title: "Status", Width: 9},
	}
}

// SetProducts replaces the rows. The cursor is kept in range.
func (m *ProductTableModel) SetProducts(products []model.ProductRecord) {
	m.products = products

	rows := make([]table.Row, len(products))
	for i, p := range products {
		rows[i] = productRow(p)
	}
	m.table.SetRows(rows)

	if cursor := m.table.Cursor(); cursor >= len(products) {
		m.table.SetCursor(max(len(products)-1, 0))
	}
}

func productRow(p model.ProductRecord) table.Row {
	price := "N/A"
	if p.RetailPrice != nil {
		price = fmt.Sprintf("$%.2f", *p.RetailPrice)
	}
	margin := "-"
	if p.Margin != nil {
		margin = fmt.Sprintf("%.1f%%", p.Margin.MarginPercent)
	}
	return table.Row{
		fmt.Sprintf("%d", p.Scores.Overall),
		extract.Truncate(p.Name, nameColumnWidth),
		string(p.Category),
		p.Country,
		price,
		margin,
		string(p.Status),
	}
}

// Selected returns the product under the cursor.
func (m ProductTableModel) Selected() (model.ProductRecord, bool) {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.products) {
		return model.ProductRecord{}, false
	}
	return m.products[cursor], true
}

// Len returns the number of rows.
func (m ProductTableModel) Len() int {
	return len(m.products)
}

// Resize fits the table into the given area.
func (m *ProductTableModel) Resize(width, height int) {
	m.table.SetWidth(width)
	m.table.SetHeight(max(height, minTableHeight))
}

// Update handles navigation keys.
func (m ProductTableModel) Update(msg tea.Msg) (ProductTableModel, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the table.
func (m ProductTableModel) View() string {
	if len(m.products) == 0 {
		return m.theme.Subtitle.Render("No products match the current filter.")
	}
	return m.table.View()
}
