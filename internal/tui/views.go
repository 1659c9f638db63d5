package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.loading && m.ledger == nil {
		return m.theme.Subtitle.Render("Loading products...")
	}

	sections := []string{
		m.renderHeader(),
		m.stats.View(),
		"",
		m.table.View(),
	}
	if m.notes.Active() {
		sections = append(sections, m.notes.View())
	}
	sections = append(sections, m.renderStatusLine(), m.help.View(m.keymap))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render("📈 Product Review")
	filter := m.theme.Subtitle.Render("filter: " + m.filterLabel())
	gap := max(m.width-lipgloss.Width(title)-lipgloss.Width(filter), 1)
	return title + strings.Repeat(" ", gap) + filter
}

func (m Model) renderStatusLine() string {
	if m.lastError != nil {
		return m.theme.StatusError.Render("✗ " + m.lastError.Error())
	}
	if m.message == "" {
		return ""
	}
	return m.theme.StatusInfo.Render(m.message)
}
