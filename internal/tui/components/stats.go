package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/trendscout/internal/service"
	"github.com/Veraticus/trendscout/internal/tui/themes"
)

// StatsPanelModel displays review progress.
type StatsPanelModel struct {
	theme       themes.Theme
	progressBar progress.Model
	stats       service.ReviewStats
	width       int
}

// NewStatsPanelModel creates a new stats panel.
func NewStatsPanelModel(theme themes.Theme) StatsPanelModel {
	prog := progress.New(progress.WithDefaultGradient())
	prog.ShowPercentage = false
	prog.Width = 30

	return StatsPanelModel{theme: theme, progressBar: prog}
}

// SetStats replaces the displayed counts.
func (m *StatsPanelModel) SetStats(stats service.ReviewStats) {
	m.stats = stats
}

// Stats returns the displayed counts.
func (m StatsPanelModel) Stats() service.ReviewStats {
	return m.stats
}

// SetWidth adjusts the progress bar to the terminal width.
func (m *StatsPanelModel) SetWidth(width int) {
	m.width = width
	m.progressBar.Width = max(min(width-40, 40), 10)
}

// Reviewed returns the fraction of products that are no longer pending.
func (m StatsPanelModel) Reviewed() float64 {
	if m.stats.Total == 0 {
		return 0
	}
	return float64(m.stats.Approved+m.stats.Rejected) / float64(m.stats.Total)
}

// View renders the panel on one line.
func (m StatsPanelModel) View() string {
	parts := []string{
		m.theme.Bold.Render(fmt.Sprintf("%d products", m.stats.Total)),
		m.theme.StatusWarning.Render(fmt.Sprintf("%d pending", m.stats.Pending)),
		m.theme.StatusSuccess.Render(fmt.Sprintf("%d approved", m.stats.Approved)),
		m.theme.StatusError.Render(fmt.Sprintf("%d rejected", m.stats.Rejected)),
		m.theme.Subtitle.Render(fmt.Sprintf("avg score %.0f", m.stats.AverageScore)),
	}
	counts := strings.Join(parts, m.theme.Subtitle.Render(" · "))

	bar := lipgloss.JoinHorizontal(lipgloss.Center,
		m.progressBar.ViewAs(m.Reviewed()),
		m.theme.Subtitle.Render(fmt.Sprintf(" %.0f%% reviewed", m.Reviewed()*100)),
	)
	return lipgloss.JoinVertical(lipgloss.Left, counts, bar)
}
