package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/trendscout/internal/model"
	"github.com/Veraticus/trendscout/internal/service"
	"github.com/Veraticus/trendscout/internal/tui/themes"
)

func TestProductTable_SelectedFollowsCursor(t *testing.T) {
	m := NewProductTableModel(themes.Default)
	m.Resize(100, 10)

	_, ok := m.Selected()
	assert.False(t, ok)

	m.SetProducts([]model.ProductRecord{
		{Identity: "a", Name: "Smart Mug", RetailPrice: model.Float(19.5), Margin: &model.Margin{MarginPercent: 42.3}},
		{Identity: "b", Name: "Yoga Mat"},
	})
	p, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "a", p.Identity)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	p, _ = m.Selected()
	assert.Equal(t, "b", p.Identity)

	m.SetProducts(m.products[:1])
	p, ok = m.Selected()
	require.True(t, ok)
	assert.Equal(t, "a", p.Identity)

	view := m.View()
	assert.Contains(t, view, "$19.50")
	assert.Contains(t, view, "42.3%")
}

func TestProductRow(t *testing.T) {
	row := productRow(model.ProductRecord{Name: "Lamp", Country: "UAE", Category: model.CategoryHomeGarden, Status: model.StatusApproved})
	assert.Equal(t, []string{"0", "Lamp", "Home & Garden", "UAE", "N/A", "-", "approved"}, []string(row))
}

func TestStatsPanel_Reviewed(t *testing.T) {
	tests := []struct {
		name  string
		stats service.ReviewStats
		want  float64
	}{
		{name: "empty", want: 0},
		{name: "half", stats: service.ReviewStats{Total: 4, Pending: 2, Approved: 1, Rejected: 1}, want: 0.5},
		{name: "done", stats: service.ReviewStats{Total: 2, Approved: 2}, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewStatsPanelModel(themes.Default)
			m.SetStats(tt.stats)
			assert.InDelta(t, tt.want, m.Reviewed(), 0.0001)
		})
	}
}

func TestStatsPanel_View(t *testing.T) {
	m := NewStatsPanelModel(themes.Default)
	m.SetWidth(120)
	m.SetStats(service.ReviewStats{Total: 4, Pending: 3, Approved: 1, AverageScore: 55})

	view := m.View()
	assert.Contains(t, view, "4 products")
	assert.Contains(t, view, "3 pending")
	assert.Contains(t, view, "25% reviewed")
}

func TestNotesEditor(t *testing.T) {
	m := NewNotesEditorModel(themes.Default)
	assert.Empty(t, m.View())

	m.Open("id-1", "Smart Mug", "old")
	assert.True(t, m.Active())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("er")})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	assert.False(t, m.Active())
	assert.Equal(t, NotesSubmittedMsg{Identity: "id-1", Notes: "older"}, cmd())
}
