package tui

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/trendscout/internal/common"
	"github.com/Veraticus/trendscout/internal/model"
	"github.com/Veraticus/trendscout/internal/service"
	"github.com/Veraticus/trendscout/internal/tui/components"
	"github.com/Veraticus/trendscout/internal/tui/themes"
)

type fakeStore struct {
	statusErr error
	notes     map[string]string
	statuses  map[string]model.ReviewStatus
	products  []model.ProductRecord
	mu        sync.Mutex
}

func newFakeStore(products ...model.ProductRecord) *fakeStore {
	return &fakeStore{
		products: products,
		notes:    map[string]string{},
		statuses: map[string]model.ReviewStatus{},
	}
}

func (s *fakeStore) ListProducts(_ context.Context, filter service.ProductFilter) ([]model.ProductRecord, error) {
	var out []model.ProductRecord
	for _, p := range s.products {
		if filter.Matches(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeStore) SetStatus(_ context.Context, identity string, status model.ReviewStatus, _ *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.statusErr != nil {
		return s.statusErr
	}
	s.statuses[identity] = status
	return nil
}

func (s *fakeStore) SetNotes(_ context.Context, identity, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes[identity] = notes
	return nil
}

func products() []model.ProductRecord {
	return []model.ProductRecord{
		{Identity: "https://shop.example/a", Name: "Smart Mug", Status: model.StatusPending, Scores: model.Scores{Overall: 80}},
		{Identity: "https://shop.example/b", Name: "Yoga Mat", Status: model.StatusApproved, Scores: model.Scores{Overall: 60}},
		{Identity: "https://shop.example/c", Name: "Pet Fountain", Status: model.StatusRejected, Scores: model.Scores{Overall: 40}},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send delivers msg and then feeds back every message the resulting command
// produces, the way the program loop would.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, cmd := m.Update(msg)
	m = updated.(Model)
	for cmd != nil {
		next := cmd()
		if next == nil {
			return m
		}
		if _, ok := next.(tea.QuitMsg); ok {
			return m
		}
		updated, cmd = m.Update(next)
		m = updated.(Model)
	}
	return m
}

// press delivers msg and drops the resulting command. The notes editor
// returns cursor blink ticks that would otherwise never settle.
func press(m Model, msg tea.Msg) Model {
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func loaded(t *testing.T, store *fakeStore) Model {
	t.Helper()
	cfg := defaultConfig()
	cfg.Store = store
	m := NewModel(context.Background(), cfg)
	updated, _ := m.Update(m.Init()())
	return updated.(Model)
}

func statusOf(t *testing.T, m Model, identity string) model.ReviewStatus {
	t.Helper()
	for _, r := range m.Records() {
		if r.Identity == identity {
			return r.Status
		}
	}
	t.Fatalf("record %s not found", identity)
	return ""
}

func TestModel_Load(t *testing.T) {
	m := loaded(t, newFakeStore(products()...))

	require.Len(t, m.Records(), 3)
	stats := m.stats.Stats()
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.Approved)
	assert.Equal(t, 1, stats.Rejected)
	assert.Contains(t, m.View(), "Smart Mug")
}

func TestModel_ReviewKeys(t *testing.T) {
	tests := []struct {
		name   string
		keys   []tea.KeyMsg
		target string
		want   model.ReviewStatus
	}{
		{
			name:   "approve first row",
			keys:   []tea.KeyMsg{runes("a")},
			target: "https://shop.example/a",
			want:   model.StatusApproved,
		},
		{
			name:   "reject second row",
			keys:   []tea.KeyMsg{runes("j"), runes("r")},
			target: "https://shop.example/b",
			want:   model.StatusRejected,
		},
		{
			name:   "revert rejected row to pending",
			keys:   []tea.KeyMsg{runes("j"), runes("j"), runes("p")},
			target: "https://shop.example/c",
			want:   model.StatusPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore(products()...)
			m := loaded(t, store)
			for _, k := range tt.keys {
				m = send(t, m, k)
			}

			require.NoError(t, m.Err())
			assert.Equal(t, tt.want, store.statuses[tt.target])
			assert.Equal(t, tt.want, statusOf(t, m, tt.target))
		})
	}
}

func TestModel_StoreErrorLeavesLedgerUnchanged(t *testing.T) {
	store := newFakeStore(products()...)
	store.statusErr = errors.New("sheet is read-only")
	m := loaded(t, store)

	m = send(t, m, runes("a"))

	require.Error(t, m.Err())
	assert.Contains(t, m.View(), "sheet is read-only")
	assert.Equal(t, model.StatusPending, statusOf(t, m, "https://shop.example/a"))
}

func TestModel_SameStatusIsNoop(t *testing.T) {
	store := newFakeStore(products()...)
	m := loaded(t, store)

	m = send(t, m, runes("p"))

	assert.Empty(t, store.statuses)
	assert.Contains(t, m.message, "already pending")
}

func TestModel_FilterCycle(t *testing.T) {
	m := loaded(t, newFakeStore(products()...))

	want := []struct {
		label string
		rows  int
	}{
		{label: "pending", rows: 1},
		{label: "approved", rows: 1},
		{label: "rejected", rows: 1},
		{label: "all", rows: 3},
	}
	for _, w := range want {
		m = send(t, m, runes("f"))
		assert.Equal(t, w.label, m.filterLabel())
		assert.Equal(t, w.rows, m.table.Len())
	}
}

func TestModel_ApprovedRowLeavesPendingFilter(t *testing.T) {
	m := loaded(t, newFakeStore(products()...))
	m = send(t, m, runes("f"))
	require.Equal(t, 1, m.table.Len())

	m = send(t, m, runes("a"))

	assert.Zero(t, m.table.Len())
	assert.Equal(t, 2, m.stats.Stats().Approved)
}

func TestModel_EditNotes(t *testing.T) {
	store := newFakeStore(products()...)
	m := loaded(t, store)

	m = press(m, runes("n"))
	require.True(t, m.notes.Active())

	// Keys go to the editor while it is open.
	m = press(m, runes("q"))
	m = press(m, runes("c"))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.notes.Active())
	assert.Equal(t, "qc", store.notes["https://shop.example/a"])
	for _, r := range m.Records() {
		if r.Identity == "https://shop.example/a" {
			assert.Equal(t, "qc", r.Notes)
			assert.Equal(t, model.StatusPending, r.Status)
		}
	}
}

func TestModel_CancelNotes(t *testing.T) {
	store := newFakeStore(products()...)
	m := loaded(t, store)

	m = press(m, runes("n"))
	m = press(m, runes("x"))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, m.notes.Active())
	assert.Empty(t, store.notes)
}

func TestModel_Quit(t *testing.T) {
	m := loaded(t, newFakeStore(products()...))

	updated, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, updated.(Model).View())
}

func TestModel_EmptyStore(t *testing.T) {
	m := loaded(t, newFakeStore())

	m = send(t, m, runes("a"))

	require.NoError(t, m.Err())
	assert.Contains(t, m.View(), "No products match")
}

func TestRun_RequiresStore(t *testing.T) {
	err := Run(context.Background(), nil)
	require.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestNotesSubmittedMsgRoutesToStore(t *testing.T) {
	store := newFakeStore(products()...)
	m := loaded(t, store)

	m = send(t, m, components.NotesSubmittedMsg{Identity: "https://shop.example/b", Notes: "ship from EU"})

	assert.Equal(t, "ship from EU", store.notes["https://shop.example/b"])
	assert.Equal(t, "Notes saved", m.message)
}

func TestGetTheme(t *testing.T) {
	assert.Equal(t, themes.CatppuccinMocha.Primary, themes.GetTheme("catppuccin-mocha").Primary)
	assert.Equal(t, themes.Default.Primary, themes.GetTheme("unknown").Primary)
}
