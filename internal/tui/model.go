// Package tui implements the interactive review dashboard.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/trendscout/internal/model"
	"github.com/Veraticus/trendscout/internal/review"
	"github.com/Veraticus/trendscout/internal/service"
	"github.com/Veraticus/trendscout/internal/tui/components"
	"github.com/Veraticus/trendscout/internal/tui/themes"
)

// filterCycle is the order the filter key walks through. The empty status
// shows everything.
var filterCycle = []model.ReviewStatus{"", model.StatusPending, model.StatusApproved, model.StatusRejected}

// Model holds the dashboard state. Review decisions are written to the store
// first and applied to the local ledger once the store accepts them.
type Model struct {
	ctx       context.Context
	store     Store
	lastError error
	ledger    *review.Ledger
	theme     themes.Theme
	keymap    KeyMap
	help      help.Model
	config    Config
	table     components.ProductTableModel
	stats     components.StatsPanelModel
	notes     components.NotesEditorModel
	message   string
	filterIdx int
	width     int
	height    int
	loading   bool
	quitting  bool
}

// NewModel creates a dashboard model bound to ctx for store calls.
func NewModel(ctx context.Context, cfg Config) Model {
	h := help.New()
	h.ShowAll = cfg.ShowHelp

	m := Model{
		ctx:     ctx,
		store:   cfg.Store,
		config:  cfg,
		theme:   cfg.Theme,
		keymap:  DefaultKeyMap(),
		help:    h,
		table:   components.NewProductTableModel(cfg.Theme),
		stats:   components.NewStatsPanelModel(cfg.Theme),
		notes:   components.NewNotesEditorModel(cfg.Theme),
		width:   cfg.Width,
		height:  cfg.Height,
		loading: true,
	}
	m.resize()
	return m
}

// Init loads the products.
func (m Model) Init() tea.Cmd {
	return loadProductsCmd(m.ctx, m.store, m.config.Filter)
}

// Update handles all messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case productsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.lastError = fmt.Errorf("load products: %w", msg.err)
			return m, nil
		}
		m.lastError = nil
		m.ledger = review.NewLedger(msg.products)
		m.refresh()
		m.message = fmt.Sprintf("Loaded %d products", len(msg.products))
		return m, nil

	case statusUpdatedMsg:
		return m.handleStatusUpdated(msg), nil

	case notesUpdatedMsg:
		return m.handleNotesUpdated(msg), nil

	case components.NotesSubmittedMsg:
		m.message = "Saving notes..."
		return m, setNotesCmd(m.ctx, m.store, msg.Identity, msg.Notes)

	case components.NotesCancelledMsg:
		m.message = ""
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.notes.Active() {
		var cmd tea.Cmd
		m.notes, cmd = m.notes.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	if m.notes.Active() {
		var cmd tea.Cmd
		m.notes, cmd = m.notes.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return m, nil

	case key.Matches(msg, m.keymap.Refresh):
		m.loading = true
		m.message = "Reloading..."
		return m, loadProductsCmd(m.ctx, m.store, m.config.Filter)

	case key.Matches(msg, m.keymap.Filter):
		m.filterIdx = (m.filterIdx + 1) % len(filterCycle)
		m.refresh()
		m.message = "Showing " + m.filterLabel()
		return m, nil

	case key.Matches(msg, m.keymap.Approve):
		return m.review(model.StatusApproved)

	case key.Matches(msg, m.keymap.Reject):
		return m.review(model.StatusRejected)

	case key.Matches(msg, m.keymap.Pending):
		return m.review(model.StatusPending)

	case key.Matches(msg, m.keymap.Notes):
		p, ok := m.table.Selected()
		if !ok {
			return m, nil
		}
		cmd := m.notes.Open(p.Identity, p.Name, p.Notes)
		return m, cmd
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) review(status model.ReviewStatus) (tea.Model, tea.Cmd) {
	p, ok := m.table.Selected()
	if !ok {
		return m, nil
	}
	if p.Status == status {
		m.message = fmt.Sprintf("%s is already %s", p.Name, status)
		return m, nil
	}
	return m, setStatusCmd(m.ctx, m.store, p.Identity, status)
}

func (m Model) handleStatusUpdated(msg statusUpdatedMsg) Model {
	if msg.err != nil {
		m.lastError = fmt.Errorf("set status: %w", msg.err)
		return m
	}
	if err := m.ledger.SetStatus(msg.identity, msg.status, nil); err != nil {
		m.lastError = err
		return m
	}
	m.lastError = nil
	m.refresh()

	if p, err := m.ledger.Get(msg.identity); err == nil {
		m.message = fmt.Sprintf("%s → %s", p.Name, msg.status)
	}
	return m
}

func (m Model) handleNotesUpdated(msg notesUpdatedMsg) Model {
	if msg.err != nil {
		m.lastError = fmt.Errorf("set notes: %w", msg.err)
		return m
	}
	if err := m.ledger.SetNotes(msg.identity, msg.notes); err != nil {
		m.lastError = err
		return m
	}
	m.lastError = nil
	m.refresh()
	m.message = "Notes saved"
	return m
}

// refresh rebuilds the table and stats from the ledger.
func (m *Model) refresh() {
	if m.ledger == nil {
		return
	}
	records := m.ledger.Records()
	m.stats.SetStats(service.ComputeReviewStats(records))

	status := filterCycle[m.filterIdx]
	if status == "" {
		m.table.SetProducts(records)
		return
	}
	visible := make([]model.ProductRecord, 0, len(records))
	for _, r := range records {
		if r.Status == status {
			visible = append(visible, r)
		}
	}
	m.table.SetProducts(visible)
}

func (m Model) filterLabel() string {
	if status := filterCycle[m.filterIdx]; status != "" {
		return string(status)
	}
	return "all"
}

// chromeHeight is the number of rows used by the header, stats and footer.
const chromeHeight = 9

func (m *Model) resize() {
	m.help.Width = m.width
	m.stats.SetWidth(m.width)
	extra := 0
	if m.help.ShowAll {
		extra = 3
	}
	m.table.Resize(m.width, m.height-chromeHeight-extra)
}

// Records returns the current ledger contents.
func (m Model) Records() []model.ProductRecord {
	if m.ledger == nil {
		return nil
	}
	return m.ledger.Records()
}

// Err returns the last store error, if any.
func (m Model) Err() error {
	return m.lastError
}
