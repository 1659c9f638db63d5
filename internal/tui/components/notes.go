package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/trendscout/internal/tui/themes"
)

const notesCharLimit = 500

// NotesSubmittedMsg is sent when the editor is confirmed.
type NotesSubmittedMsg struct {
	Identity string
	Notes    string
}

// NotesCancelledMsg is sent when the editor is dismissed.
type NotesCancelledMsg struct{}

// NotesEditorModel edits the free-text notes of one product.
type NotesEditorModel struct {
	theme    themes.Theme
	input    textinput.Model
	identity string
	name     string
	active   bool
}

// NewNotesEditorModel creates an inactive editor.
func NewNotesEditorModel(theme themes.Theme) NotesEditorModel {
	ti := textinput.New()
	ti.Placeholder = "Add a note..."
	ti.CharLimit = notesCharLimit
	ti.Width = 60

	return NotesEditorModel{theme: theme, input: ti}
}

// Open starts editing the notes of a product.
func (m *NotesEditorModel) Open(identity, name, notes string) tea.Cmd {
	m.identity = identity
	m.name = name
	m.active = true
	m.input.SetValue(notes)
	m.input.CursorEnd()
	return m.input.Focus()
}

// Close hides the editor.
func (m *NotesEditorModel) Close() {
	m.active = false
	m.input.Blur()
}

// Active reports whether the editor is open.
func (m NotesEditorModel) Active() bool {
	return m.active
}

// Update handles typing, enter and escape.
func (m NotesEditorModel) Update(msg tea.Msg) (NotesEditorModel, tea.Cmd) {
	if !m.active {
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEnter:
			submitted := NotesSubmittedMsg{Identity: m.identity, Notes: m.input.Value()}
			m.Close()
			return m, func() tea.Msg { return submitted }
		case tea.KeyEsc:
			m.Close()
			return m, func() tea.Msg { return NotesCancelledMsg{} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the editor box.
func (m NotesEditorModel) View() string {
	if !m.active {
		return ""
	}
	return m.theme.RoundedBox.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Bold.Render("Notes for "+m.name),
		m.input.View(),
		m.theme.Subtitle.Render("enter save · esc cancel"),
	))
}
