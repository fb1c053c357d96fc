// Package leaderboard provides the ranking tab of the journalist leaderboard TUI.
package leaderboard

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/language"

	"github.com/j-veylop/journalist-leaderboard-tui/internal/app"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/ui/components"
)

// keyMap defines the key bindings specific to the leaderboard tab.
type keyMap struct {
	Next   key.Binding
	Prev   key.Binding
	First  key.Binding
	Last   key.Binding
	Window key.Binding
}

// defaultKeyMap returns the default key bindings for the leaderboard tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "next journalist"),
		),
		Prev: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "prev journalist"),
		),
		First: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first"),
		),
		Last: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last"),
		),
		// Handled by the root model; listed here for help.
		Window: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "cycle window"),
		),
	}
}

// Model represents the leaderboard tab state.
type Model struct {
	state    *app.State
	tag      language.Tag
	spinner  components.LoadingSpinner
	keys     keyMap
	viewport viewport.Model
	width    int
	height   int
}

// New creates a new leaderboard tab. Numbers and dates are formatted for tag.
func New(state *app.State, tag language.Tag) *Model {
	return &Model{
		state:    state,
		tag:      tag,
		spinner:  components.NewSpinner("Waiting for daily scores..."),
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	count := m.state.GetJournalistCount()
	if count == 0 {
		return nil
	}

	idx := m.state.GetSelectedIndex()
	switch {
	case key.Matches(msg, m.keys.Next):
		idx = (idx + 1) % count
	case key.Matches(msg, m.keys.Prev):
		idx = (idx - 1 + count) % count
	case key.Matches(msg, m.keys.First):
		idx = 0
	case key.Matches(msg, m.keys.Last):
		idx = count - 1
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}

	m.state.SetSelectedIndex(idx)
	j, _ := m.state.GetSelectedJournalist()
	return func() tea.Msg {
		return app.SelectedJournalistChangedMsg{Index: idx, ID: j.ID}
	}
}

// SetSize sets the available size for the tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Next, m.keys.Prev, m.keys.Window}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Next, m.keys.Prev},
		{m.keys.First, m.keys.Last},
		{m.keys.Window},
	}
}
