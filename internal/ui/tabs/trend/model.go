// Package trend provides the per-day points chart tab.
package trend

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/language"

	"github.com/j-veylop/journalist-leaderboard-tui/internal/app"
)

type keyMap struct {
	Cumulative key.Binding
	Up         key.Binding
	Down       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Cumulative: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "daily/cumulative"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
	}
}

// Model represents the trend tab state.
type Model struct {
	state      *app.State
	tag        language.Tag
	keys       keyMap
	viewport   viewport.Model
	width      int
	height     int
	cumulative bool
}

// New creates a new trend tab.
func New(state *app.State, tag language.Tag) *Model {
	return &Model{
		state:    state,
		tag:      tag,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the trend tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the trend tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if key.Matches(keyMsg, m.keys.Cumulative) {
		m.cumulative = !m.cumulative
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(keyMsg)
	return m, cmd
}

// Cumulative reports whether running totals are plotted instead of daily points.
func (m *Model) Cumulative() bool {
	return m.cumulative
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
	return []key.Binding{m.keys.Cumulative}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Cumulative},
		{m.keys.Up, m.keys.Down},
	}
}
