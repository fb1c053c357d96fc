package info

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/journalist-leaderboard-tui/internal/app"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/config"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/services"
)

func testConfig() *config.Config {
	return &config.Config{
		Source:       config.SourceFile,
		SnapshotPath: "/tmp/daily_scores.json",
		SnapshotNode: "daily_scores",
		PollInterval: 5 * time.Second,
		WindowDays:   30,
		Locale:       "de-DE",
	}
}

func TestNew(t *testing.T) {
	m := New(app.NewState(), testConfig())
	if m == nil {
		t.Fatal("New returned nil")
	}
}

func TestModel_Init(t *testing.T) {
	m := New(app.NewState(), testConfig())
	if cmd := m.Init(); cmd != nil {
		t.Error("Init should return nil")
	}
}

func TestModel_Update(t *testing.T) {
	m := New(app.NewState(), testConfig())

	updated, cmd := m.Update(nil)
	if updated == nil {
		t.Error("Update returned nil model")
	}
	if cmd != nil {
		t.Error("non-key message should not produce a command")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if updated == nil {
		t.Error("Update returned nil model for key message")
	}
}

func TestModel_View(t *testing.T) {
	m := New(app.NewState(), testConfig())
	m.SetSize(100, 40)

	view := m.View()
	for _, want := range []string{"Configuration", "/tmp/daily_scores.json", "de-DE", "No snapshot received yet"} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q", want)
		}
	}
}

func TestModel_ViewWithStats(t *testing.T) {
	state := app.NewState()
	state.SetStats(services.StatsEvent{UpdatedAt: time.Now(), Source: "file", Days: 12, Entries: 34})

	m := New(state, testConfig())
	m.SetSize(100, 40)

	view := m.View()
	if !strings.Contains(view, "34") {
		t.Error("View should show the entry count")
	}
	if strings.Contains(view, "No snapshot received yet") {
		t.Error("View should not show the placeholder once stats exist")
	}
}

func TestModel_ViewWithoutConfig(t *testing.T) {
	m := New(app.NewState(), nil)
	m.SetSize(80, 40)

	if !strings.Contains(m.View(), "Configuration not loaded") {
		t.Error("View should mention missing configuration")
	}
}

func TestSourceLocation(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{"File", config.Config{Source: config.SourceFile, SnapshotPath: "a.json"}, "a.json"},
		{"SQLite", config.Config{Source: config.SourceSQLite, DatabasePath: "lb.db"}, "lb.db"},
		{
			"Firebase",
			config.Config{Source: config.SourceFirebase, FirebaseURL: "https://x.firebaseio.com", SnapshotNode: "daily_scores"},
			"https://x.firebaseio.com/daily_scores",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sourceLocation(&tt.cfg); got != tt.want {
				t.Errorf("sourceLocation() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestModel_Help(t *testing.T) {
	m := New(app.NewState(), testConfig())
	if len(m.ShortHelp()) == 0 {
		t.Error("ShortHelp should not be empty")
	}
	if len(m.FullHelp()) == 0 {
		t.Error("FullHelp should not be empty")
	}
}
