package info

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/journalist-leaderboard-tui/internal/config"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/ui/styles"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	sections := []string{
		m.renderTitle(),
		m.renderConfigCard(),
		m.renderSnapshotCard(),
		m.renderAboutCard(),
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration and application information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 50), 80)
}

// sourceLocation returns where the configured source reads its snapshot from.
func sourceLocation(cfg *config.Config) string {
	switch cfg.Source {
	case config.SourceSQLite:
		return cfg.DatabasePath
	case config.SourceFirebase:
		return cfg.FirebaseURL + "/" + cfg.SnapshotNode
	default:
		return cfg.SnapshotPath
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func (m *Model) renderConfigCard() string {
	rows := []string{styles.CardTitleStyle.Render("Configuration"), ""}

	if m.config != nil {
		rows = append(rows,
			m.renderConfigRow("Source", m.config.Source),
			m.renderConfigRow("Location", sourceLocation(m.config)),
			m.renderConfigRow("Window", fmt.Sprintf("%d days", m.state.GetWindowDays())),
			m.renderConfigRow("Locale", orNone(m.config.Locale)),
			m.renderConfigRow("Poll Interval", m.config.PollInterval.String()),
			m.renderConfigRow("Metrics", orNone(m.config.MetricsAddr)),
			m.renderConfigRow("Log File", orNone(m.config.LogPath)),
			m.renderConfigRow("Leader Alerts", strconv.FormatBool(m.config.NotifyLeaderChange)),
		)
	} else {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderSnapshotCard() string {
	rows := []string{styles.CardTitleStyle.Render("Snapshot"), ""}

	stats := m.state.GetStats()
	if stats == nil {
		rows = append(rows, styles.HelpStyle.Render("No snapshot received yet"))
	} else {
		rows = append(rows,
			m.renderConfigRow("Days", strconv.Itoa(stats.Days)),
			m.renderConfigRow("Entries", strconv.Itoa(stats.Entries)),
			m.renderConfigRow("Received", stats.UpdatedAt.Local().Format("2006-01-02 15:04:05")),
		)
	}
	rows = append(rows, "",
		fmt.Sprintf("Ranked: %s", styles.InfoTextStyle.Render(strconv.Itoa(m.state.GetJournalistCount()))))

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderConfigRow renders a key-value row.
func (m *Model) renderConfigRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

func (m *Model) renderAboutCard() string {
	rows := []string{
		styles.CardTitleStyle.Render("About " + version.Name),
		"",
		m.renderConfigRow("Version", version.GetVersion()),
		m.renderConfigRow("Build Date", version.GetDate()),
		m.renderConfigRow("Git Commit", version.GetCommit()),
		m.renderConfigRow("Go Version", runtime.Version()),
		m.renderConfigRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)),
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
