package leaderboard

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/j-veylop/journalist-leaderboard-tui/internal/locale"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/models"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/ui/components"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/ui/styles"
)

const (
	colRank = iota
	colName
	colPublication
	colPoints
)

// View renders the leaderboard tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	view := m.state.GetView()

	sections := []string{
		m.renderTitle(view),
		m.renderTable(view),
	}
	if bars := m.renderBars(view); bars != "" {
		sections = append(sections, bars)
	}
	sections = append(sections, m.renderFooter(view))

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle(view models.View) string {
	title := styles.TitleStyle.Render("Journalist Leaderboard")
	subtitle := styles.HelpStyle.Render(
		fmt.Sprintf("Top 5 journalists for the last %d days", view.WindowDays))

	lines := []string{title, subtitle}
	if view.DateRange != "" {
		lines = append(lines, styles.InfoTextStyle.Render(view.DateRange))
	}
	lines = append(lines, "")

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) cardWidth() int {
	return max(m.width-6, 40)
}

// renderTable renders the ranking, or a single explanatory row when it is empty.
func (m *Model) renderTable(view models.View) string {
	selected := m.state.GetSelectedIndex()
	empty := len(view.Journalists) == 0

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.Subtle)).
		Headers("Rank", "Name", "Publication", fmt.Sprintf("%d-Day Points", view.WindowDays)).
		Rows(m.rows(view)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styles.TableHeaderStyle
			case empty:
				return styles.TableEmptyStyle
			case row == selected:
				return styles.TableSelectedStyle
			case col == colRank:
				return styles.GetRankStyle(row + 1).Padding(0, 1)
			case col == colPoints:
				return styles.TableCellStyle.Align(lipgloss.Right)
			default:
				return styles.TableCellStyle
			}
		})

	return t.Render()
}

func (m *Model) rows(view models.View) [][]string {
	if len(view.Journalists) == 0 {
		msg := fmt.Sprintf("No journalists found in the last %d days", view.WindowDays)
		return [][]string{{"", msg, "", ""}}
	}

	rows := make([][]string, 0, len(view.Journalists))
	for i, j := range view.Journalists {
		row := make([]string, colPoints+1)
		row[colRank] = strconv.Itoa(i + 1)
		row[colName] = j.Name
		row[colPublication] = j.Publication
		row[colPoints] = locale.FormatPoints(m.tag, j.Points)
		rows = append(rows, row)
	}
	return rows
}

func (m *Model) renderBars(view models.View) string {
	if len(view.Journalists) == 0 {
		return ""
	}
	width := m.cardWidth()
	bars := components.RenderPointsBars(view.Journalists, m.tag, width-6)
	return styles.CardStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, styles.CardTitleStyle.Render("Points"), bars),
	)
}

func (m *Model) renderFooter(view models.View) string {
	updated := "never"
	if !view.LastUpdated.IsZero() {
		local := view.LastUpdated.Local()
		updated = locale.FormatDate(m.tag, local) + " " + local.Format("15:04:05")
	}
	return styles.HelpStyle.Render("Last updated: " + updated)
}
