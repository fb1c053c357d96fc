package trend

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/journalist-leaderboard-tui/internal/locale"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/models"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/ui/components"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/ui/styles"
)

// View renders the trend tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return m.renderMessage("Waiting for daily scores...")
	}

	trend := m.state.GetTrend()
	if trend.IsEmpty() {
		return m.renderMessage(fmt.Sprintf("No points recorded in the last %d days.", m.state.GetWindowDays()))
	}
	if m.cumulative {
		trend = runningTotals(trend)
	}

	sections := []string{
		m.renderHeader(trend),
		m.renderChart(trend),
		m.renderSparklines(trend),
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderMessage(msg string) string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Trend"),
		styles.HelpStyle.Render(msg),
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) mode() string {
	if m.cumulative {
		return "Cumulative points"
	}
	return "Daily points"
}

func (m *Model) renderHeader(trend models.Trend) string {
	first, last := trend.Days[0], trend.Days[len(trend.Days)-1]
	subtitle := fmt.Sprintf("%s, %s - %s", m.mode(),
		locale.FormatDate(m.tag, first), locale.FormatDate(m.tag, last))

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Trend"),
		styles.HelpStyle.Render(subtitle),
		"",
	)
}

func (m *Model) renderChart(trend models.Trend) string {
	chartWidth := max(m.width-20, 20)
	chartHeight := max(m.height/3, 5)

	chart := components.RenderTrendChart(trend, chartWidth, chartHeight, "")
	legend := components.RenderLegend(components.TrendLegend(trend))

	return styles.CardStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left, chart, "", legend),
	)
}

func (m *Model) renderSparklines(trend models.Trend) string {
	width := min(len(trend.Days), max(m.width-50, 10))

	rows := make([]string, 0, len(trend.Series)+2)
	rows = append(rows, styles.CardTitleStyle.Render("Per Journalist"))
	for i, s := range trend.Series {
		name := styles.ProgressLabelStyle.Render(s.Name)
		spark := lipgloss.NewStyle().Foreground(styles.SeriesColor(i)).
			Render(components.RenderSparkline(s.Points, width))
		total := styles.PointsStyle.Render(locale.FormatPoints(m.tag, seriesTotal(s, m.cumulative)))
		rows = append(rows, strings.Join([]string{name, spark, total}, " "))
	}

	return styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// seriesTotal returns the window total of s. A cumulative series already
// carries it as its last point.
func seriesTotal(s models.TrendSeries, cumulative bool) float64 {
	if len(s.Points) == 0 {
		return 0
	}
	if cumulative {
		return s.Points[len(s.Points)-1]
	}
	total := 0.0
	for _, p := range s.Points {
		total += p
	}
	return total
}

// runningTotals returns a copy of trend where each point is the sum of all
// points up to and including that day.
func runningTotals(trend models.Trend) models.Trend {
	out := models.Trend{Days: trend.Days, Series: make([]models.TrendSeries, len(trend.Series))}
	for i, s := range trend.Series {
		points := make([]float64, len(s.Points))
		sum := 0.0
		for j, p := range s.Points {
			sum += p
			points[j] = sum
		}
		out.Series[i] = models.TrendSeries{ID: s.ID, Name: s.Name, Points: points}
	}
	return out
}
