package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"

	"github.com/j-veylop/journalist-leaderboard-tui/internal/locale"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/logger"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/models"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/ui/styles"
)

const (
	barFrom = "#6c5ce7"
	barTo   = "#ffd93d"
)

// PointsBar renders a journalist's points as a share of the leader's.
type PointsBar struct {
	progress progress.Model
	tag      language.Tag
}

// NewPointsBar creates a points bar that formats numbers for tag.
func NewPointsBar(tag language.Tag) PointsBar {
	p := progress.New(
		progress.WithScaledGradient(barFrom, barTo),
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)
	return PointsBar{progress: p, tag: tag}
}

// Ratio returns points relative to leader, clamped to [0, 1].
func Ratio(points, leader float64) float64 {
	if leader <= 0 || points <= 0 {
		return 0
	}
	return min(points/leader, 1)
}

// View renders label, bar and formatted points on one line.
func (b PointsBar) View(label string, points, leader float64, width int) string {
	labelStr := styles.ProgressLabelStyle.Render(label)
	pointsStr := styles.PointsStyle.
		Width(10).
		Align(lipgloss.Right).
		Render(locale.FormatPoints(b.tag, points))

	b.progress.Width = max(width-lipgloss.Width(labelStr)-lipgloss.Width(pointsStr)-2, 10)

	return lipgloss.JoinHorizontal(
		lipgloss.Center,
		labelStr,
		b.progress.ViewAs(Ratio(points, leader)),
		" ",
		pointsStr,
	)
}

// RenderPointsBars renders one bar per ranked journalist, scaled to the leader.
func RenderPointsBars(journalists []models.ContributorTotal, tag language.Tag, width int) string {
	if len(journalists) == 0 {
		return ""
	}

	bar := NewPointsBar(tag)
	leader := journalists[0].Points

	lines := make([]string, 0, len(journalists))
	for i, j := range journalists {
		label := fmt.Sprintf("%d. %s", i+1, j.Name)
		lines = append(lines, bar.View(label, j.Points, leader, width))
	}
	return strings.Join(lines, "\n")
}

// RenderGradientBar renders a bar of width cells filled to ratio.
func RenderGradientBar(ratio float64, width int) string {
	if width < 1 {
		return ""
	}

	filled := min(max(int(float64(width)*ratio), 0), width)

	var b strings.Builder
	for i := range width {
		if i < filled {
			t := float64(i) / float64(max(1, width-1))
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(interpolateColor(barFrom, barTo, t)))
			b.WriteString(style.Render("█"))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(styles.Subtle).Render("░"))
		}
	}
	return b.String()
}

func interpolateColor(fromHex, toHex string, t float64) string {
	from := hexToRGB(fromHex)
	to := hexToRGB(toHex)

	r := int(float64(from[0]) + t*(float64(to[0])-float64(from[0])))
	g := int(float64(from[1]) + t*(float64(to[1])-float64(from[1])))
	b := int(float64(from[2]) + t*(float64(to[2])-float64(from[2])))

	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func hexToRGB(hex string) [3]int {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		logger.Error("failed to parse hex color", "hex", hex, "error", err)
		return [3]int{0, 0, 0}
	}
	return [3]int{r, g, b}
}
