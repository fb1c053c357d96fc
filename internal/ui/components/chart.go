// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/journalist-leaderboard-tui/internal/models"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/ui/styles"
)

// seriesAnsi mirrors styles.SeriesColors for asciigraph, which takes ANSI colors.
var seriesAnsi = []asciigraph.AnsiColor{
	asciigraph.Gold,
	asciigraph.Silver,
	asciigraph.Orange,
	asciigraph.DodgerBlue,
	asciigraph.MediumPurple,
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

func clampChartSize(width, height int) (int, int) {
	return max(width, 20), max(height, 3)
}

// RenderLineChart creates a single-series ASCII line chart.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return styles.HelpStyle.Render("No data available")
	}
	width, height = clampChartSize(width, height)

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.LowerBound(0),
		asciigraph.Caption(caption),
	)
}

// RenderTrendChart plots one line per journalist in the trend.
func RenderTrendChart(trend models.Trend, width, height int, caption string) string {
	if trend.IsEmpty() {
		return styles.HelpStyle.Render("No data available")
	}
	width, height = clampChartSize(width, height)

	series := make([][]float64, 0, len(trend.Series))
	colors := make([]asciigraph.AnsiColor, 0, len(trend.Series))
	for i, s := range trend.Series {
		// Every line spans all days of the window.
		data := make([]float64, len(trend.Days))
		copy(data, s.Points)
		series = append(series, data)
		colors = append(colors, seriesAnsi[i%len(seriesAnsi)])
	}

	return asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.LowerBound(0),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors...),
	)
}

// TrendLegend builds the legend entries matching RenderTrendChart's colors.
func TrendLegend(trend models.Trend) []LegendItem {
	items := make([]LegendItem, 0, len(trend.Series))
	for i, s := range trend.Series {
		items = append(items, LegendItem{Label: s.Name, Color: styles.SeriesColor(i)})
	}
	return items
}

// RenderSparkline creates a compact inline sparkline chart.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	maxVal := 0.0
	for _, v := range values {
		maxVal = max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	// Sample values to fit width
	step := max(float64(len(values))/float64(width), 1)

	var result strings.Builder
	for i := 0; i < width && int(float64(i)*step) < len(values); i++ {
		v := values[int(float64(i)*step)]
		idx := int((v / maxVal) * float64(len(sparkChars)-1))
		idx = min(max(idx, 0), len(sparkChars)-1)
		result.WriteRune(sparkChars[idx])
	}

	return result.String()
}

// RenderLegend creates a chart legend.
func RenderLegend(items []LegendItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		colorBox := lipgloss.NewStyle().Foreground(item.Color).Render("■")
		parts = append(parts, fmt.Sprintf("%s %s", colorBox, item.Label))
	}
	return strings.Join(parts, "  ")
}

// LegendItem represents a single legend entry.
type LegendItem struct {
	Label string
	Color lipgloss.Color
}
