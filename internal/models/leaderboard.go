package models

import (
	"encoding/json"
	"time"
)

// isoMillis matches the JavaScript Date.toISOString layout.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// Window is the trailing span over which points are summed.
// Start is normalized to start-of-day, End is the instant of computation.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside [Start, End].
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Days returns the start-of-day of every calendar day from Start through End.
func (w Window) Days() []time.Time {
	if w.End.Before(w.Start) {
		return nil
	}
	loc := w.Start.Location()
	end := w.End.In(loc)
	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc)

	var days []time.Time
	for d := w.Start; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Leaderboard is the ranked result of one aggregation run.
type Leaderboard struct {
	Window      Window             `json:"-"`
	Journalists []ContributorTotal `json:"journalists"`
	DateRange   string             `json:"dateRange"`
	WindowDays  int                `json:"-"`
}

// Leader returns the top contributor, if any.
func (l Leaderboard) Leader() (ContributorTotal, bool) {
	if len(l.Journalists) == 0 {
		return ContributorTotal{}, false
	}
	return l.Journalists[0], true
}

// View is what the presentation layer consumes: the ranking plus pass-through state.
type View struct {
	LastUpdated time.Time
	Leaderboard
	Loading bool
}

// MarshalJSON renders the output boundary shape:
// {"journalists": [...], "dateRange": "...", "loading": bool, "lastUpdated": ISO-8601|null}.
func (v View) MarshalJSON() ([]byte, error) {
	journalists := v.Journalists
	if journalists == nil {
		journalists = []ContributorTotal{}
	}

	var lastUpdated *string
	if !v.LastUpdated.IsZero() {
		s := v.LastUpdated.UTC().Format(isoMillis)
		lastUpdated = &s
	}

	return json.Marshal(struct {
		Journalists []ContributorTotal `json:"journalists"`
		DateRange   string             `json:"dateRange"`
		Loading     bool               `json:"loading"`
		LastUpdated *string            `json:"lastUpdated"`
	}{
		Journalists: journalists,
		DateRange:   v.DateRange,
		Loading:     v.Loading,
		LastUpdated: lastUpdated,
	})
}

// TrendSeries holds one contributor's per-day points.
type TrendSeries struct {
	ID     string
	Name   string
	Points []float64
}

// Trend holds per-day points for a set of contributors across a window.
type Trend struct {
	Days   []time.Time
	Series []TrendSeries
}

// IsEmpty reports whether the trend has nothing to plot.
func (t Trend) IsEmpty() bool {
	return len(t.Days) == 0 || len(t.Series) == 0
}
