// Package leaderboard ranks contributors by points accumulated over a trailing window of days.
package leaderboard

import (
	"sort"
	"time"

	"github.com/j-veylop/journalist-leaderboard-tui/internal/models"
)

const (
	// DefaultWindowDays is used when a caller passes a non-positive window.
	DefaultWindowDays = 30
	// TopN is the number of contributors kept in a ranking.
	TopN = 5
	// DefaultDateLayout renders the date range as en-US short dates.
	DefaultDateLayout = "1/2/2006"
)

// Aggregator computes rankings from snapshots. It holds no state between
// calls; every Aggregate starts from scratch.
type Aggregator struct {
	now      func() time.Time
	loc      *time.Location
	observer Observer
	layout   string
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithClock sets the source of "now".
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

// WithLocation sets the zone in which day keys and day boundaries are read.
func WithLocation(loc *time.Location) Option {
	return func(a *Aggregator) {
		if loc != nil {
			a.loc = loc
		}
	}
}

// WithDateLayout sets the layout used for the date range label.
func WithDateLayout(layout string) Option {
	return func(a *Aggregator) {
		if layout != "" {
			a.layout = layout
		}
	}
}

// WithObserver sets the diagnostics sink.
func WithObserver(o Observer) Option {
	return func(a *Aggregator) {
		if o != nil {
			a.observer = o
		}
	}
}

// New creates an Aggregator using the wall clock and local time by default.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		now:      time.Now,
		loc:      time.Local,
		observer: NopObserver{},
		layout:   DefaultDateLayout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewWindow returns the window ending at now whose start is the start of the
// calendar day windowDays before now, in now's location.
func NewWindow(now time.Time, windowDays int) models.Window {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	y, m, d := now.Date()
	return models.Window{
		Start: time.Date(y, m, d-windowDays, 0, 0, 0, 0, now.Location()),
		End:   now,
	}
}

// Window returns the window an Aggregate call made now would use.
func (a *Aggregator) Window(windowDays int) models.Window {
	return NewWindow(a.now().In(a.loc), windowDays)
}

// Aggregate ranks the contributors of snap over the trailing windowDays.
// It never fails: unusable days and entries are skipped and reported to the observer.
func (a *Aggregator) Aggregate(snap models.Snapshot, windowDays int) models.Leaderboard {
	started := time.Now()
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	now := a.now().In(a.loc)
	window := NewWindow(now, windowDays)

	ranked := make([]models.ContributorTotal, 0)
	index := make(map[string]int)

	for _, day := range snap.Days {
		if _, ok := a.inWindow(day, window, true); !ok {
			continue
		}

		for i, entry := range day.Entries {
			if entry.ID == "" {
				a.observer.EntrySkipped(day.Key, i)
				continue
			}

			points := CoerceNumber(entry.DailyPoints)
			pos, seen := index[entry.ID]
			if !seen {
				pos = len(ranked)
				index[entry.ID] = pos
				ranked = append(ranked, models.ContributorTotal{
					ID:          entry.ID,
					Name:        entry.Name,
					Publication: entry.Publication,
				})
			}
			ranked[pos].Points += points
			a.observer.EntryAccumulated(day.Key, ranked[pos], points)
		}
	}

	// Stable, so equal totals keep first-encounter order.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Points > ranked[j].Points
	})
	if len(ranked) > TopN {
		ranked = append([]models.ContributorTotal(nil), ranked[:TopN]...)
	}

	lb := models.Leaderboard{
		Journalists: ranked,
		DateRange:   window.Start.Format(a.layout) + " - " + now.Format(a.layout),
		Window:      window,
		WindowDays:  windowDays,
	}
	a.observer.Aggregated(lb, time.Since(started))
	return lb
}

// Trend returns per-day points for ids across the window, one bucket per
// calendar day from the window start through today. Filtering and coercion
// follow Aggregate. Diagnostics are not reported.
func (a *Aggregator) Trend(snap models.Snapshot, windowDays int, ids []string) models.Trend {
	window := a.Window(windowDays)
	days := window.Days()

	trend := models.Trend{Days: days}
	if len(ids) == 0 || len(days) == 0 {
		return trend
	}

	bucket := make(map[string]int, len(days))
	for i, d := range days {
		bucket[d.Format(time.DateOnly)] = i
	}

	series := make(map[string]int, len(ids))
	for _, id := range ids {
		if _, dup := series[id]; dup || id == "" {
			continue
		}
		series[id] = len(trend.Series)
		trend.Series = append(trend.Series, models.TrendSeries{
			ID:     id,
			Name:   id,
			Points: make([]float64, len(days)),
		})
	}

	named := make(map[string]bool, len(series))
	for _, day := range snap.Days {
		date, ok := a.inWindow(day, window, false)
		if !ok {
			continue
		}
		b, ok := bucket[date.Format(time.DateOnly)]
		if !ok {
			continue
		}

		for _, entry := range day.Entries {
			pos, tracked := series[entry.ID]
			if !tracked {
				continue
			}
			s := &trend.Series[pos]
			if !named[entry.ID] && entry.Name != "" {
				s.Name = entry.Name
				named[entry.ID] = true
			}
			s.Points[b] += CoerceNumber(entry.DailyPoints)
		}
	}
	return trend
}

// inWindow parses a day's key, normalizes it to start-of-day and checks it
// against the window and the day's validity.
func (a *Aggregator) inWindow(day models.DayRecord, window models.Window, report bool) (time.Time, bool) {
	parsed, err := ParseDateKey(day.Key, a.loc)
	if err != nil {
		a.skip(report, day.Key, ReasonUnparseableKey)
		return time.Time{}, false
	}

	y, m, d := parsed.Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, a.loc)
	if !window.Contains(date) {
		a.skip(report, day.Key, ReasonOutsideWindow)
		return time.Time{}, false
	}

	if !day.Valid {
		a.skip(report, day.Key, ReasonNoEntries)
		return time.Time{}, false
	}
	return date, true
}

func (a *Aggregator) skip(report bool, key string, reason SkipReason) {
	if report {
		a.observer.DaySkipped(key, reason)
	}
}
