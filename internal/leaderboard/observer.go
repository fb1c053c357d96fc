package leaderboard

import (
	"time"

	"github.com/j-veylop/journalist-leaderboard-tui/internal/logger"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/models"
)

// SkipReason says why a day record did not contribute to a ranking.
type SkipReason string

const (
	// ReasonUnparseableKey marks a date key no known layout accepts.
	ReasonUnparseableKey SkipReason = "unparseable_key"
	// ReasonOutsideWindow marks a day before the window start or after now.
	ReasonOutsideWindow SkipReason = "outside_window"
	// ReasonNoEntries marks a day without a usable journalist_info list.
	ReasonNoEntries SkipReason = "no_entries"
)

// Observer receives diagnostics from an aggregation run.
// Implementations must not block; they are called inline.
type Observer interface {
	DaySkipped(dateKey string, reason SkipReason)
	EntrySkipped(dateKey string, index int)
	EntryAccumulated(dateKey string, total models.ContributorTotal, added float64)
	Aggregated(lb models.Leaderboard, elapsed time.Duration)
}

// NopObserver discards all diagnostics.
type NopObserver struct{}

func (NopObserver) DaySkipped(string, SkipReason)                             {}
func (NopObserver) EntrySkipped(string, int)                                  {}
func (NopObserver) EntryAccumulated(string, models.ContributorTotal, float64) {}
func (NopObserver) Aggregated(models.Leaderboard, time.Duration)              {}

// LogObserver writes every diagnostic as a debug record.
type LogObserver struct{}

func (LogObserver) DaySkipped(dateKey string, reason SkipReason) {
	logger.Debug("Skipped day", "date", dateKey, "reason", string(reason))
}

func (LogObserver) EntrySkipped(dateKey string, index int) {
	logger.Debug("Skipped journalist entry without id", "date", dateKey, "index", index)
}

func (LogObserver) EntryAccumulated(dateKey string, total models.ContributorTotal, added float64) {
	logger.Debug("Added points",
		"date", dateKey,
		"id", total.ID,
		"name", total.Name,
		"added", added,
		"total", total.Points,
	)
}

func (LogObserver) Aggregated(lb models.Leaderboard, elapsed time.Duration) {
	logger.Debug("Leaderboard computed",
		"journalists", len(lb.Journalists),
		"window_days", lb.WindowDays,
		"range", lb.DateRange,
		"elapsed", elapsed,
	)
}

type multiObserver []Observer

// Observers fans diagnostics out to every non-nil observer in order.
func Observers(obs ...Observer) Observer {
	var m multiObserver
	for _, o := range obs {
		if o != nil {
			m = append(m, o)
		}
	}
	if len(m) == 0 {
		return NopObserver{}
	}
	if len(m) == 1 {
		return m[0]
	}
	return m
}

func (m multiObserver) DaySkipped(dateKey string, reason SkipReason) {
	for _, o := range m {
		o.DaySkipped(dateKey, reason)
	}
}

func (m multiObserver) EntrySkipped(dateKey string, index int) {
	for _, o := range m {
		o.EntrySkipped(dateKey, index)
	}
}

func (m multiObserver) EntryAccumulated(dateKey string, total models.ContributorTotal, added float64) {
	for _, o := range m {
		o.EntryAccumulated(dateKey, total, added)
	}
}

func (m multiObserver) Aggregated(lb models.Leaderboard, elapsed time.Duration) {
	for _, o := range m {
		o.Aggregated(lb, elapsed)
	}
}
