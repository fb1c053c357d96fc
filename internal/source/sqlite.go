package source

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/j-veylop/journalist-leaderboard-tui/internal/db"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/logger"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/models"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/snapshot"
)

// DefaultPollInterval is used when NewSQLite gets a non-positive interval.
const DefaultPollInterval = 5 * time.Second

// DayStore is the read side of the daily scores table.
type DayStore interface {
	ListDays(ctx context.Context) ([]db.DayRow, error)
	Path() string
}

// SQLite polls the daily_scores table and pushes a snapshot when its
// content changes.
type SQLite struct {
	store    DayStore
	interval time.Duration
}

// NewSQLite creates a polling source over store.
func NewSQLite(store DayStore, interval time.Duration) *SQLite {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &SQLite{store: store, interval: interval}
}

// Name implements Source.
func (s *SQLite) Name() string { return "sqlite" }

// Location implements Source.
func (s *SQLite) Location() string { return s.store.Path() }

// Subscribe implements Source.
func (s *SQLite) Subscribe(ctx context.Context, fn func(Update)) (Unsubscribe, error) {
	ctx, cancel := context.WithCancel(ctx)
	d := newDispatcher(fn, cancel)

	go func() {
		defer d.finish()
		s.pollLoop(ctx, d)
	}()

	return d.unsubscribe, nil
}

func (s *SQLite) pollLoop(ctx context.Context, d *dispatcher) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	var (
		last    uint64
		lastErr string
		primed  bool
	)

	poll := func() {
		rows, err := s.store.ListDays(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			// Report each distinct failure once; a fixed database re-primes.
			if err.Error() != lastErr {
				lastErr = err.Error()
				d.fail(err)
			}
			primed = false
			return
		}
		lastErr = ""

		sum := fingerprint(rows)
		if primed && sum == last {
			return
		}
		last, primed = sum, true

		logger.Debug("Daily scores changed", "days", len(rows))
		d.deliver(Update{At: time.Now(), Snapshot: snapshotFromRows(rows)})
	}

	poll()
	for {
		select {
		case <-ticker.C:
			poll()
		case <-ctx.Done():
			return
		}
	}
}

func snapshotFromRows(rows []db.DayRow) models.Snapshot {
	snap := models.Snapshot{Exists: len(rows) > 0}
	for _, row := range rows {
		snap.Days = append(snap.Days, snapshot.DecodeDay(row.DateKey, row.Payload))
	}
	return snap
}

func fingerprint(rows []db.DayRow) uint64 {
	h := fnv.New64a()
	for _, row := range rows {
		_, _ = h.Write([]byte(row.DateKey))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write(row.Payload)
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}
