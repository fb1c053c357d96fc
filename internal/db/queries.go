package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// DayRow is one stored day: the raw JSON day object under its date key.
type DayRow struct {
	UpdatedAt time.Time
	DateKey   string
	Payload   []byte
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	// time.Time.String output, stored by older Go writers.
	"2006-01-02 15:04:05 -0700 MST",
}

// ListDays returns every stored day ordered by date key, the order the
// realtime database uses for its own keys.
func (db *DB) ListDays(ctx context.Context) ([]DayRow, error) {
	query := `
		SELECT date_key, payload, updated_at
		FROM daily_scores
		ORDER BY date_key ASC
	`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var days []DayRow
	for rows.Next() {
		var row DayRow
		var payload string
		var updated sql.NullString

		if err := rows.Scan(&row.DateKey, &payload, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan daily score: %w", err)
		}

		row.Payload = []byte(payload)
		row.UpdatedAt = parseTime(updated.String)
		days = append(days, row)
	}

	return days, rows.Err()
}

func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
