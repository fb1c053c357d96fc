package source

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/j-veylop/journalist-leaderboard-tui/internal/db"
)

type fakeStore struct {
	mu   sync.Mutex
	rows []db.DayRow
	err  error
}

func (f *fakeStore) ListDays(context.Context) ([]db.DayRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]db.DayRow(nil), f.rows...), nil
}

func (f *fakeStore) Path() string { return "fake.db" }

func (f *fakeStore) set(rows []db.DayRow, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows, f.err = rows, err
}

func row(key, payload string) db.DayRow {
	return db.DayRow{DateKey: key, Payload: []byte(payload)}
}

func TestSQLite_PushesOnlyOnChange(t *testing.T) {
	store := &fakeStore{rows: []db.DayRow{row("2024-01-01", `{"journalist_info": [{"id": "a"}]}`)}}
	src := NewSQLite(store, 10*time.Millisecond)

	c := newCollector()
	unsubscribe, err := src.Subscribe(context.Background(), c.fn)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer unsubscribe()

	first := c.next(t)
	if first.Err != nil || first.Snapshot.EntryCount() != 1 {
		t.Fatalf("initial update = %+v", first)
	}

	c.expectNone(t, 80*time.Millisecond)

	store.set([]db.DayRow{
		row("2024-01-01", `{"journalist_info": [{"id": "a"}]}`),
		row("2024-01-02", `{"journalist_info": [{"id": "b"}]}`),
	}, nil)

	second := c.next(t)
	if second.Snapshot.Len() != 2 || second.Snapshot.Days[1].Key != "2024-01-02" {
		t.Errorf("changed update = %+v", second.Snapshot)
	}
}

func TestSQLite_ReportsErrorOnceAndRecovers(t *testing.T) {
	store := &fakeStore{err: errors.New("database is locked")}
	src := NewSQLite(store, 10*time.Millisecond)

	c := newCollector()
	unsubscribe, err := src.Subscribe(context.Background(), c.fn)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer unsubscribe()

	if u := c.next(t); u.Err == nil {
		t.Fatal("expected error update")
	}
	c.expectNone(t, 80*time.Millisecond)

	store.set(nil, nil)
	u := c.next(t)
	if u.Err != nil {
		t.Errorf("recovered update error: %v", u.Err)
	}
	if u.Snapshot.Exists {
		t.Error("empty table should be an absent snapshot")
	}
}

func TestSQLite_ReadsDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.db")
	writer, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open writer: %v", err)
	}
	t.Cleanup(func() { _ = writer.Close() })
	if _, err := writer.ExecContext(context.Background(), db.Schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	_, err = writer.ExecContext(context.Background(),
		"INSERT INTO daily_scores (date_key, payload) VALUES (?, ?), (?, ?)",
		"2024-01-02", `{"journalist_info": [{"id": "b", "daily_points": 2}]}`,
		"2024-01-01", `{"journalist_info": [{"id": "a", "daily_points": 1}]}`)
	if err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	store, err := db.New(path)
	if err != nil {
		t.Fatalf("db.New failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	src := NewSQLite(store, time.Hour)
	if src.Location() != store.Path() {
		t.Errorf("Location = %q, want %q", src.Location(), store.Path())
	}

	c := newCollector()
	unsubscribe, err := src.Subscribe(context.Background(), c.fn)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer unsubscribe()

	u := c.next(t)
	if u.Err != nil {
		t.Fatalf("update error: %v", u.Err)
	}
	if u.Snapshot.Len() != 2 || u.Snapshot.Days[0].Key != "2024-01-01" {
		t.Errorf("snapshot = %+v, want two days ordered by key", u.Snapshot)
	}
}

func TestFingerprint(t *testing.T) {
	a := fingerprint([]db.DayRow{row("k1", "ab"), row("k2", "c")})
	b := fingerprint([]db.DayRow{row("k1", "a"), row("k2", "bc")})
	if a == b {
		t.Error("fingerprint should separate row boundaries")
	}
	if a != fingerprint([]db.DayRow{row("k1", "ab"), row("k2", "c")}) {
		t.Error("fingerprint should be stable")
	}
}
