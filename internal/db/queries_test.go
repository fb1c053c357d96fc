package db

import (
	"context"
	"testing"
	"time"
)

func TestListDays_OrderedByKey(t *testing.T) {
	db, writer := newTestDB(t)
	defer db.Close()

	seedDay(t, writer, "2024-01-05", `{"journalist_info": [{"id": "a"}]}`)
	seedDay(t, writer, "2024-01-01", `{"journalist_info": []}`)
	seedDay(t, writer, "2024-01-03", `{}`)

	days, err := db.ListDays(context.Background())
	if err != nil {
		t.Fatalf("ListDays failed: %v", err)
	}

	want := []string{"2024-01-01", "2024-01-03", "2024-01-05"}
	if len(days) != len(want) {
		t.Fatalf("ListDays returned %d rows, want %d", len(days), len(want))
	}
	for i, key := range want {
		if days[i].DateKey != key {
			t.Errorf("days[%d].DateKey = %q, want %q", i, days[i].DateKey, key)
		}
	}
	if string(days[2].Payload) != `{"journalist_info": [{"id": "a"}]}` {
		t.Errorf("payload = %s", days[2].Payload)
	}
	if !days[0].UpdatedAt.Equal(time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("UpdatedAt = %v, want 2024-01-10 09:00:00 UTC", days[0].UpdatedAt)
	}
}

func TestListDays_Empty(t *testing.T) {
	db, _ := newTestDB(t)
	defer db.Close()

	days, err := db.ListDays(context.Background())
	if err != nil {
		t.Fatalf("ListDays failed: %v", err)
	}
	if len(days) != 0 {
		t.Errorf("expected no rows, got %d", len(days))
	}
}

func TestListDays_SeesLaterWrites(t *testing.T) {
	db, writer := newTestDB(t)
	defer db.Close()

	seedDay(t, writer, "2024-01-01", `{}`)
	seedDay(t, writer, "2024-01-02", `{}`)
	seedDay(t, writer, "2024-01-02", `{"journalist_info": []}`)

	days, err := db.ListDays(context.Background())
	if err != nil {
		t.Fatalf("ListDays failed: %v", err)
	}
	if len(days) != 2 || string(days[1].Payload) != `{"journalist_info": []}` {
		t.Errorf("days = %+v, want two rows with the updated payload", days)
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-10 09:00:00", time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)},
		{"2024-01-10T09:00:00Z", time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)},
		{"2024-01-02 08:30:00 +0000 UTC", time.Date(2024, 1, 2, 8, 30, 0, 0, time.UTC)},
		{"", time.Time{}},
		{"garbage", time.Time{}},
	}
	for _, tt := range tests {
		if got := parseTime(tt.in); !got.Equal(tt.want) {
			t.Errorf("parseTime(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
