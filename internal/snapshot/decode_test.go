package snapshot

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/j-veylop/journalist-leaderboard-tui/internal/models"
)

func TestDecode_PreservesKeyOrder(t *testing.T) {
	raw := []byte(`{
		"2024-01-05": {"journalist_info": [{"id": "a", "name": "Alice", "publication": "P", "daily_points": 5}]},
		"2024-01-01": {"journalist_info": [{"id": "b", "name": "Bob", "publication": "Q", "daily_points": "10"}]}
	}`)

	snap, err := Decode(raw, DefaultNode)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	want := models.Snapshot{
		Exists: true,
		Days: []models.DayRecord{
			{Key: "2024-01-05", Valid: true, Entries: []models.ContributorEntry{
				{ID: "a", Name: "Alice", Publication: "P", DailyPoints: 5.0},
			}},
			{Key: "2024-01-01", Valid: true, Entries: []models.ContributorEntry{
				{ID: "b", Name: "Bob", Publication: "Q", DailyPoints: "10"},
			}},
		},
	}
	if diff := cmp.Diff(want, snap); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_SelectsNode(t *testing.T) {
	raw := []byte(`{"daily_scores": {"2024-01-01": {"journalist_info": []}}, "other": {}}`)

	snap, err := Decode(raw, "/daily_scores/")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if snap.Len() != 1 || snap.Days[0].Key != "2024-01-01" {
		t.Errorf("Decode selected %+v, want the daily_scores node", snap.Days)
	}
	if !snap.Days[0].Valid {
		t.Error("empty journalist_info array is still a valid day")
	}
}

func TestDecode_Absent(t *testing.T) {
	for _, raw := range []string{"", "   ", "null", `{"daily_scores": null}`} {
		snap, err := Decode([]byte(raw), DefaultNode)
		if err != nil {
			t.Fatalf("Decode(%q) failed: %v", raw, err)
		}
		if snap.Exists || !snap.IsEmpty() {
			t.Errorf("Decode(%q) = %+v, want absent", raw, snap)
		}
	}
}

func TestDecode_NonObjectRoot(t *testing.T) {
	snap, err := Decode([]byte(`42`), DefaultNode)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !snap.Exists || !snap.IsEmpty() {
		t.Errorf("Decode(42) = %+v, want existing but empty", snap)
	}
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode([]byte(`{"2024-01-01": `), DefaultNode)
	if !errors.Is(err, ErrInvalidJSON) {
		t.Errorf("Decode error = %v, want ErrInvalidJSON", err)
	}
}

func TestDecodeDay(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want models.DayRecord
	}{
		{
			name: "SparseObject",
			raw:  `{"journalist_info": {"0": {"id": "a", "daily_points": 1}, "2": null, "3": {"id": 12, "name": "Num", "daily_points": true}}}`,
			want: models.DayRecord{Key: "k", Valid: true, Entries: []models.ContributorEntry{
				{ID: "a", DailyPoints: 1.0},
				{ID: "12", Name: "Num", DailyPoints: true},
			}},
		},
		{
			name: "ArrayRoot",
			raw:  `[]`,
			want: models.DayRecord{Key: "k"},
		},
		{
			name: "MissingInfo",
			raw:  `{"total": 3}`,
			want: models.DayRecord{Key: "k"},
		},
		{
			name: "ScalarInfo",
			raw:  `{"journalist_info": "oops"}`,
			want: models.DayRecord{Key: "k"},
		},
		{
			name: "NonObjectItem",
			raw:  `{"journalist_info": [7, null, {"id": "b", "daily_points": null}]}`,
			want: models.DayRecord{Key: "k", Valid: true, Entries: []models.ContributorEntry{
				{},
				{ID: "b"},
			}},
		},
		{
			name: "InvalidJSON",
			raw:  `{`,
			want: models.DayRecord{Key: "k"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeDay("k", []byte(tt.raw))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("DecodeDay mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeDay_ObjectPoints(t *testing.T) {
	got := DecodeDay("k", []byte(`{"journalist_info": [{"id": "a", "daily_points": {"x": 1}}]}`))
	if _, ok := got.Entries[0].DailyPoints.(map[string]any); !ok {
		t.Errorf("DailyPoints = %#v, want the decoded object", got.Entries[0].DailyPoints)
	}
}

func TestPath(t *testing.T) {
	tests := map[string]string{
		"":                   "",
		"daily_scores":       "daily_scores",
		"/daily_scores/":     "daily_scores",
		"scores//2024-01-10": "scores.2024-01-10",
		"a.b":                `a\.b`,
	}
	for in, want := range tests {
		if got := Path(in); got != want {
			t.Errorf("Path(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDecodeDay_NumericIDs(t *testing.T) {
	raw := `{"journalist_info": [` +
		`{"id": 1, "daily_points": 1}, {"id": 1.0, "daily_points": 2}, {"id": "1", "daily_points": 3},` +
		`{"id": 1e3}, {"id": 1.5}, {"id": -2}]}`

	got := DecodeDay("k", []byte(raw))

	want := []string{"1", "1", "1", "1000", "1.5", "-2"}
	ids := make([]string, 0, len(got.Entries))
	for _, e := range got.Entries {
		ids = append(ids, e.ID)
	}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
}
