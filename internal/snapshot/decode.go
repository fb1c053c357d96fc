// Package snapshot decodes daily_scores documents into ordered snapshots.
//
// Decoding walks the raw JSON with gjson so object keys are visited in the
// order the source wrote them; that order decides ties in a ranking.
package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/j-veylop/journalist-leaderboard-tui/internal/models"
)

// DefaultNode is the name of the daily scores node in the realtime database.
const DefaultNode = "daily_scores"

// ErrInvalidJSON is returned when a document is not valid JSON.
var ErrInvalidJSON = errors.New("invalid snapshot JSON")

// Decode turns a JSON document into a Snapshot. When node (slash separated)
// exists in the document it is selected; otherwise the document itself is the
// date-keyed mapping. Empty input and null decode to an absent snapshot.
func Decode(raw []byte, node string) (models.Snapshot, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return models.Snapshot{}, nil
	}
	if !gjson.ValidBytes(raw) {
		return models.Snapshot{}, fmt.Errorf("decode snapshot: %w", ErrInvalidJSON)
	}

	root := gjson.ParseBytes(raw)
	if path := Path(node); path != "" {
		if selected := root.Get(path); selected.Exists() {
			root = selected
		}
	}
	return FromResult(root), nil
}

// FromResult builds a Snapshot from an already parsed mapping.
func FromResult(root gjson.Result) models.Snapshot {
	if !root.Exists() || root.Type == gjson.Null {
		return models.Snapshot{}
	}

	snap := models.Snapshot{Exists: true}
	if !root.IsObject() {
		return snap
	}

	root.ForEach(func(key, value gjson.Result) bool {
		snap.Days = append(snap.Days, dayFromResult(key.String(), value))
		return true
	})
	return snap
}

// DecodeDay decodes one day object, as stored per row by the ingestion pipeline.
func DecodeDay(key string, raw []byte) models.DayRecord {
	if !gjson.ValidBytes(raw) {
		return models.DayRecord{Key: key}
	}
	return dayFromResult(key, gjson.ParseBytes(raw))
}

// Path converts a slash separated database path into a gjson/sjson path.
// Leading, trailing and repeated slashes are ignored.
func Path(node string) string {
	var parts []string
	for _, part := range strings.Split(node, "/") {
		if part != "" {
			parts = append(parts, escape(part))
		}
	}
	return strings.Join(parts, ".")
}

// escape backslash-escapes the characters gjson and sjson treat as path syntax.
func escape(part string) string {
	var b strings.Builder
	for i := 0; i < len(part); i++ {
		switch c := part[i]; c {
		case '.', '*', '?', '|', '#', '@', '!', '=', '<', '>', '%', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func dayFromResult(key string, value gjson.Result) models.DayRecord {
	rec := models.DayRecord{Key: key}

	info := value.Get("journalist_info")
	if !info.IsArray() && !info.IsObject() {
		return rec
	}

	rec.Valid = true
	// Sparse arrays come back from the database as objects keyed by index.
	info.ForEach(func(_, item gjson.Result) bool {
		if item.Type != gjson.Null {
			rec.Entries = append(rec.Entries, entryFromResult(item))
		}
		return true
	})
	return rec
}

func entryFromResult(item gjson.Result) models.ContributorEntry {
	if !item.IsObject() {
		return models.ContributorEntry{}
	}

	return models.ContributorEntry{
		ID:          idString(item.Get("id")),
		Name:        item.Get("name").String(),
		Publication: item.Get("publication").String(),
		DailyPoints: rawValue(item.Get("daily_points")),
	}
}

// idString renders an id as text. Numbers are normalized so 1, 1.0 and 1e0
// name the same contributor.
func idString(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number:
		return strconv.FormatFloat(r.Num, 'f', -1, 64)
	default:
		return ""
	}
}

// rawValue keeps the JSON type of v so coercion can treat strings, booleans
// and numbers differently.
func rawValue(v gjson.Result) any {
	switch v.Type {
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.Number:
		return v.Num
	case gjson.String:
		return v.Str
	case gjson.JSON:
		return v.Value()
	default:
		return nil
	}
}
