package leaderboard

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// dateKeyLayouts are tried in order after RFC 3339.
var dateKeyLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
}

// ParseDateKey interprets a day key. Keys without a zone are read in loc;
// RFC 3339 keys are converted into loc.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	key = strings.TrimSpace(key)
	if loc == nil {
		loc = time.Local
	}

	if t, err := time.Parse(time.RFC3339, key); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range dateKeyLayouts {
		if t, err := time.ParseInLocation(layout, key, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date key %q", key)
}

// CoerceNumber converts a raw daily_points value to a number the way a loose
// numeric cast does, with every non-numeric or non-finite result becoming 0.
func CoerceNumber(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	case uint:
		return float64(n)
	case uint64:
		return float64(n)
	case uint32:
		return float64(n)
	case bool:
		if n {
			return 1
		}
		return 0
	case json.Number:
		return parseNumeric(string(n))
	case string:
		return parseNumeric(n)
	default:
		return 0
	}
}

func parseNumeric(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	if len(s) > 2 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			u, err := strconv.ParseUint(s, 0, 64)
			if err != nil {
				return 0
			}
			return float64(u)
		}
	}

	// ParseFloat accepts inf and nan spellings; finite maps them to 0.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
