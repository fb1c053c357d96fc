// Package models defines data structures and domain types.
package models

// ContributorEntry is one journalist's line inside a day record, as pushed by the data source.
// DailyPoints keeps the raw decoded JSON value; the aggregator coerces it.
type ContributorEntry struct {
	DailyPoints any
	ID          string
	Name        string
	Publication string
}

// ContributorTotal is a journalist's accumulated points over a window.
type ContributorTotal struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Publication string  `json:"publication"`
	Points      float64 `json:"points"`
}

// TotalsEqual reports whether two rankings hold the same contributors in the same order.
func TotalsEqual(a, b []ContributorTotal) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
