package models

// DayRecord is the set of contributor entries recorded for one date key.
type DayRecord struct {
	Key     string
	Entries []ContributorEntry
	// Valid is false when the day carried no usable journalist_info list.
	Valid bool
}

// Snapshot is one complete push of the daily_scores mapping.
// Days are kept in the order the source delivered the keys.
type Snapshot struct {
	Days []DayRecord
	// Exists is false when the source has no node at all.
	Exists bool
}

// Len returns the number of day records.
func (s Snapshot) Len() int {
	return len(s.Days)
}

// IsEmpty reports whether the snapshot carries no day records.
func (s Snapshot) IsEmpty() bool {
	return len(s.Days) == 0
}

// EntryCount returns the number of contributor entries across all valid days.
func (s Snapshot) EntryCount() int {
	n := 0
	for _, d := range s.Days {
		if d.Valid {
			n += len(d.Entries)
		}
	}
	return n
}
