package models

const SnapshotVersion = "1.0"

type Stats struct {
	Generated int `json:"generated"`
	Scanned   int `json:"scanned"`
	Favorites int `json:"favorites"`
}

// ImportStats distinguishes absent counters from zero ones.
type ImportStats struct {
	Generated *int `json:"generated"`
	Scanned   *int `json:"scanned"`
	Favorites *int `json:"favorites"`
}

// MergeInto overwrites only the counters present in the import.
func (is *ImportStats) MergeInto(s Stats) Stats {
	if is == nil {
		return s
	}
	if is.Generated != nil {
		s.Generated = *is.Generated
	}
	if is.Scanned != nil {
		s.Scanned = *is.Scanned
	}
	if is.Favorites != nil {
		s.Favorites = *is.Favorites
	}
	return s
}

// Snapshot is the export file. Settings and Version are set on full exports only.
type Snapshot struct {
	History    []HistoryEntry `json:"history"`
	Favorites  []string       `json:"favorites"`
	Stats      Stats          `json:"stats"`
	Settings   *Settings      `json:"settings,omitempty"`
	Version    string         `json:"version,omitempty"`
	ExportDate string         `json:"exportDate"`
}

// ImportBundle accepts the history export shape; other top-level fields are ignored.
type ImportBundle struct {
	History   []HistoryEntry `json:"history"`
	Favorites []string       `json:"favorites"`
	Stats     *ImportStats   `json:"stats"`
}
