package models

// DefaultActor is recorded on history entries when no user is known.
const DefaultActor = "admin"

// HistoryTimeLayout is the second-precision local time format of HistoryEntry.Timestamp.
const HistoryTimeLayout = "2006-01-02 15:04:05"

// HistoryEntry is one append-only activity log record.
type HistoryEntry struct {
	Timestamp string `json:"timestamp"`
	Actor     string `json:"actor"`
	Action    string `json:"action"`  // add, edit, retire, delete, assign
	Details   string `json:"details"` // e.g. tag=PC-100 owner=alice
}
