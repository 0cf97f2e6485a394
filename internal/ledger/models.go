// Package ledger records run history and per-listing fetch failures in a
// SQLite database at the searches root.
package ledger

import "time"

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Run is one monitoring run of a search.
type Run struct {
	ID             string
	SearchName     string
	Status         string
	StartedAt      time.Time
	FinishedAt     *time.Time
	ListingsFound  int
	DetailsFetched int
	RoomsFailed    int
	RoomsScored    int
	ErrorMessage   string
}

// Counts are the per-run totals recorded at completion.
type Counts struct {
	ListingsFound  int
	DetailsFetched int
	RoomsFailed    int
	RoomsScored    int
}

// Failure is one exhausted fetch attempt for a room.
type Failure struct {
	ID         int64
	RunID      string
	SearchName string
	RoomID     string
	Stage      string
	Message    string
	CreatedAt  time.Time
}
