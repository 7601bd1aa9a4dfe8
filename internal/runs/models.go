package runs

import "time"

// Run is one journal row.
type Run struct {
	ID           int64
	Filename     string
	DisplayName  string
	Status       string
	ErrorMessage string
	Frames       int
	Duration     time.Duration
	StartedAt    time.Time
	FinishedAt   time.Time // zero while the run is in flight
}

// Finished reports whether the run has a terminal status recorded.
func (r Run) Finished() bool {
	return !r.FinishedAt.IsZero()
}

// Summary aggregates journal counts for status output.
type Summary struct {
	Total  int
	Done   int
	Failed int
	Active int
}
