package pipeline

// Status tracks how far a run progressed through the stage sequence.
type Status string

// Run statuses in stage order. Done and Failed are terminal; a run that
// reaches either has already released its workspace.
const (
	StatusPending  Status = "pending"
	StatusAcquired Status = "acquired"
	StatusRendered Status = "rendered"
	StatusEncoded  Status = "encoded"
	StatusPackaged Status = "packaged"
	StatusDone     Status = "done"
	StatusFailed   Status = "failed"
)

// Terminal reports whether the status ends a run.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusFailed
}
