// Package runs persists a journal of preview runs in SQLite.
//
// The journal is append-only history, not work queueing: the pipeline writes
// a row when a run starts and updates it when the run ends, and the CLI
// reads the table back for inspection. Losing the database loses history
// only, never in-flight work.
package runs
