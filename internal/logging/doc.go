// Package logging builds the slog loggers used across meshpreview.
//
// It provides a human-oriented console handler and a JSON handler behind a
// shared level variable, attribute helpers so call sites stay terse, and
// context-derived fields that keep every log line for a pipeline run
// correlated by run ID, stage, and attachment name.
package logging
