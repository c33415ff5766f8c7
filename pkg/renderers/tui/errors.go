package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrInvalidJSON is returned when a JSON-typed field keeps receiving
	// input that does not parse.
	ErrInvalidJSON = errors.New("tui: invalid json value")
)
