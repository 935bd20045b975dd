package session

import "errors"

var (
	// ErrNoActiveSession means Ask was called before any source loaded.
	ErrNoActiveSession = errors.New("no active session, load a source first")

	// ErrNoContent means a source produced no indexable text.
	ErrNoContent = errors.New("source extracted no text")
)
