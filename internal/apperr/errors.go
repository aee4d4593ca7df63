// Package apperr defines the sentinel errors shared across Dagaz components.
// Callers match them with errors.Is; none of them is fatal to the process.
package apperr

import "errors"

var (
	// ErrStorageRead marks unreadable or corrupt persisted data. The
	// repository falls back to the seed collection.
	ErrStorageRead = errors.New("storage read failed")
	// ErrStorageWrite marks a failed persistence write. The session
	// continues with unsynced in-memory state.
	ErrStorageWrite = errors.New("storage write failed")
	// ErrAnalysis marks a failed or malformed sentiment analysis.
	ErrAnalysis = errors.New("sentiment analysis failed")
	// ErrGeneration marks a failed or malformed insight generation.
	ErrGeneration = errors.New("insight generation failed")
	// ErrInvalidEntry marks rejected caller input (unknown mood, negative
	// metrics, out-of-range sentiment score).
	ErrInvalidEntry = errors.New("invalid entry")
)
