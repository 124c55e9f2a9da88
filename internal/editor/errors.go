package editor

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned for an unknown or closed session id
	ErrSessionNotFound = errors.New("session not found")
	// ErrNoFile is returned by operations that need an uploaded transcript
	ErrNoFile = errors.New("no file uploaded")
	// ErrFileChanged is returned when a backend result arrives for a file
	// the session no longer edits
	ErrFileChanged = errors.New("file changed while the request was running")
	// ErrNoPath is returned when a report path is neither a report template
	// nor known to the session
	ErrNoPath = errors.New("unknown report path")
	// ErrSnapshotMismatch is returned when a snapshot belongs to another file
	ErrSnapshotMismatch = errors.New("snapshot belongs to another file or user")
)

// OperationError wraps a failed operation with its name.
type OperationError struct {
	Op    string
	Cause error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

func (e *OperationError) Unwrap() error {
	return e.Cause
}
