package store

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrNotFound is returned when no session exists for an id.
	ErrNotFound = errors.New("session not found")
	// ErrInvalidID is returned when a caller-supplied id cannot name a file.
	ErrInvalidID = errors.New("invalid session id")
)

// Operation names carried by PersistenceError and the metrics label.
const (
	OpSave   = "save"
	OpList   = "list"
	OpLoad   = "load"
	OpDelete = "delete"
)

// PersistenceError wraps a failure to read or write the backing store.
type PersistenceError struct {
	Op  string
	ID  string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s sessions: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s session %s: %v", e.Op, e.ID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsPersistenceError reports whether err wraps a PersistenceError.
func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
