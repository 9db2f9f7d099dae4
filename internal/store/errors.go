// ABOUTME: Error types returned by the record store.
// ABOUTME: Validation, lookup, and persistence failures are distinguishable with errors.Is/As.

package store

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("prompt not found")
	ErrAmbiguousPrefix = errors.New("ambiguous id prefix")
	ErrPrefixTooShort  = errors.New("id prefix must be at least 6 characters")

	// ErrPersist matches every PersistError.
	ErrPersist = errors.New("could not persist prompt library")
)

// ValidationError rejects a create request before anything changes.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// PersistError reports a failed save. The in-memory change it describes was kept.
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrPersist, e.Err)
}

func (e *PersistError) Unwrap() []error {
	return []error{ErrPersist, e.Err}
}
