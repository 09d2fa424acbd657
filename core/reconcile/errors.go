package reconcile

import (
	"errors"
	"fmt"
)

// ErrEmptySnapshot is returned when extraction yields fewer records than
// Options.MinSnapshotSize.
var ErrEmptySnapshot = errors.New("snapshot is empty")

// SetupError aborts a run before any mutation.
type SetupError struct {
	Stage State
	Err   error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

// Op names a store mutation.
type Op string

const (
	OpInsert     Op = "insert"
	OpUpdate     Op = "update"
	OpDelete     Op = "delete"
	OpSoftDelete Op = "soft_delete"
)

// WriteError is a failed mutation of a single record.
type WriteError struct {
	Op  Op
	Key Key
	ID  string
	Err error
}

func (e *WriteError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s (id %s): %v", e.Op, e.Key, e.ID, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
