package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound signals an absent document, distinct from a transport failure.
var ErrNotFound = errors.New("not found")

// ErrBackwardTransition is returned by AppendUpdate when the requested status
// is earlier than the issue's current status and reopening was not requested.
var ErrBackwardTransition = errors.New("status transition moves backward")

// ErrInvalidStatus is returned for a status value outside the enumeration.
var ErrInvalidStatus = errors.New("unknown status value")

// ErrInvalidCategory is returned when the category does not belong to the set
// selected by the emergency flag.
var ErrInvalidCategory = errors.New("invalid category")

// StorageError wraps a network or store failure talking to MongoDB or the
// object store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
