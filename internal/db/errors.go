package db

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an operation addresses an id that does
	// not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned when a caller-supplied id is already taken.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrStorageUnavailable wraps every failure of the underlying database.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// storageErr tags err as a storage failure while keeping the driver error
// reachable through errors.Is/As.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}
