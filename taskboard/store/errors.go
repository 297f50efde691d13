package store

import (
	"errors"
	"fmt"
)

var (
	// ErrPersistenceFailure marks a mutation that was applied in memory and
	// delivered to subscribers but could not be written to durable storage.
	// Callers should surface it as a warning; the mutation is not rolled back.
	ErrPersistenceFailure = errors.New("persistence failure")

	// ErrInvalidStatus is returned when a task would end up outside the three
	// board columns
	ErrInvalidStatus = errors.New("invalid status")
)

func persistenceError(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrPersistenceFailure, what, err)
}
