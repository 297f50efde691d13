package store

import "sync"

// OperationType defines whether an operation is read or write
type OperationType int

const (
	// ReadOperation may run alongside other reads
	ReadOperation OperationType = iota

	// WriteOperation is exclusive
	WriteOperation
)

// LockManager centralizes the store's locking so every operation picks the
// right lock and releases it on every path, including panics.
type LockManager struct {
	mu sync.RWMutex
}

// NewLockManager creates a new lock manager instance
func NewLockManager() *LockManager {
	return &LockManager{}
}

// Execute runs fn holding the lock matching opType.
//
// Example:
//
//	err := lockManager.Execute(ReadOperation, func() error {
//	    // Safe to read data here
//	    return nil
//	})
func (lm *LockManager) Execute(opType OperationType, fn func() error) error {
	switch opType {
	case ReadOperation:
		lm.mu.RLock()
		defer lm.mu.RUnlock()
	case WriteOperation:
		lm.mu.Lock()
		defer lm.mu.Unlock()
	}
	return fn()
}

// Read runs fn under a read lock and returns its result
func Read[T any](lm *LockManager, fn func() T) T {
	lm.mu.RLock()
	defer lm.mu.RUnlock()
	return fn()
}
