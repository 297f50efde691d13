// Package storage provides the persistence layer for a board.
//
// The store talks to an Adapter, which loads and saves the task list and the
// assignee set as whole units. JSONAdapter implements Adapter on top of a
// BlobStore: a durable string-keyed store holding one JSON document per key.
// FileBlobStore keeps each key in its own file; MemoryBlobStore keeps them in
// a map for tests and embedding.
package storage

import (
	"errors"

	"github.com/arthur-debert/taskboard/types"
)

// Keys used in the blob store
const (
	TasksKey     = "tasks"
	AssigneesKey = "assignees"
)

// ErrInvalidKey is returned for keys that cannot be mapped to a blob
var ErrInvalidKey = errors.New("invalid storage key")

// Adapter is the persistence contract consumed by the task store
type Adapter interface {
	// LoadTasks returns the persisted list. The bool is false when nothing has
	// been persisted yet.
	LoadTasks() ([]types.Task, bool, error)

	// SaveTasks replaces the persisted list
	SaveTasks(tasks []types.Task) error

	// LoadAssignees returns the persisted names, empty when absent
	LoadAssignees() ([]string, error)

	// SaveAssignees replaces the persisted names
	SaveAssignees(names []string) error
}

// BlobStore is a durable key-value store of opaque byte blobs
type BlobStore interface {
	// Get returns the blob for key. The bool is false when the key is absent.
	Get(key string) ([]byte, bool, error)

	// Put stores data under key, replacing any previous value
	Put(key string, data []byte) error
}

// validKey checks that a key is lowercase alphanumeric with dashes and underscores
func validKey(key string) bool {
	if key == "" {
		return false
	}
	for _, r := range key {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' && r != '_' {
			return false
		}
	}
	return true
}
